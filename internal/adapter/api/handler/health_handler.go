package handler

import (
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"google.golang.org/api/iterator"

	"renaix/pkg/response"
)

type HealthHandler struct {
	firestoreClient *firestore.Client
	startedAt       time.Time
}

var healthHandler *HealthHandler

func SetupHealthHandler(firestoreClient *firestore.Client) {
	healthHandler = &HealthHandler{
		firestoreClient: firestoreClient,
		startedAt:       time.Now(),
	}
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) Check(c echo.Context) error {
	status := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.startedAt).String(),
	}

	ctx := c.Request().Context()
	if _, err := h.firestoreClient.Collections(ctx).Next(); err != nil && err != iterator.Done {
		status["status"] = "degraded"
		status["firestore"] = err.Error()
	} else {
		status["firestore"] = "ok"
	}

	return response.Success(c, status)
}
