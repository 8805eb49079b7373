package repository

import (
	"context"

	"renaix/internal/domain/entity"
)

type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)

	// UpdateStatus is a compare-and-swap on the report status: the write only
	// happens while the stored status is in from.
	UpdateStatus(ctx context.Context, report *entity.Report, from []entity.ReportStatus) error

	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Report, int64, error)
}
