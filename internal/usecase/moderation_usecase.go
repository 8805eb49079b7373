package usecase

import (
	"context"
	"strings"
	"time"

	"renaix/internal/domain/entity"
	"renaix/internal/domain/repository"
	"renaix/pkg/errors"
	"renaix/pkg/utils"
)

const minReportReasonLength = 10

type ModerationUseCase struct {
	reportRepo  repository.ReportRepository
	productRepo repository.ProductRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	limiter     RateLimiter
}

func NewModerationUseCase(
	reportRepo repository.ReportRepository,
	productRepo repository.ProductRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	limiter RateLimiter,
) *ModerationUseCase {
	return &ModerationUseCase{
		reportRepo:  reportRepo,
		productRepo: productRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		limiter:     limiter,
	}
}

type FileReportInput struct {
	ProductID string
	CommentID string
	UserID    string
	Category  entity.ReportCategory
	Reason    string
}

type ReportResult struct {
	Report *entity.Report
	Events []entity.Event
}

// FileReport opens a moderation case against exactly one product, comment or
// user. The reported target must exist at filing time.
func (uc *ModerationUseCase) FileReport(ctx context.Context, reporterID string, input FileReportInput) (*ReportResult, error) {
	if allowed, wait := uc.limiter.Allow(reporterID, "file_report"); !allowed {
		return nil, errors.TooManyRequests("You are filing reports too quickly", wait)
	}

	target, err := entity.NewReportTarget(input.ProductID, input.CommentID, input.UserID)
	if err != nil {
		return nil, err
	}

	if len(strings.TrimSpace(input.Reason)) < minReportReasonLength {
		return nil, errors.ReasonTooShort()
	}

	if !validReportCategory(input.Category) {
		return nil, errors.BadRequest("Invalid report category", nil)
	}

	switch target.Kind() {
	case "product":
		if _, err := uc.productRepo.GetByID(ctx, target.ProductID); err != nil {
			return nil, err
		}
	case "comment":
		if _, err := uc.commentRepo.GetByID(ctx, target.CommentID); err != nil {
			return nil, err
		}
	case "user":
		if _, err := uc.userRepo.GetByID(ctx, target.UserID); err != nil {
			return nil, err
		}
	}

	report := &entity.Report{
		Target:     target,
		ReporterID: reporterID,
		Category:   input.Category,
		Reason:     strings.TrimSpace(input.Reason),
		Status:     entity.ReportStatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := uc.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	// Empty recipient means the event goes to the moderator channel rather
	// than a single user.
	events := []entity.Event{
		entity.NewEvent(entity.EventReportFiled, "", map[string]interface{}{
			"report_id":   report.ID,
			"target_kind": target.Kind(),
			"category":    string(report.Category),
		}),
	}

	return &ReportResult{Report: report, Events: events}, nil
}

// Assign puts the report under review by the calling moderator. Assigning a
// report already under review just moves it to the new moderator.
func (uc *ModerationUseCase) Assign(ctx context.Context, moderatorID, reportID string) (*entity.Report, error) {
	if err := uc.requireModerator(ctx, moderatorID); err != nil {
		return nil, err
	}

	report, err := uc.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if report.Status.Terminal() {
		return nil, errors.InvalidTransition("Report is already closed")
	}

	report.Status = entity.ReportStatusInReview
	report.AssigneeID = moderatorID
	report.UpdatedAt = time.Now()

	from := []entity.ReportStatus{entity.ReportStatusPending, entity.ReportStatusInReview}
	if err := uc.reportRepo.UpdateStatus(ctx, report, from); err != nil {
		return nil, err
	}

	return report, nil
}

// Resolve closes the report as upheld. A report may be resolved straight from
// pending; assignment is not a prerequisite.
func (uc *ModerationUseCase) Resolve(ctx context.Context, moderatorID, reportID, resolution string) (*ReportResult, error) {
	return uc.close(ctx, moderatorID, reportID, resolution, entity.ReportStatusResolved)
}

// Reject closes the report as unfounded.
func (uc *ModerationUseCase) Reject(ctx context.Context, moderatorID, reportID, resolution string) (*ReportResult, error) {
	return uc.close(ctx, moderatorID, reportID, resolution, entity.ReportStatusRejected)
}

func (uc *ModerationUseCase) close(ctx context.Context, moderatorID, reportID, resolution string, to entity.ReportStatus) (*ReportResult, error) {
	if err := uc.requireModerator(ctx, moderatorID); err != nil {
		return nil, err
	}

	report, err := uc.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if report.Status.Terminal() {
		return nil, errors.InvalidTransition("Report is already closed")
	}

	now := time.Now()
	report.Status = to
	report.AssigneeID = moderatorID
	report.Resolution = resolution
	report.ResolvedAt = &now
	report.UpdatedAt = now

	from := []entity.ReportStatus{entity.ReportStatusPending, entity.ReportStatusInReview}
	if err := uc.reportRepo.UpdateStatus(ctx, report, from); err != nil {
		return nil, err
	}

	events := []entity.Event{
		entity.NewEvent(entity.EventReportResolved, report.ReporterID, map[string]interface{}{
			"report_id": report.ID,
			"status":    string(report.Status),
		}),
	}

	return &ReportResult{Report: report, Events: events}, nil
}

func (uc *ModerationUseCase) GetByID(ctx context.Context, callerID, reportID string) (*entity.Report, error) {
	report, err := uc.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if report.ReporterID == callerID {
		return report, nil
	}
	if err := uc.requireModerator(ctx, callerID); err != nil {
		return nil, err
	}

	return report, nil
}

func (uc *ModerationUseCase) List(ctx context.Context, moderatorID string, status entity.ReportStatus, page, limit int) ([]*entity.Report, int64, error) {
	if err := uc.requireModerator(ctx, moderatorID); err != nil {
		return nil, 0, err
	}

	filter := map[string]interface{}{}
	if status != "" {
		filter["status"] = status
	}

	pagination := utils.NewPaginationParams(page, limit)

	return uc.reportRepo.List(ctx, filter, pagination.PageSize, pagination.Offset)
}

func (uc *ModerationUseCase) requireModerator(ctx context.Context, userID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != "moderator" {
		return errors.Forbidden("Moderator access required", nil)
	}
	return nil
}

func validReportCategory(category entity.ReportCategory) bool {
	switch category {
	case entity.ReportCategoryInappropriate,
		entity.ReportCategorySpam,
		entity.ReportCategoryFraud,
		entity.ReportCategoryViolence,
		entity.ReportCategoryMisinformation,
		entity.ReportCategoryOther:
		return true
	}
	return false
}
