package entity

import (
	"time"

	"renaix/pkg/errors"
)

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusInReview ReportStatus = "in_review"
	ReportStatusResolved ReportStatus = "resolved"
	ReportStatusRejected ReportStatus = "rejected"
)

func (s ReportStatus) Terminal() bool {
	return s == ReportStatusResolved || s == ReportStatusRejected
}

type ReportCategory string

const (
	ReportCategoryInappropriate  ReportCategory = "inappropriate"
	ReportCategorySpam           ReportCategory = "spam"
	ReportCategoryFraud          ReportCategory = "fraud"
	ReportCategoryViolence       ReportCategory = "violence"
	ReportCategoryMisinformation ReportCategory = "misinformation"
	ReportCategoryOther          ReportCategory = "other"
)

// ReportTarget is a tagged union: exactly one arm is populated. Construct it
// through NewReportTarget so a report never points at zero or two targets.
type ReportTarget struct {
	ProductID string `json:"product_id,omitempty" firestore:"productId,omitempty"`
	CommentID string `json:"comment_id,omitempty" firestore:"commentId,omitempty"`
	UserID    string `json:"user_id,omitempty" firestore:"userId,omitempty"`
}

func NewReportTarget(productID, commentID, userID string) (ReportTarget, error) {
	target := ReportTarget{ProductID: productID, CommentID: commentID, UserID: userID}
	if err := target.Validate(); err != nil {
		return ReportTarget{}, err
	}
	return target, nil
}

func (t ReportTarget) Validate() error {
	populated := 0
	if t.ProductID != "" {
		populated++
	}
	if t.CommentID != "" {
		populated++
	}
	if t.UserID != "" {
		populated++
	}
	if populated != 1 {
		return errors.InvalidTarget()
	}
	return nil
}

// Kind returns which arm of the union is populated.
func (t ReportTarget) Kind() string {
	switch {
	case t.ProductID != "":
		return "product"
	case t.CommentID != "":
		return "comment"
	case t.UserID != "":
		return "user"
	}
	return ""
}

type Report struct {
	ID         string         `json:"id" firestore:"id"`
	Target     ReportTarget   `json:"target" firestore:"target"`
	ReporterID string         `json:"reporter_id" firestore:"reporterId"`
	Category   ReportCategory `json:"category" firestore:"category"`
	Reason     string         `json:"reason" firestore:"reason"`
	Status     ReportStatus   `json:"status" firestore:"status"`

	AssigneeID string `json:"assignee_id,omitempty" firestore:"assigneeId,omitempty"`
	Resolution string `json:"resolution,omitempty" firestore:"resolution,omitempty"`

	CreatedAt  time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time  `json:"updated_at" firestore:"updatedAt"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty" firestore:"resolvedAt,omitempty"`
}
