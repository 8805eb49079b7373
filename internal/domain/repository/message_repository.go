package repository

import (
	"context"
	"time"

	"renaix/internal/domain/entity"
)

type MessageRepository interface {
	// Create appends the message to its thread. Creation timestamps are
	// assigned monotonically per thread so concurrent writers never observe
	// reordering within a thread.
	Create(ctx context.Context, message *entity.Message) error

	GetByID(ctx context.Context, id string) (*entity.Message, error)
	ListByThread(ctx context.Context, threadKey string, limit, offset int) ([]*entity.Message, int64, error)
	ListThreads(ctx context.Context, userID string, limit, offset int) ([]*entity.Thread, int64, error)

	// LatestThreadKeyBetween returns the key of the most recent thread between
	// the unordered pair, or NOT_FOUND when the two users never talked.
	LatestThreadKeyBetween(ctx context.Context, userA, userB string) (string, error)

	SetReadState(ctx context.Context, id string, read bool, readAt *time.Time) error
	CountUnread(ctx context.Context, userID string) (int64, error)
}
