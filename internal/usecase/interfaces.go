package usecase

import (
	"context"
	"time"
)

type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	GenerateToken(ctx context.Context, uid string) (string, error)
	SignInWithEmailPassword(email, password string) (string, error)
	SignInWithEmailPasswordWithRefresh(email, password string) (string, string, error)
	RefreshIdToken(refreshToken string) (string, string, error)
	UpdateUserPassword(ctx context.Context, uid, newPassword string) error
}

// CodeGenerator issues the human-readable codes attached to purchases.
type CodeGenerator interface {
	NextPurchaseCode() string
}

// RateLimiter gates high-frequency user actions. When the action is denied
// the returned duration is how long until the next token becomes available.
type RateLimiter interface {
	Allow(userID, action string) (bool, time.Duration)
}
