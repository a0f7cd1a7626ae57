package repositories

import (
	"context"
	"time"

	"greekpay/internal/models"
)

// PaymentRepository persists dues payments. Methods that settle a payment
// also apply it to the linked dues row in the same database transaction.
type PaymentRepository interface {
	// Core operations
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	GetByIntentID(ctx context.Context, intentID string) (*models.Payment, error)

	// Status operations
	UpdateStatus(ctx context.Context, id uint, status, failureReason string) error
	MarkSucceeded(ctx context.Context, id uint, last4 string, paidAt time.Time) (*models.Payment, error)
	CreateSucceeded(ctx context.Context, payment *models.Payment) error

	// Query operations
	ListByChapter(ctx context.Context, chapterID uint, limit, offset int) ([]models.Payment, int64, error)
	ListSucceededBetween(ctx context.Context, chapterID uint, from, to time.Time) ([]models.Payment, error)
	SumUnsettledByPlan(ctx context.Context, planID uint) (float64, error)
}

// InstallmentRepository persists installment plans.
type InstallmentRepository interface {
	ListDue(ctx context.Context, now time.Time, limit int) ([]models.InstallmentPlan, error)
	Save(ctx context.Context, plan *models.InstallmentPlan) error
	Create(ctx context.Context, plan *models.InstallmentPlan) error
}
