// Package mocks holds testify mocks for the repository, gateway and cache
// interfaces used by the services.
package mocks

import (
	"context"
	"time"

	"greekpay/internal/models"
	"greekpay/internal/services/gateway"

	"github.com/stretchr/testify/mock"
)

// ChapterRepository mocks repositories.ChapterRepository.
type ChapterRepository struct{ mock.Mock }

func (m *ChapterRepository) GetByID(ctx context.Context, id uint) (*models.Chapter, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*models.Chapter); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	return m.Called(ctx, chapter).Error(0)
}

type MemberRepository struct{ mock.Mock }

func (m *MemberRepository) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	args := m.Called(ctx, id)
	if mem, ok := args.Get(0).(*models.Member); ok {
		return mem, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	args := m.Called(ctx, email)
	if mem, ok := args.Get(0).(*models.Member); ok {
		return mem, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) Create(ctx context.Context, member *models.Member) error {
	return m.Called(ctx, member).Error(0)
}

type DuesRepository struct{ mock.Mock }

func (m *DuesRepository) GetByID(ctx context.Context, id uint) (*models.Dues, error) {
	args := m.Called(ctx, id)
	if d, ok := args.Get(0).(*models.Dues); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DuesRepository) Create(ctx context.Context, dues *models.Dues) error {
	return m.Called(ctx, dues).Error(0)
}

// PaymentRepository mocks repositories.PaymentRepository.
type PaymentRepository struct{ mock.Mock }

func (m *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *PaymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*models.Payment); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PaymentRepository) GetByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	args := m.Called(ctx, intentID)
	if p, ok := args.Get(0).(*models.Payment); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PaymentRepository) UpdateStatus(ctx context.Context, id uint, status, failureReason string) error {
	return m.Called(ctx, id, status, failureReason).Error(0)
}

func (m *PaymentRepository) MarkSucceeded(ctx context.Context, id uint, last4 string, paidAt time.Time) (*models.Payment, error) {
	args := m.Called(ctx, id, last4, paidAt)
	if p, ok := args.Get(0).(*models.Payment); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PaymentRepository) CreateSucceeded(ctx context.Context, payment *models.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *PaymentRepository) ListByChapter(ctx context.Context, chapterID uint, limit, offset int) ([]models.Payment, int64, error) {
	args := m.Called(ctx, chapterID, limit, offset)
	payments, _ := args.Get(0).([]models.Payment)
	return payments, args.Get(1).(int64), args.Error(2)
}

func (m *PaymentRepository) ListSucceededBetween(ctx context.Context, chapterID uint, from, to time.Time) ([]models.Payment, error) {
	args := m.Called(ctx, chapterID, from, to)
	payments, _ := args.Get(0).([]models.Payment)
	return payments, args.Error(1)
}

func (m *PaymentRepository) SumUnsettledByPlan(ctx context.Context, planID uint) (float64, error) {
	args := m.Called(ctx, planID)
	return args.Get(0).(float64), args.Error(1)
}

// Gateway mocks gateway.Gateway.
type Gateway struct{ mock.Mock }

func (m *Gateway) CreatePaymentIntent(ctx context.Context, req gateway.IntentRequest) (*gateway.IntentResult, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).(*gateway.IntentResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Gateway) ChargeSavedMethod(ctx context.Context, req gateway.IntentRequest) (*gateway.IntentResult, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).(*gateway.IntentResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Gateway) ParseWebhook(payload []byte, signature string) (*gateway.WebhookEvent, error) {
	args := m.Called(payload, signature)
	if e, ok := args.Get(0).(*gateway.WebhookEvent); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

// IdempotencyStore mocks the Redis-backed idempotency store.
type IdempotencyStore struct{ mock.Mock }

func (m *IdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *IdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *IdempotencyStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *IdempotencyStore) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

// InstallmentRepository mocks repositories.InstallmentRepository.
type InstallmentRepository struct{ mock.Mock }

func (m *InstallmentRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]models.InstallmentPlan, error) {
	args := m.Called(ctx, now, limit)
	plans, _ := args.Get(0).([]models.InstallmentPlan)
	return plans, args.Error(1)
}

func (m *InstallmentRepository) Save(ctx context.Context, plan *models.InstallmentPlan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *InstallmentRepository) Create(ctx context.Context, plan *models.InstallmentPlan) error {
	return m.Called(ctx, plan).Error(0)
}
