package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "greekpay/internal/errors"
	"greekpay/internal/mocks"
	"greekpay/internal/models"
	"greekpay/internal/services/fees"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	periodStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
)

func newTestService(t *testing.T, payments *mocks.PaymentRepository) Service {
	t.Helper()
	calc, err := fees.NewCalculator(fees.DefaultSchedule())
	require.NoError(t, err)
	return NewService(payments, calc)
}

func ledger() []models.Payment {
	return []models.Payment{
		{Model: gorm.Model{ID: 1}, Reference: "r1", PaymentMethod: models.PaymentMethodStripeCard,
			Amount: 100, ProcessorFee: 3.30, PlatformFee: 1.00, TotalCharged: 103.30, ChapterReceives: 99.00},
		{Model: gorm.Model{ID: 2}, Reference: "r2", PaymentMethod: models.PaymentMethodStripeCard,
			Amount: 50, ProcessorFee: 1.80, PlatformFee: 0.50, TotalCharged: 51.80, ChapterReceives: 49.50},
		{Model: gorm.Model{ID: 3}, Reference: "r3", PaymentMethod: models.PaymentMethodStripeACH,
			Amount: 1000, ProcessorFee: 5.00, PlatformFee: 10.00, TotalCharged: 1000, ChapterReceives: 985},
		{Model: gorm.Model{ID: 4}, Reference: "r4", PaymentMethod: models.PaymentMethodCash,
			Amount: 40, TotalCharged: 40, ChapterReceives: 40},
		// Stored with a stale processor fee; 0.91 is correct for $20 by card.
		{Model: gorm.Model{ID: 5}, Reference: "r5", PaymentMethod: models.PaymentMethodStripeCard,
			Amount: 20, ProcessorFee: 0.85, PlatformFee: 0.20, TotalCharged: 20.91, ChapterReceives: 19.80},
	}
}

func TestReconcile(t *testing.T) {
	payments := new(mocks.PaymentRepository)
	ctx := context.Background()
	payments.On("ListSucceededBetween", ctx, uint(3), periodStart, periodEnd).Return(ledger(), nil)

	report, err := newTestService(t, payments).Reconcile(ctx, 3, periodStart, periodEnd)
	require.NoError(t, err)

	require.Len(t, report.ByMethod, 3)
	assert.Equal(t, MethodTotals{
		Method: "cash", Label: "Cash", Count: 1,
		Amount: 40, TotalCharged: 40, ChapterReceives: 40,
	}, report.ByMethod[0])
	assert.Equal(t, MethodTotals{
		Method: "stripe_ach", Label: "Bank Account", Count: 1,
		Amount: 1000, TotalCharged: 1000, ProcessorFees: 5, PlatformFees: 10, ChapterReceives: 985,
	}, report.ByMethod[1])
	assert.Equal(t, MethodTotals{
		Method: "stripe_card", Label: "Card", Count: 3,
		Amount: 170, TotalCharged: 176.01, ProcessorFees: 5.95, PlatformFees: 1.70, ChapterReceives: 168.30,
	}, report.ByMethod[2])

	assert.Equal(t, 5, report.Total.Count)
	assert.Equal(t, 1210.0, report.Total.Amount)
	assert.Equal(t, 1216.01, report.Total.TotalCharged)
	assert.Equal(t, 10.95, report.Total.ProcessorFees)
	assert.Equal(t, 11.70, report.Total.PlatformFees)
	assert.Equal(t, 1193.30, report.Total.ChapterReceives)

	assert.Equal(t, []Discrepancy{{
		PaymentID: 5,
		Reference: "r5",
		Field:     "processor_fee",
		Stored:    0.85,
		Expected:  0.91,
	}}, report.Discrepancies)
	payments.AssertExpectations(t)
}

func TestReconcile_ManualPaymentWithFees(t *testing.T) {
	payments := new(mocks.PaymentRepository)
	ctx := context.Background()
	payments.On("ListSucceededBetween", ctx, uint(3), periodStart, periodEnd).Return([]models.Payment{
		{Model: gorm.Model{ID: 9}, Reference: "r9", PaymentMethod: models.PaymentMethodZelle,
			Amount: 75, TotalCharged: 75, ChapterReceives: 74},
	}, nil)

	report, err := newTestService(t, payments).Reconcile(ctx, 3, periodStart, periodEnd)
	require.NoError(t, err)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, "chapter_receives", report.Discrepancies[0].Field)
	assert.Equal(t, 75.0, report.Discrepancies[0].Expected)
}

func TestReconcile_Empty(t *testing.T) {
	payments := new(mocks.PaymentRepository)
	ctx := context.Background()
	payments.On("ListSucceededBetween", ctx, uint(3), periodStart, periodEnd).Return(nil, nil)

	report, err := newTestService(t, payments).Reconcile(ctx, 3, periodStart, periodEnd)
	require.NoError(t, err)
	assert.Empty(t, report.ByMethod)
	assert.Empty(t, report.Discrepancies)
	assert.Equal(t, 0, report.Total.Count)
	assert.Equal(t, 0.0, report.Total.Amount)
}

func TestReconcile_InvalidPeriod(t *testing.T) {
	payments := new(mocks.PaymentRepository)

	_, err := newTestService(t, payments).Reconcile(context.Background(), 3, periodEnd, periodStart)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPeriod))
	payments.AssertNotCalled(t, "ListSucceededBetween")
}
