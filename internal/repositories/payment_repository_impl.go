package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "greekpay/internal/errors"
	"greekpay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepository) GetByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("stripe_payment_intent_id = ?", intentID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

// UpdateStatus changes the status of a payment that is not final yet.
func (r *paymentRepository) UpdateStatus(ctx context.Context, id uint, status, failureReason string) error {
	result := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status NOT IN ?", id, []string{models.PaymentStatusSucceeded, models.PaymentStatusCanceled}).
		Updates(map[string]interface{}{
			"status":         status,
			"failure_reason": failureReason,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment status: %w", result.Error)
	}
	return nil
}

// MarkSucceeded settles a payment and credits its dues row. Settling an
// already succeeded payment returns it unchanged.
func (r *paymentRepository) MarkSucceeded(ctx context.Context, id uint, last4 string, paidAt time.Time) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrPaymentNotFound
			}
			return err
		}

		if payment.Status == models.PaymentStatusSucceeded {
			return nil
		}

		payment.Status = models.PaymentStatusSucceeded
		payment.FailureReason = ""
		payment.PaidAt = &paidAt
		if last4 != "" {
			payment.Last4 = last4
		}
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		return applyToDues(tx, &payment)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to settle payment %d: %w", id, err)
	}
	return &payment, nil
}

// CreateSucceeded records an already collected payment and credits its dues.
func (r *paymentRepository) CreateSucceeded(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment.Status = models.PaymentStatusSucceeded
		if payment.PaidAt == nil {
			now := time.Now()
			payment.PaidAt = &now
		}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		return applyToDues(tx, payment)
	})
}

func applyToDues(tx *gorm.DB, payment *models.Payment) error {
	if payment.DuesID == nil {
		return nil
	}

	var dues models.Dues
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&dues, *payment.DuesID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrDuesNotFound
		}
		return err
	}

	dues.ApplyPayment(payment.Amount)
	return tx.Save(&dues).Error
}

func (r *paymentRepository) ListByChapter(ctx context.Context, chapterID uint, limit, offset int) ([]models.Payment, int64, error) {
	var (
		payments []models.Payment
		total    int64
	)

	query := r.db.WithContext(ctx).Model(&models.Payment{}).Where("chapter_id = ?", chapterID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&payments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, total, nil
}

func (r *paymentRepository) ListSucceededBetween(ctx context.Context, chapterID uint, from, to time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("chapter_id = ? AND status = ? AND paid_at >= ? AND paid_at < ?",
			chapterID, models.PaymentStatusSucceeded, from, to).
		Order("paid_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list settled payments: %w", err)
	}
	return payments, nil
}

// SumUnsettledByPlan totals the plan's charges that were accepted but have not
// been credited to the dues yet.
func (r *paymentRepository) SumUnsettledByPlan(ctx context.Context, planID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("installment_plan_id = ? AND status IN ?", planID,
			[]string{models.PaymentStatusPending, models.PaymentStatusProcessing}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum unsettled payments: %w", err)
	}
	return total, nil
}

type installmentRepository struct {
	db *gorm.DB
}

func NewInstallmentRepository(db *gorm.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]models.InstallmentPlan, error) {
	var plans []models.InstallmentPlan
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_charge_date <= ?", models.InstallmentStatusActive, now).
		Order("next_charge_date ASC").
		Limit(limit).
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due installments: %w", err)
	}
	return plans, nil
}

func (r *installmentRepository) Save(ctx context.Context, plan *models.InstallmentPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *installmentRepository) Create(ctx context.Context, plan *models.InstallmentPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}
