package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment method codes stored on ledger rows
const (
	PaymentMethodStripeACH  = "stripe_ach"
	PaymentMethodStripeCard = "stripe_card"
	PaymentMethodCash       = "cash"
	PaymentMethodCheck      = "check"
	PaymentMethodVenmo      = "venmo"
	PaymentMethodZelle      = "zelle"
	PaymentMethodOther      = "other"
)

// Payment statuses
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusSucceeded  = "succeeded"
	PaymentStatusFailed     = "failed"
	PaymentStatusCanceled   = "canceled"
)

// Payment is one collection against a member's dues. Stripe payments carry the
// fee breakdown computed when the charge was created; manual payments carry
// zero fees and TotalCharged == ChapterReceives == Amount.
type Payment struct {
	gorm.Model
	ChapterID             uint    `gorm:"not null;index"`
	MemberID              uint    `gorm:"not null;index"`
	DuesID                *uint   `gorm:"index"`
	InstallmentPlanID     *uint   `gorm:"index"`
	Amount                float64 `gorm:"not null"`
	ProcessorFee          float64 `gorm:"default:0"`
	PlatformFee           float64 `gorm:"default:0"`
	TotalCharged          float64 `gorm:"not null"`
	ChapterReceives       float64 `gorm:"not null"`
	PaymentMethod         string  `gorm:"not null"`
	Last4                 string
	Status                string  `gorm:"not null;default:'pending';index"`
	StripePaymentIntentID *string `gorm:"uniqueIndex"`
	Reference             string  `gorm:"uniqueIndex;not null"`
	FailureReason         string
	Notes                 string
	Metadata              JSON `gorm:"type:jsonb"`
	PaidAt                *time.Time
}

// IsStripe reports whether the payment went through the processor.
func (p *Payment) IsStripe() bool {
	return p.PaymentMethod == PaymentMethodStripeCard || p.PaymentMethod == PaymentMethodStripeACH
}

// IsFinal reports whether the payment can no longer change status. A failed
// intent can still succeed when the payer retries with another method.
func (p *Payment) IsFinal() bool {
	return p.Status == PaymentStatusSucceeded || p.Status == PaymentStatusCanceled
}
