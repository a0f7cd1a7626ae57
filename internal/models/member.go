package models

import "gorm.io/gorm"

// Member roles
const (
	RoleMember    = "member"
	RoleTreasurer = "treasurer"
	RoleAdmin     = "admin"
)

type Member struct {
	gorm.Model
	ChapterID             uint   `gorm:"not null;index"`
	Email                 string `gorm:"uniqueIndex;not null"`
	Name                  string `gorm:"not null"`
	Role                  string `gorm:"default:'member'"`
	Status                string `gorm:"default:'active'"`
	StripeCustomerID      string
	StripePaymentMethodID string
	// PaymentMethodKind is the processor method type of the saved method:
	// "card" or "us_bank_account".
	PaymentMethodKind  string
	PaymentMethodLast4 string
}

// HasSavedPaymentMethod reports whether the member can be charged off-session.
func (m *Member) HasSavedPaymentMethod() bool {
	return m.StripeCustomerID != "" && m.StripePaymentMethodID != "" && m.PaymentMethodKind != ""
}
