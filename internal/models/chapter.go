package models

import "gorm.io/gorm"

// Chapter is a tenant: one fraternity or sorority chapter with its own
// Stripe Connect account that receives dues settlements.
type Chapter struct {
	gorm.Model
	Name            string `gorm:"not null"`
	School          string
	StripeAccountID string `gorm:"index"`
	PayoutsEnabled  bool   `gorm:"default:false"`
	Status          string `gorm:"default:'active'"`
}

// CanReceivePayments reports whether Stripe charges can be routed to the chapter.
func (c *Chapter) CanReceivePayments() bool {
	return c.StripeAccountID != "" && c.PayoutsEnabled && c.Status == "active"
}
