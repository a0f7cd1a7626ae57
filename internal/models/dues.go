package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// Dues statuses
const (
	DuesStatusUnpaid  = "unpaid"
	DuesStatusPartial = "partial"
	DuesStatusPaid    = "paid"
)

// Dues is an amount assigned to a member by the chapter treasurer.
type Dues struct {
	gorm.Model
	ChapterID  uint      `gorm:"not null;index"`
	MemberID   uint      `gorm:"not null;index"`
	Title      string    `gorm:"not null"`
	Amount     float64   `gorm:"not null"`
	AmountPaid float64   `gorm:"default:0"`
	DueDate    time.Time `gorm:"index"`
	Status     string    `gorm:"not null;default:'unpaid'"`
}

// Outstanding returns the unpaid balance rounded to cents.
func (d *Dues) Outstanding() float64 {
	remaining := math.Round((d.Amount-d.AmountPaid)*100) / 100
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ApplyPayment adds amount to AmountPaid and refreshes Status.
func (d *Dues) ApplyPayment(amount float64) {
	d.AmountPaid = math.Round((d.AmountPaid+amount)*100) / 100
	switch {
	case d.AmountPaid >= d.Amount:
		d.Status = DuesStatusPaid
	case d.AmountPaid > 0:
		d.Status = DuesStatusPartial
	default:
		d.Status = DuesStatusUnpaid
	}
}
