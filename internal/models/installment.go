package models

import (
	"time"

	"gorm.io/gorm"
)

// Installment plan statuses
const (
	InstallmentStatusActive    = "active"
	InstallmentStatusCompleted = "completed"
	InstallmentStatusFailed    = "failed"
	InstallmentStatusCanceled  = "canceled"
)

// Installment frequencies
const (
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
)

// InstallmentPlan splits a dues assignment into recurring off-session charges.
type InstallmentPlan struct {
	gorm.Model
	ChapterID         uint      `gorm:"not null;index"`
	MemberID          uint      `gorm:"not null;index"`
	DuesID            uint      `gorm:"not null;index"`
	InstallmentAmount float64   `gorm:"not null"`
	TotalInstallments int       `gorm:"not null"`
	PaidInstallments  int       `gorm:"default:0"`
	Frequency         string    `gorm:"not null;default:'monthly'"`
	NextChargeDate    time.Time `gorm:"index"`
	Status            string    `gorm:"not null;default:'active';index"`
	FailureCount      int       `gorm:"default:0"`
	LastError         string
}

// Remaining returns how many installments are still to be charged.
func (p *InstallmentPlan) Remaining() int {
	if p.PaidInstallments >= p.TotalInstallments {
		return 0
	}
	return p.TotalInstallments - p.PaidInstallments
}

// Advance records a successful installment and moves the next charge date.
func (p *InstallmentPlan) Advance() {
	p.PaidInstallments++
	p.FailureCount = 0
	p.LastError = ""
	if p.Remaining() == 0 {
		p.Status = InstallmentStatusCompleted
		return
	}
	switch p.Frequency {
	case FrequencyWeekly:
		p.NextChargeDate = p.NextChargeDate.AddDate(0, 0, 7)
	case FrequencyBiweekly:
		p.NextChargeDate = p.NextChargeDate.AddDate(0, 0, 14)
	default:
		p.NextChargeDate = p.NextChargeDate.AddDate(0, 1, 0)
	}
}
