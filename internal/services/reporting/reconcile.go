// Package reporting builds treasurer-facing reports over the payment ledger.
package reporting

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	apperrors "greekpay/internal/errors"
	"greekpay/internal/models"
	"greekpay/internal/repositories"
	"greekpay/internal/services/fees"

	"github.com/shopspring/decimal"
)

// tolerance is the largest stored-vs-expected gap treated as equal.
var tolerance = decimal.RequireFromString("0.005")

// MethodTotals sums the settled payments of one payment method.
type MethodTotals struct {
	Method          string  `json:"method"`
	Label           string  `json:"label"`
	Count           int     `json:"count"`
	Amount          float64 `json:"amount"`
	TotalCharged    float64 `json:"total_charged"`
	ProcessorFees   float64 `json:"processor_fees"`
	PlatformFees    float64 `json:"platform_fees"`
	ChapterReceives float64 `json:"chapter_receives"`
}

// Discrepancy is a stored fee field that does not match a fresh calculation.
type Discrepancy struct {
	PaymentID uint    `json:"payment_id"`
	Reference string  `json:"reference"`
	Field     string  `json:"field"`
	Stored    float64 `json:"stored"`
	Expected  float64 `json:"expected"`
}

// Report reconciles what payers were charged against what the chapter received.
type Report struct {
	ChapterID     uint           `json:"chapter_id"`
	From          time.Time      `json:"from"`
	To            time.Time      `json:"to"`
	ByMethod      []MethodTotals `json:"by_method"`
	Total         MethodTotals   `json:"total"`
	Discrepancies []Discrepancy  `json:"discrepancies"`
}

type Service interface {
	Reconcile(ctx context.Context, chapterID uint, from, to time.Time) (*Report, error)
}

type service struct {
	payments repositories.PaymentRepository
	calc     *fees.Calculator
}

func NewService(payments repositories.PaymentRepository, calc *fees.Calculator) Service {
	return &service{payments: payments, calc: calc}
}

type sums struct {
	count     int
	amount    decimal.Decimal
	charged   decimal.Decimal
	processor decimal.Decimal
	platform  decimal.Decimal
	chapterIn decimal.Decimal
}

func (s *sums) add(p *models.Payment) {
	s.count++
	s.amount = s.amount.Add(decimal.NewFromFloat(p.Amount))
	s.charged = s.charged.Add(decimal.NewFromFloat(p.TotalCharged))
	s.processor = s.processor.Add(decimal.NewFromFloat(p.ProcessorFee))
	s.platform = s.platform.Add(decimal.NewFromFloat(p.PlatformFee))
	s.chapterIn = s.chapterIn.Add(decimal.NewFromFloat(p.ChapterReceives))
}

func (s *sums) totals(method, label string) MethodTotals {
	return MethodTotals{
		Method:          method,
		Label:           label,
		Count:           s.count,
		Amount:          s.amount.Round(2).InexactFloat64(),
		TotalCharged:    s.charged.Round(2).InexactFloat64(),
		ProcessorFees:   s.processor.Round(2).InexactFloat64(),
		PlatformFees:    s.platform.Round(2).InexactFloat64(),
		ChapterReceives: s.chapterIn.Round(2).InexactFloat64(),
	}
}

// Reconcile totals the chapter's settled payments in [from, to) per method
// and checks every processor payment against the current fee schedule.
func (s *service) Reconcile(ctx context.Context, chapterID uint, from, to time.Time) (*Report, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: %s is not after %s", apperrors.ErrInvalidPeriod, to.Format(time.RFC3339), from.Format(time.RFC3339))
	}

	payments, err := s.payments.ListSucceededBetween(ctx, chapterID, from, to)
	if err != nil {
		return nil, err
	}

	perMethod := make(map[string]*sums)
	var all sums
	report := &Report{
		ChapterID:     chapterID,
		From:          from,
		To:            to,
		Discrepancies: []Discrepancy{},
	}

	for i := range payments {
		p := &payments[i]
		bucket, ok := perMethod[p.PaymentMethod]
		if !ok {
			bucket = &sums{}
			perMethod[p.PaymentMethod] = bucket
		}
		bucket.add(p)
		all.add(p)

		report.Discrepancies = append(report.Discrepancies, s.check(p)...)
	}

	methods := make([]string, 0, len(perMethod))
	for m := range perMethod {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	for _, m := range methods {
		report.ByMethod = append(report.ByMethod, perMethod[m].totals(m, fees.FormatPaymentMethod(m, "")))
	}
	report.Total = all.totals("", "Total")

	if len(report.Discrepancies) > 0 {
		log.Printf("⚠️ Chapter %d reconciliation found %d fee discrepancies", chapterID, len(report.Discrepancies))
	}
	return report, nil
}

// check recomputes a processor payment's breakdown. Manual payments carry no
// fees and must have TotalCharged == ChapterReceives == Amount.
func (s *service) check(p *models.Payment) []Discrepancy {
	var expected struct{ processor, platform, total, net float64 }

	if method, ok := fees.MethodFromCode(p.PaymentMethod); ok {
		b, err := s.calc.Breakdown(p.Amount, method)
		if err != nil {
			return []Discrepancy{{PaymentID: p.ID, Reference: p.Reference, Field: "amount", Stored: p.Amount}}
		}
		expected.processor = b.ProcessorFee
		expected.platform = b.PlatformFee
		expected.total = b.TotalCharge
		expected.net = b.ChapterReceives
	} else {
		expected.total = p.Amount
		expected.net = p.Amount
	}

	fields := []struct {
		name             string
		stored, expected float64
	}{
		{"processor_fee", p.ProcessorFee, expected.processor},
		{"platform_fee", p.PlatformFee, expected.platform},
		{"total_charged", p.TotalCharged, expected.total},
		{"chapter_receives", p.ChapterReceives, expected.net},
	}

	var out []Discrepancy
	for _, f := range fields {
		diff := decimal.NewFromFloat(f.stored).Sub(decimal.NewFromFloat(f.expected)).Abs()
		if diff.GreaterThan(tolerance) {
			out = append(out, Discrepancy{
				PaymentID: p.ID,
				Reference: p.Reference,
				Field:     f.name,
				Stored:    f.stored,
				Expected:  f.expected,
			})
		}
	}
	return out
}
