package installment

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	apperrors "greekpay/internal/errors"
	"greekpay/internal/models"
	"greekpay/internal/repositories"
	"greekpay/internal/services/fees"
	"greekpay/internal/services/gateway"

	"github.com/google/uuid"
)

// Config tunes the installment processor.
type Config struct {
	BatchSize   int
	MaxFailures int
	Currency    string
	RetryDelay  time.Duration
}

const (
	DefaultBatchSize   = 100
	DefaultMaxFailures = 3
	DefaultRetryDelay  = 24 * time.Hour
)

// Summary reports what one processing run did.
type Summary struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Service charges due installments off-session.
type Service interface {
	ProcessDue(ctx context.Context, now time.Time) (*Summary, error)
}

type service struct {
	plans    repositories.InstallmentRepository
	members  repositories.MemberRepository
	chapters repositories.ChapterRepository
	dues     repositories.DuesRepository
	payments repositories.PaymentRepository
	gateway  gateway.Gateway
	calc     *fees.Calculator
	config   Config
}

func NewService(
	plans repositories.InstallmentRepository,
	members repositories.MemberRepository,
	chapters repositories.ChapterRepository,
	dues repositories.DuesRepository,
	payments repositories.PaymentRepository,
	gw gateway.Gateway,
	calc *fees.Calculator,
	config Config,
) Service {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.MaxFailures <= 0 {
		config.MaxFailures = DefaultMaxFailures
	}
	if config.Currency == "" {
		config.Currency = "usd"
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultRetryDelay
	}

	return &service{
		plans:    plans,
		members:  members,
		chapters: chapters,
		dues:     dues,
		payments: payments,
		gateway:  gw,
		calc:     calc,
		config:   config,
	}
}

type outcome int

const (
	outcomeSucceeded outcome = iota
	outcomeFailed
	outcomeSkipped
)

// ProcessDue charges every active plan whose next charge date is at or
// before now, up to the configured batch size.
func (s *service) ProcessDue(ctx context.Context, now time.Time) (*Summary, error) {
	plans, err := s.plans.ListDue(ctx, now, s.config.BatchSize)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	for i := range plans {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		plan := &plans[i]
		summary.Processed++

		result, err := s.chargePlan(ctx, plan, now)
		if err != nil {
			log.Printf("Installment plan %d: %v", plan.ID, err)
		}

		switch result {
		case outcomeSucceeded:
			summary.Succeeded++
		case outcomeFailed:
			summary.Failed++
		default:
			summary.Skipped++
		}
	}

	log.Printf("Installments processed: %d charged, %d failed, %d skipped",
		summary.Succeeded, summary.Failed, summary.Skipped)
	return summary, nil
}

func (s *service) chargePlan(ctx context.Context, plan *models.InstallmentPlan, now time.Time) (outcome, error) {
	member, err := s.members.GetByID(ctx, plan.MemberID)
	if err != nil {
		return outcomeSkipped, err
	}
	if !member.HasSavedPaymentMethod() {
		return outcomeFailed, s.recordFailure(ctx, plan, now, apperrors.ErrNoSavedPaymentMethod.Message)
	}

	method, err := fees.ParseMethod(member.PaymentMethodKind)
	if err != nil {
		return outcomeFailed, s.recordFailure(ctx, plan, now, err.Error())
	}

	chapter, err := s.chapters.GetByID(ctx, plan.ChapterID)
	if err != nil {
		return outcomeSkipped, err
	}
	if !chapter.CanReceivePayments() {
		log.Printf("Installment plan %d skipped: chapter %d cannot receive payments", plan.ID, chapter.ID)
		return outcomeSkipped, nil
	}

	dues, err := s.dues.GetByID(ctx, plan.DuesID)
	if err != nil {
		return outcomeSkipped, err
	}
	outstanding := dues.Outstanding()
	if outstanding <= 0 {
		plan.Status = models.InstallmentStatusCompleted
		return outcomeSkipped, s.plans.Save(ctx, plan)
	}

	// ACH installments still in flight are not on the dues row yet.
	unsettled, err := s.payments.SumUnsettledByPlan(ctx, plan.ID)
	if err != nil {
		return outcomeSkipped, err
	}
	remaining := fees.FromCents(fees.ToCents(outstanding) - fees.ToCents(unsettled))
	if remaining <= 0 {
		log.Printf("Installment plan %d skipped: %.2f still settling covers the balance", plan.ID, unsettled)
		return outcomeSkipped, nil
	}

	amount := math.Min(plan.InstallmentAmount, remaining)
	if plan.Remaining() == 1 {
		amount = remaining
	}
	if !s.calc.MeetsMinimum(amount) {
		log.Printf("Installment plan %d skipped: %.2f is below the minimum charge", plan.ID, amount)
		return outcomeSkipped, nil
	}

	// A fee error is fatal to this charge and is not retried.
	breakdown, err := s.calc.Breakdown(amount, method)
	if err != nil {
		log.Printf("Installment plan %d skipped: fee calculation failed: %v", plan.ID, err)
		return outcomeSkipped, nil
	}

	n := plan.PaidInstallments + 1
	result, err := s.gateway.ChargeSavedMethod(ctx, gateway.IntentRequest{
		AmountCents:         breakdown.TotalChargeCents(),
		ApplicationFeeCents: breakdown.ApplicationFeeCents(),
		Currency:            s.config.Currency,
		Method:              string(method),
		CustomerID:          member.StripeCustomerID,
		PaymentMethodID:     member.StripePaymentMethodID,
		DestinationAccount:  chapter.StripeAccountID,
		Description:         fmt.Sprintf("%s - %s (%d/%d)", chapter.Name, dues.Title, n, plan.TotalInstallments),
		IdempotencyKey:      IdempotencyKey(plan, n),
		Metadata: map[string]string{
			"installment_plan_id": strconv.FormatUint(uint64(plan.ID), 10),
			"installment":         strconv.Itoa(n),
			"dues_id":             strconv.FormatUint(uint64(dues.ID), 10),
		},
	})
	if err != nil {
		return outcomeFailed, s.recordFailure(ctx, plan, now, err.Error())
	}

	payment := s.newPayment(plan, breakdown, method, result, now)
	switch result.Status {
	case models.PaymentStatusSucceeded:
		err = s.payments.CreateSucceeded(ctx, payment)
	default:
		err = s.payments.Create(ctx, payment)
	}
	if err != nil {
		return outcomeSkipped, fmt.Errorf("failed to record installment payment for intent %s: %w", result.ID, err)
	}

	if result.Status == models.PaymentStatusFailed {
		return outcomeFailed, s.recordFailure(ctx, plan, now, result.FailureReason)
	}

	// Processing ACH debits settle through the webhook; the schedule moves on.
	plan.Advance()
	if err := s.plans.Save(ctx, plan); err != nil {
		return outcomeSucceeded, fmt.Errorf("failed to advance plan: %w", err)
	}
	return outcomeSucceeded, nil
}

func (s *service) newPayment(plan *models.InstallmentPlan, b *fees.Breakdown, method fees.Method, result *gateway.IntentResult, now time.Time) *models.Payment {
	planID := plan.ID
	duesID := plan.DuesID
	payment := &models.Payment{
		ChapterID:         plan.ChapterID,
		MemberID:          plan.MemberID,
		DuesID:            &duesID,
		InstallmentPlanID: &planID,
		Amount:            b.Amount,
		ProcessorFee:      b.ProcessorFee,
		PlatformFee:       b.PlatformFee,
		TotalCharged:      b.TotalCharge,
		ChapterReceives:   b.ChapterReceives,
		PaymentMethod:     method.Code(),
		Last4:             result.Last4,
		Status:            result.Status,
		Reference:         uuid.NewString(),
		FailureReason:     result.FailureReason,
		Metadata: models.JSON{
			"installment":     plan.PaidInstallments + 1,
			"application_fee": b.ApplicationFee,
		},
	}
	if result.ID != "" {
		intentID := result.ID
		payment.StripePaymentIntentID = &intentID
	}
	if result.Status == models.PaymentStatusSucceeded {
		paidAt := now
		payment.PaidAt = &paidAt
	}
	return payment
}

func (s *service) recordFailure(ctx context.Context, plan *models.InstallmentPlan, now time.Time, reason string) error {
	plan.FailureCount++
	plan.LastError = reason
	if plan.FailureCount >= s.config.MaxFailures {
		plan.Status = models.InstallmentStatusFailed
		log.Printf("❌ Installment plan %d failed after %d attempts: %s", plan.ID, plan.FailureCount, reason)
	} else {
		plan.NextChargeDate = now.Add(s.config.RetryDelay)
	}

	if err := s.plans.Save(ctx, plan); err != nil {
		return fmt.Errorf("failed to record installment failure: %w", err)
	}
	return nil
}

// IdempotencyKey names the charge for installment n of plan. Retries after a
// failure get their own key so the processor does not replay the decline.
func IdempotencyKey(plan *models.InstallmentPlan, n int) string {
	key := fmt.Sprintf("installment-%d-%d", plan.ID, n)
	if plan.FailureCount > 0 {
		key += "-retry" + strconv.Itoa(plan.FailureCount)
	}
	return key
}
