package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	apperrors "greekpay/internal/errors"
	"greekpay/internal/models"
	"greekpay/internal/repositories"
	"greekpay/internal/services/fees"
	"greekpay/internal/services/gateway"
	cachekeys "greekpay/internal/utils/cache"

	"github.com/google/uuid"
)

type service struct {
	chapters repositories.ChapterRepository
	members  repositories.MemberRepository
	dues     repositories.DuesRepository
	payments repositories.PaymentRepository
	gateway  gateway.Gateway
	store    IdempotencyStore
	calc     *fees.Calculator
	config   Config
	now      func() time.Time
}

// NewService creates a new payment service
func NewService(
	chapters repositories.ChapterRepository,
	members repositories.MemberRepository,
	dues repositories.DuesRepository,
	payments repositories.PaymentRepository,
	gw gateway.Gateway,
	store IdempotencyStore,
	calc *fees.Calculator,
	config Config,
) Service {
	if calc == nil {
		panic("fee calculator is required")
	}
	if gw == nil {
		panic("gateway is required")
	}
	if store == nil {
		panic("idempotency store is required")
	}

	if config.Currency == "" {
		config.Currency = DefaultCurrency
	}
	if config.IdempotencyTTL == 0 {
		config.IdempotencyTTL = DefaultIdempotencyTTL
	}
	if config.LockTTL == 0 {
		config.LockTTL = DefaultLockTTL
	}
	if config.WebhookEventTTL == 0 {
		config.WebhookEventTTL = DefaultWebhookEventTTL
	}

	return &service{
		chapters: chapters,
		members:  members,
		dues:     dues,
		payments: payments,
		gateway:  gw,
		store:    store,
		calc:     calc,
		config:   config,
		now:      time.Now,
	}
}

func (s *service) QuoteFees(amount float64, method string) (*fees.Breakdown, error) {
	m, err := fees.ParseMethod(method)
	if err != nil {
		return nil, err
	}
	return s.calc.Breakdown(amount, m)
}

// CreateDuesIntent prices a dues payment and opens a Stripe payment intent
// for it. A repeated idempotency key returns the first response.
func (s *service) CreateDuesIntent(
	ctx context.Context,
	memberID uint,
	req models.DuesPaymentRequest,
	idempotencyKey string,
) (*IntentResponse, error) {
	method, err := fees.ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}

	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	dues, err := s.dues.GetByID(ctx, req.DuesID)
	if err != nil {
		return nil, err
	}
	if dues.MemberID != member.ID {
		return nil, apperrors.ErrDuesNotFound
	}

	amount, err := s.chargeableAmount(dues, req.Amount)
	if err != nil {
		return nil, err
	}

	chapter, err := s.chapters.GetByID(ctx, dues.ChapterID)
	if err != nil {
		return nil, err
	}
	if !chapter.CanReceivePayments() {
		return nil, apperrors.ErrChapterNotOnboarded
	}

	// Fee errors are fatal to this payment; nothing is charged.
	breakdown, err := s.calc.Breakdown(amount, method)
	if err != nil {
		log.Printf("Fee calculation failed for dues %d (%s %.2f): %v", dues.ID, method, amount, err)
		return nil, err
	}

	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	cacheKey := cachekeys.IntentKey(member.ID, idempotencyKey)

	var cached IntentResponse
	found, err := s.store.Get(ctx, cacheKey, &cached)
	if err != nil {
		log.Printf("⚠️ Idempotency lookup failed for %s: %v", cacheKey, err)
	} else if found {
		return &cached, nil
	}

	lockKey := cachekeys.LockKey(cacheKey)
	claimed, err := s.store.Claim(ctx, lockKey, s.config.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to lock payment request: %w", err)
	}
	if !claimed {
		return nil, apperrors.ErrDuplicateRequest
	}
	defer func() {
		if err := s.store.Release(ctx, lockKey); err != nil {
			log.Printf("⚠️ Failed to release %s: %v", lockKey, err)
		}
	}()

	reference := uuid.NewString()
	result, err := s.gateway.CreatePaymentIntent(ctx, gateway.IntentRequest{
		AmountCents:         breakdown.TotalChargeCents(),
		ApplicationFeeCents: breakdown.ApplicationFeeCents(),
		Currency:            s.config.Currency,
		Method:              string(method),
		CustomerID:          member.StripeCustomerID,
		DestinationAccount:  chapter.StripeAccountID,
		Description:         fmt.Sprintf("%s - %s", chapter.Name, dues.Title),
		IdempotencyKey:      "dues-" + idempotencyKey,
		Metadata: map[string]string{
			"payment_ref": reference,
			"dues_id":     strconv.FormatUint(uint64(dues.ID), 10),
			"member_id":   strconv.FormatUint(uint64(member.ID), 10),
			"chapter_id":  strconv.FormatUint(uint64(chapter.ID), 10),
		},
	})
	if err != nil {
		return nil, err
	}

	duesID := dues.ID
	intentID := result.ID
	payment := &models.Payment{
		ChapterID:             chapter.ID,
		MemberID:              member.ID,
		DuesID:                &duesID,
		Amount:                breakdown.Amount,
		ProcessorFee:          breakdown.ProcessorFee,
		PlatformFee:           breakdown.PlatformFee,
		TotalCharged:          breakdown.TotalCharge,
		ChapterReceives:       breakdown.ChapterReceives,
		PaymentMethod:         method.Code(),
		Status:                result.Status,
		StripePaymentIntentID: &intentID,
		Reference:             reference,
		Metadata: models.JSON{
			"idempotency_key": idempotencyKey,
			"application_fee": breakdown.ApplicationFee,
		},
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment for intent %s: %w", result.ID, err)
	}

	resp := &IntentResponse{
		PaymentID:    payment.ID,
		Reference:    reference,
		ClientSecret: result.ClientSecret,
		Status:       payment.Status,
		Breakdown:    breakdown,
	}
	if err := s.store.SetWithTTL(ctx, cacheKey, resp, s.config.IdempotencyTTL); err != nil {
		log.Printf("⚠️ Failed to remember intent response %s: %v", cacheKey, err)
	}

	log.Printf("Payment intent %s created: dues=%d total=%.2f chapter_receives=%.2f",
		result.ID, dues.ID, breakdown.TotalCharge, breakdown.ChapterReceives)
	return resp, nil
}

// chargeableAmount resolves the requested amount against the dues balance.
// Zero means "pay the outstanding balance".
func (s *service) chargeableAmount(dues *models.Dues, requested float64) (float64, error) {
	outstanding := dues.Outstanding()
	if outstanding <= 0 {
		return 0, apperrors.ErrDuesAlreadyPaid
	}

	amount := requested
	if amount == 0 {
		amount = outstanding
	}
	if amount < 0 {
		return 0, fmt.Errorf("%w: %v is negative", apperrors.ErrInvalidAmount, amount)
	}
	if fees.ToCents(amount) > fees.ToCents(outstanding) {
		return 0, fmt.Errorf("%w: %.2f > %.2f", apperrors.ErrAmountExceedsBalance, amount, outstanding)
	}
	if !s.calc.MeetsMinimum(amount) {
		return 0, fmt.Errorf("%w: %.2f < %s", apperrors.ErrBelowMinimumCharge, amount, s.calc.Schedule().MinCharge)
	}
	return amount, nil
}

// HandleWebhook applies a verified Stripe event to the ledger. Each event is
// processed once; a failed attempt releases the event so Stripe's retry is
// handled.
func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}
	if event.Intent == nil {
		return nil
	}

	eventKey := cachekeys.WebhookEventKey(event.ID)
	claimed, err := s.store.Claim(ctx, eventKey, s.config.WebhookEventTTL)
	if err != nil {
		return fmt.Errorf("failed to claim webhook event: %w", err)
	}
	if !claimed {
		log.Printf("Webhook event %s already processed", event.ID)
		return nil
	}

	if err := s.applyIntentEvent(ctx, event); err != nil {
		if relErr := s.store.Release(ctx, eventKey); relErr != nil {
			log.Printf("⚠️ Failed to release %s: %v", eventKey, relErr)
		}
		return err
	}
	return nil
}

func (s *service) applyIntentEvent(ctx context.Context, event *gateway.WebhookEvent) error {
	payment, err := s.payments.GetByIntentID(ctx, event.Intent.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPaymentNotFound) {
			log.Printf("Webhook %s: no payment for intent %s", event.ID, event.Intent.ID)
			return nil
		}
		return err
	}

	// Stripe does not guarantee delivery order.
	if payment.IsFinal() && event.Type != gateway.EventIntentSucceeded {
		log.Printf("Webhook %s: payment %d is already %s, ignoring %s", event.ID, payment.ID, payment.Status, event.Type)
		return nil
	}

	switch event.Type {
	case gateway.EventIntentSucceeded:
		last4 := event.Intent.Last4
		settled, err := s.payments.MarkSucceeded(ctx, payment.ID, last4, s.now())
		if err != nil {
			return err
		}
		log.Printf("✅ Payment %d settled: chapter %d receives %.2f", settled.ID, settled.ChapterID, settled.ChapterReceives)
		return nil
	case gateway.EventIntentProcessing:
		return s.payments.UpdateStatus(ctx, payment.ID, models.PaymentStatusProcessing, "")
	case gateway.EventIntentFailed:
		return s.payments.UpdateStatus(ctx, payment.ID, models.PaymentStatusFailed, event.Intent.FailureReason)
	case gateway.EventIntentCanceled:
		return s.payments.UpdateStatus(ctx, payment.ID, models.PaymentStatusCanceled, "")
	default:
		return nil
	}
}

// manualMethods are the codes a treasurer can record without Stripe.
var manualMethods = map[string]bool{
	models.PaymentMethodCash:  true,
	models.PaymentMethodCheck: true,
	models.PaymentMethodVenmo: true,
	models.PaymentMethodZelle: true,
	models.PaymentMethodOther: true,
}

// RecordManualPayment books money collected outside Stripe. No processor or
// platform fee applies, so the chapter receives the full amount.
func (s *service) RecordManualPayment(ctx context.Context, chapterID uint, req models.ManualPaymentRequest) (*PaymentView, error) {
	if !manualMethods[req.Method] {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidManualMethod, req.Method)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrInvalidAmount)
	}

	dues, err := s.dues.GetByID(ctx, req.DuesID)
	if err != nil {
		return nil, err
	}
	if dues.ChapterID != chapterID || dues.MemberID != req.MemberID {
		return nil, apperrors.ErrDuesNotFound
	}
	if fees.ToCents(req.Amount) > fees.ToCents(dues.Outstanding()) {
		return nil, fmt.Errorf("%w: %.2f > %.2f", apperrors.ErrAmountExceedsBalance, req.Amount, dues.Outstanding())
	}

	duesID := dues.ID
	paidAt := s.now()
	payment := &models.Payment{
		ChapterID:       chapterID,
		MemberID:        req.MemberID,
		DuesID:          &duesID,
		Amount:          req.Amount,
		TotalCharged:    req.Amount,
		ChapterReceives: req.Amount,
		PaymentMethod:   req.Method,
		Reference:       uuid.NewString(),
		Notes:           req.Notes,
		PaidAt:          &paidAt,
	}
	if err := s.payments.CreateSucceeded(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record manual payment: %w", err)
	}

	view := NewPaymentView(payment)
	return &view, nil
}

func (s *service) ListChapterPayments(ctx context.Context, chapterID uint, limit, offset int) ([]PaymentView, int64, error) {
	payments, total, err := s.payments.ListByChapter(ctx, chapterID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	views := make([]PaymentView, len(payments))
	for i := range payments {
		views[i] = NewPaymentView(&payments[i])
	}
	return views, total, nil
}
