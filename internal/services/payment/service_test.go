package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "greekpay/internal/errors"
	"greekpay/internal/mocks"
	"greekpay/internal/models"
	"greekpay/internal/services/fees"
	"greekpay/internal/services/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	chapters *mocks.ChapterRepository
	members  *mocks.MemberRepository
	dues     *mocks.DuesRepository
	payments *mocks.PaymentRepository
	gateway  *mocks.Gateway
	store    *mocks.IdempotencyStore
	service  *service
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	calc, err := fees.NewCalculator(fees.DefaultSchedule())
	require.NoError(t, err)

	f := &fixture{
		chapters: new(mocks.ChapterRepository),
		members:  new(mocks.MemberRepository),
		dues:     new(mocks.DuesRepository),
		payments: new(mocks.PaymentRepository),
		gateway:  new(mocks.Gateway),
		store:    new(mocks.IdempotencyStore),
	}
	svc := NewService(f.chapters, f.members, f.dues, f.payments, f.gateway, f.store, calc, Config{})
	f.service = svc.(*service)
	f.service.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.chapters.AssertExpectations(t)
	f.members.AssertExpectations(t)
	f.dues.AssertExpectations(t)
	f.payments.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
	f.store.AssertExpectations(t)
}

func testMember() *models.Member {
	return &models.Member{Model: gorm.Model{ID: 5}, ChapterID: 3, Email: "pledge@example.edu", StripeCustomerID: "cus_5"}
}

func testDues(amount, paid float64) *models.Dues {
	return &models.Dues{Model: gorm.Model{ID: 9}, ChapterID: 3, MemberID: 5, Title: "Spring dues", Amount: amount, AmountPaid: paid}
}

func testChapter() *models.Chapter {
	return &models.Chapter{Model: gorm.Model{ID: 3}, Name: "Alpha Beta", StripeAccountID: "acct_ab", PayoutsEnabled: true, Status: "active"}
}

func TestService_QuoteFees(t *testing.T) {
	f := newFixture(t)

	b, err := f.service.QuoteFees(100, "card")
	require.NoError(t, err)
	assert.Equal(t, 3.30, b.ProcessorFee)
	assert.Equal(t, 103.30, b.TotalCharge)
	assert.Equal(t, 99.00, b.ChapterReceives)

	_, err = f.service.QuoteFees(100, "paypal")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidMethod))
}

func TestService_CreateDuesIntent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.members.On("GetByID", ctx, uint(5)).Return(testMember(), nil)
	f.dues.On("GetByID", ctx, uint(9)).Return(testDues(150, 50), nil)
	f.chapters.On("GetByID", ctx, uint(3)).Return(testChapter(), nil)
	f.store.On("Get", ctx, "intent:5:key-1", mock.Anything).Return(false, nil)
	f.store.On("Claim", ctx, "intent:5:key-1:lock", DefaultLockTTL).Return(true, nil)
	f.store.On("Release", ctx, "intent:5:key-1:lock").Return(nil)
	f.gateway.On("CreatePaymentIntent", ctx, mock.MatchedBy(func(req gateway.IntentRequest) bool {
		return req.AmountCents == 10330 &&
			req.ApplicationFeeCents == 430 &&
			req.Currency == "usd" &&
			req.Method == "card" &&
			req.DestinationAccount == "acct_ab" &&
			req.CustomerID == "cus_5" &&
			req.IdempotencyKey == "dues-key-1"
	})).Return(&gateway.IntentResult{ID: "pi_1", ClientSecret: "pi_1_secret", Status: models.PaymentStatusPending}, nil)
	f.payments.On("Create", ctx, mock.MatchedBy(func(p *models.Payment) bool {
		return p.Amount == 100 &&
			p.ProcessorFee == 3.30 &&
			p.PlatformFee == 1.00 &&
			p.TotalCharged == 103.30 &&
			p.ChapterReceives == 99.00 &&
			p.PaymentMethod == models.PaymentMethodStripeCard &&
			*p.StripePaymentIntentID == "pi_1" &&
			*p.DuesID == 9
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Payment).ID = 77
	}).Return(nil)
	f.store.On("SetWithTTL", ctx, "intent:5:key-1", mock.AnythingOfType("*payment.IntentResponse"), DefaultIdempotencyTTL).Return(nil)

	resp, err := f.service.CreateDuesIntent(ctx, 5, models.DuesPaymentRequest{DuesID: 9, Method: "card"}, "key-1")
	require.NoError(t, err)

	assert.Equal(t, uint(77), resp.PaymentID)
	assert.Equal(t, "pi_1_secret", resp.ClientSecret)
	assert.Equal(t, models.PaymentStatusPending, resp.Status)
	assert.NotEmpty(t, resp.Reference)
	assert.Equal(t, 103.30, resp.Breakdown.TotalCharge)
	f.assertExpectations(t)
}

func TestService_CreateDuesIntent_ACHPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.members.On("GetByID", ctx, uint(5)).Return(testMember(), nil)
	f.dues.On("GetByID", ctx, uint(9)).Return(testDues(1000, 0), nil)
	f.chapters.On("GetByID", ctx, uint(3)).Return(testChapter(), nil)
	f.store.On("Get", ctx, mock.Anything, mock.Anything).Return(false, nil)
	f.store.On("Claim", ctx, mock.Anything, DefaultLockTTL).Return(true, nil)
	f.store.On("Release", ctx, mock.Anything).Return(nil)
	f.gateway.On("CreatePaymentIntent", ctx, mock.MatchedBy(func(req gateway.IntentRequest) bool {
		// ACH bills the face amount; the cap keeps the fee at 5.00.
		return req.AmountCents == 100000 && req.ApplicationFeeCents == 1500 && req.Method == "us_bank_account"
	})).Return(&gateway.IntentResult{ID: "pi_2", Status: models.PaymentStatusProcessing}, nil)
	f.payments.On("Create", ctx, mock.MatchedBy(func(p *models.Payment) bool {
		return p.TotalCharged == 1000 && p.ChapterReceives == 985 && p.Status == models.PaymentStatusProcessing
	})).Return(nil)
	f.store.On("SetWithTTL", ctx, mock.Anything, mock.Anything, DefaultIdempotencyTTL).Return(nil)

	resp, err := f.service.CreateDuesIntent(ctx, 5, models.DuesPaymentRequest{DuesID: 9, Method: "us_bank_account", Amount: 1000}, "")
	require.NoError(t, err)
	assert.Equal(t, 5.00, resp.Breakdown.ProcessorFee)
	f.assertExpectations(t)
}

func TestService_CreateDuesIntent_CachedResponse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.members.On("GetByID", ctx, uint(5)).Return(testMember(), nil)
	f.dues.On("GetByID", ctx, uint(9)).Return(testDues(100, 0), nil)
	f.chapters.On("GetByID", ctx, uint(3)).Return(testChapter(), nil)
	f.store.On("Get", ctx, "intent:5:key-1", mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*IntentResponse)
			dest.PaymentID = 12
			dest.ClientSecret = "pi_old_secret"
		}).
		Return(true, nil)

	resp, err := f.service.CreateDuesIntent(ctx, 5, models.DuesPaymentRequest{DuesID: 9, Method: "card"}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, uint(12), resp.PaymentID)
	assert.Equal(t, "pi_old_secret", resp.ClientSecret)

	f.gateway.AssertNotCalled(t, "CreatePaymentIntent", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestService_CreateDuesIntent_InFlight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.members.On("GetByID", ctx, uint(5)).Return(testMember(), nil)
	f.dues.On("GetByID", ctx, uint(9)).Return(testDues(100, 0), nil)
	f.chapters.On("GetByID", ctx, uint(3)).Return(testChapter(), nil)
	f.store.On("Get", ctx, mock.Anything, mock.Anything).Return(false, nil)
	f.store.On("Claim", ctx, "intent:5:key-1:lock", DefaultLockTTL).Return(false, nil)

	_, err := f.service.CreateDuesIntent(ctx, 5, models.DuesPaymentRequest{DuesID: 9, Method: "card"}, "key-1")
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateRequest))
	f.assertExpectations(t)
}

func TestService_CreateDuesIntent_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     models.DuesPaymentRequest
		dues    *models.Dues
		chapter *models.Chapter
		wantErr error
	}{
		{
			name:    "unknown method",
			req:     models.DuesPaymentRequest{DuesID: 9, Method: "crypto"},
			wantErr: apperrors.ErrInvalidMethod,
		},
		{
			name:    "dues of another member",
			req:     models.DuesPaymentRequest{DuesID: 9, Method: "card"},
			dues:    &models.Dues{Model: gorm.Model{ID: 9}, ChapterID: 3, MemberID: 6, Amount: 100},
			wantErr: apperrors.ErrDuesNotFound,
		},
		{
			name:    "already paid",
			req:     models.DuesPaymentRequest{DuesID: 9, Method: "card"},
			dues:    testDues(100, 100),
			wantErr: apperrors.ErrDuesAlreadyPaid,
		},
		{
			name:    "more than outstanding",
			req:     models.DuesPaymentRequest{DuesID: 9, Method: "card", Amount: 60},
			dues:    testDues(100, 50),
			wantErr: apperrors.ErrAmountExceedsBalance,
		},
		{
			name:    "below minimum charge",
			req:     models.DuesPaymentRequest{DuesID: 9, Method: "card", Amount: 0.25},
			dues:    testDues(100, 0),
			wantErr: apperrors.ErrBelowMinimumCharge,
		},
		{
			name:    "chapter not onboarded",
			req:     models.DuesPaymentRequest{DuesID: 9, Method: "card"},
			dues:    testDues(100, 0),
			chapter: &models.Chapter{Model: gorm.Model{ID: 3}, Status: "active"},
			wantErr: apperrors.ErrChapterNotOnboarded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			f.members.On("GetByID", ctx, uint(5)).Return(testMember(), nil).Maybe()
			if tt.dues != nil {
				f.dues.On("GetByID", ctx, uint(9)).Return(tt.dues, nil)
			}
			if tt.chapter != nil {
				f.chapters.On("GetByID", ctx, uint(3)).Return(tt.chapter, nil)
			}

			_, err := f.service.CreateDuesIntent(ctx, 5, tt.req, "key")
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			f.gateway.AssertNotCalled(t, "CreatePaymentIntent", mock.Anything, mock.Anything)
			f.assertExpectations(t)
		})
	}
}

func TestService_CreateDuesIntent_GatewayError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.members.On("GetByID", ctx, uint(5)).Return(testMember(), nil)
	f.dues.On("GetByID", ctx, uint(9)).Return(testDues(100, 0), nil)
	f.chapters.On("GetByID", ctx, uint(3)).Return(testChapter(), nil)
	f.store.On("Get", ctx, mock.Anything, mock.Anything).Return(false, nil)
	f.store.On("Claim", ctx, mock.Anything, DefaultLockTTL).Return(true, nil)
	f.store.On("Release", ctx, mock.Anything).Return(nil)
	f.gateway.On("CreatePaymentIntent", ctx, mock.Anything).Return(nil, errors.New("stripe down"))

	_, err := f.service.CreateDuesIntent(ctx, 5, models.DuesPaymentRequest{DuesID: 9, Method: "card"}, "key")
	assert.EqualError(t, err, "stripe down")

	f.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestService_HandleWebhook_Succeeded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	payload := []byte(`{}`)

	f.gateway.On("ParseWebhook", payload, "sig").Return(&gateway.WebhookEvent{
		ID:     "evt_1",
		Type:   gateway.EventIntentSucceeded,
		Intent: &gateway.IntentResult{ID: "pi_1", Last4: "4242"},
	}, nil)
	f.store.On("Claim", ctx, "webhook:evt_1", DefaultWebhookEventTTL).Return(true, nil)
	f.payments.On("GetByIntentID", ctx, "pi_1").Return(&models.Payment{Model: gorm.Model{ID: 77}}, nil)
	f.payments.On("MarkSucceeded", ctx, uint(77), "4242", fixedNow).
		Return(&models.Payment{Model: gorm.Model{ID: 77}, ChapterID: 3, ChapterReceives: 99}, nil)

	require.NoError(t, f.service.HandleWebhook(ctx, payload, "sig"))
	f.assertExpectations(t)
}

func TestService_HandleWebhook_StatusUpdates(t *testing.T) {
	tests := []struct {
		eventType string
		reason    string
		want      string
	}{
		{gateway.EventIntentProcessing, "", models.PaymentStatusProcessing},
		{gateway.EventIntentFailed, "insufficient funds", models.PaymentStatusFailed},
		{gateway.EventIntentCanceled, "", models.PaymentStatusCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			f.gateway.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.WebhookEvent{
				ID:     "evt_2",
				Type:   tt.eventType,
				Intent: &gateway.IntentResult{ID: "pi_2", FailureReason: tt.reason},
			}, nil)
			f.store.On("Claim", ctx, "webhook:evt_2", DefaultWebhookEventTTL).Return(true, nil)
			f.payments.On("GetByIntentID", ctx, "pi_2").Return(&models.Payment{Model: gorm.Model{ID: 8}}, nil)
			f.payments.On("UpdateStatus", ctx, uint(8), tt.want, tt.reason).Return(nil)

			require.NoError(t, f.service.HandleWebhook(ctx, []byte(`{}`), "sig"))
			f.assertExpectations(t)
		})
	}
}

func TestService_HandleWebhook_LateEventAfterSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.gateway.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.WebhookEvent{
		ID:     "evt_5",
		Type:   gateway.EventIntentProcessing,
		Intent: &gateway.IntentResult{ID: "pi_5"},
	}, nil)
	f.store.On("Claim", ctx, "webhook:evt_5", DefaultWebhookEventTTL).Return(true, nil)
	f.payments.On("GetByIntentID", ctx, "pi_5").
		Return(&models.Payment{Model: gorm.Model{ID: 9}, Status: models.PaymentStatusSucceeded}, nil)

	require.NoError(t, f.service.HandleWebhook(ctx, []byte(`{}`), "sig"))
	f.payments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestService_HandleWebhook_Duplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.gateway.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.WebhookEvent{
		ID:     "evt_1",
		Type:   gateway.EventIntentSucceeded,
		Intent: &gateway.IntentResult{ID: "pi_1"},
	}, nil)
	f.store.On("Claim", ctx, "webhook:evt_1", DefaultWebhookEventTTL).Return(false, nil)

	require.NoError(t, f.service.HandleWebhook(ctx, []byte(`{}`), "sig"))
	f.payments.AssertNotCalled(t, "GetByIntentID", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestService_HandleWebhook_ReleasesOnError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.gateway.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.WebhookEvent{
		ID:     "evt_3",
		Type:   gateway.EventIntentSucceeded,
		Intent: &gateway.IntentResult{ID: "pi_3"},
	}, nil)
	f.store.On("Claim", ctx, "webhook:evt_3", DefaultWebhookEventTTL).Return(true, nil)
	f.payments.On("GetByIntentID", ctx, "pi_3").Return(nil, errors.New("connection reset"))
	f.store.On("Release", ctx, "webhook:evt_3").Return(nil)

	assert.Error(t, f.service.HandleWebhook(ctx, []byte(`{}`), "sig"))
	f.assertExpectations(t)
}

func TestService_HandleWebhook_UnknownIntent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.gateway.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.WebhookEvent{
		ID:     "evt_4",
		Type:   gateway.EventIntentSucceeded,
		Intent: &gateway.IntentResult{ID: "pi_other"},
	}, nil)
	f.store.On("Claim", ctx, "webhook:evt_4", DefaultWebhookEventTTL).Return(true, nil)
	f.payments.On("GetByIntentID", ctx, "pi_other").Return(nil, apperrors.ErrPaymentNotFound)

	assert.NoError(t, f.service.HandleWebhook(ctx, []byte(`{}`), "sig"))
	f.assertExpectations(t)
}

func TestService_HandleWebhook_InvalidSignature(t *testing.T) {
	f := newFixture(t)

	f.gateway.On("ParseWebhook", mock.Anything, "bad").Return(nil, apperrors.ErrInvalidWebhook)

	err := f.service.HandleWebhook(context.Background(), []byte(`{}`), "bad")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidWebhook))
	f.assertExpectations(t)
}

func TestService_HandleWebhook_NonIntentEvent(t *testing.T) {
	f := newFixture(t)

	f.gateway.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.WebhookEvent{ID: "evt_5", Type: "customer.created"}, nil)

	assert.NoError(t, f.service.HandleWebhook(context.Background(), []byte(`{}`), "sig"))
	f.assertExpectations(t)
}

func TestService_RecordManualPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.dues.On("GetByID", ctx, uint(9)).Return(testDues(150, 0), nil)
	f.payments.On("CreateSucceeded", ctx, mock.MatchedBy(func(p *models.Payment) bool {
		return p.Amount == 40 &&
			p.TotalCharged == 40 &&
			p.ChapterReceives == 40 &&
			p.ProcessorFee == 0 &&
			p.PlatformFee == 0 &&
			p.PaymentMethod == models.PaymentMethodVenmo &&
			p.PaidAt.Equal(fixedNow)
	})).Return(nil)

	view, err := f.service.RecordManualPayment(ctx, 3, models.ManualPaymentRequest{
		MemberID: 5,
		DuesID:   9,
		Amount:   40,
		Method:   models.PaymentMethodVenmo,
		Notes:    "paid at chapter meeting",
	})
	require.NoError(t, err)
	assert.Equal(t, "Venmo", view.MethodLabel)
	assert.True(t, view.Manual)
	assert.Equal(t, 40.0, view.ChapterReceives)
	f.assertExpectations(t)
}

func TestService_RecordManualPayment_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     models.ManualPaymentRequest
		dues    *models.Dues
		wantErr error
	}{
		{
			name:    "stripe method",
			req:     models.ManualPaymentRequest{MemberID: 5, DuesID: 9, Amount: 10, Method: models.PaymentMethodStripeCard},
			wantErr: apperrors.ErrInvalidManualMethod,
		},
		{
			name:    "zero amount",
			req:     models.ManualPaymentRequest{MemberID: 5, DuesID: 9, Amount: 0, Method: models.PaymentMethodCash},
			wantErr: apperrors.ErrInvalidAmount,
		},
		{
			name:    "other chapter",
			req:     models.ManualPaymentRequest{MemberID: 5, DuesID: 9, Amount: 10, Method: models.PaymentMethodCash},
			dues:    &models.Dues{Model: gorm.Model{ID: 9}, ChapterID: 4, MemberID: 5, Amount: 100},
			wantErr: apperrors.ErrDuesNotFound,
		},
		{
			name:    "over balance",
			req:     models.ManualPaymentRequest{MemberID: 5, DuesID: 9, Amount: 100.01, Method: models.PaymentMethodCheck},
			dues:    testDues(100, 0),
			wantErr: apperrors.ErrAmountExceedsBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			if tt.dues != nil {
				f.dues.On("GetByID", ctx, uint(9)).Return(tt.dues, nil)
			}

			_, err := f.service.RecordManualPayment(ctx, 3, tt.req)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			f.payments.AssertNotCalled(t, "CreateSucceeded", mock.Anything, mock.Anything)
			f.assertExpectations(t)
		})
	}
}

func TestService_ListChapterPayments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rows := []models.Payment{
		{Model: gorm.Model{ID: 1}, Amount: 100, PaymentMethod: models.PaymentMethodStripeCard, Last4: "4242", Status: models.PaymentStatusSucceeded},
		{Model: gorm.Model{ID: 2}, Amount: 50, PaymentMethod: models.PaymentMethodCash, Status: models.PaymentStatusSucceeded},
	}
	f.payments.On("ListByChapter", ctx, uint(3), 20, 0).Return(rows, int64(2), nil)

	views, total, err := f.service.ListChapterPayments(ctx, 3, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, views, 2)
	assert.Equal(t, "Card ****4242", views[0].MethodLabel)
	assert.False(t, views[0].Manual)
	assert.Equal(t, "Completed", views[0].StatusDisplay.Text)
	assert.Equal(t, "Cash", views[1].MethodLabel)
	f.assertExpectations(t)
}
