package handlers

import (
	"time"

	"greekpay/internal/models"
	"greekpay/internal/services/payment"
	"greekpay/internal/services/reporting"
	"greekpay/internal/utils"
	"greekpay/internal/utils/pagination"
	"greekpay/internal/utils/response"
	"greekpay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	payments payment.Service
	reports  reporting.Service
}

func NewPaymentHandler(payments payment.Service, reports reporting.Service) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		reports:  reports,
	}
}

// CreateIntent starts a Stripe payment for the caller's dues.
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var req models.DuesPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	v := validation.New()
	if v.DuesPayment(&req); !v.Valid() {
		return response.ValidationError(c, v.Errors)
	}

	resp, err := h.payments.CreateDuesIntent(c.UserContext(), claims.MemberID, req, c.Get("Idempotency-Key"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Payment intent created", resp)
}

// ListChapterPayments returns the chapter's ledger, newest first.
func (h *PaymentHandler) ListChapterPayments(c *fiber.Ctx) error {
	chapterID := c.Locals("chapterID").(uint)
	p := pagination.ParseFromRequest(c)

	views, total, err := h.payments.ListChapterPayments(c.UserContext(), chapterID, p.Limit, p.Offset)
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, views))
}

// RecordManualPayment books a cash, check or peer-to-peer payment.
func (h *PaymentHandler) RecordManualPayment(c *fiber.Ctx) error {
	chapterID := c.Locals("chapterID").(uint)

	var req models.ManualPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	v := validation.New()
	if v.ManualPayment(&req); !v.Valid() {
		return response.ValidationError(c, v.Errors)
	}

	view, err := h.payments.RecordManualPayment(c.UserContext(), chapterID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Payment recorded", view)
}

// Reconciliation reports settled totals for ?from=YYYY-MM-DD&to=YYYY-MM-DD.
// The period defaults to the current calendar month; to is exclusive.
func (h *PaymentHandler) Reconciliation(c *fiber.Ctx) error {
	chapterID := c.Locals("chapterID").(uint)

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var err error
	if s := c.Query("from"); s != "" {
		if from, err = time.Parse(time.DateOnly, s); err != nil {
			return response.BadRequest(c, "from must be a YYYY-MM-DD date")
		}
	}
	if s := c.Query("to"); s != "" {
		if to, err = time.Parse(time.DateOnly, s); err != nil {
			return response.BadRequest(c, "to must be a YYYY-MM-DD date")
		}
	}

	report, err := h.reports.Reconcile(c.UserContext(), chapterID, from, to)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reconciliation report generated", report)
}
