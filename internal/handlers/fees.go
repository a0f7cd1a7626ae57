package handlers

import (
	"greekpay/internal/models"
	"greekpay/internal/services/fees"
	"greekpay/internal/services/payment"
	"greekpay/internal/utils/response"
	"greekpay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type FeeHandler struct {
	payments payment.Service
	calc     *fees.Calculator
}

func NewFeeHandler(payments payment.Service, calc *fees.Calculator) *FeeHandler {
	return &FeeHandler{payments: payments, calc: calc}
}

// Quote previews what a payer is charged and what the chapter receives.
func (h *FeeHandler) Quote(c *fiber.Ctx) error {
	var req models.FeeQuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	v := validation.New()
	if v.FeeQuote(&req); !v.Valid() {
		return response.ValidationError(c, v.Errors)
	}

	breakdown, err := h.payments.QuoteFees(req.Amount, req.Method)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Fee quote calculated", breakdown)
}

// Schedule returns the rates in effect.
func (h *FeeHandler) Schedule(c *fiber.Ctx) error {
	return response.Success(c, "Fee schedule retrieved", h.calc.Schedule())
}
