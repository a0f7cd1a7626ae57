package handlers

import (
	"greekpay/internal/services/payment"
	"greekpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type WebhookHandler struct {
	payments payment.Service
}

func NewWebhookHandler(payments payment.Service) *WebhookHandler {
	return &WebhookHandler{payments: payments}
}

// Stripe receives processor events. The raw body is needed to verify the
// Stripe-Signature header.
func (h *WebhookHandler) Stripe(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.Body()...)
	if err := h.payments.HandleWebhook(c.UserContext(), payload, c.Get("Stripe-Signature")); err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(fiber.Map{"received": true})
}
