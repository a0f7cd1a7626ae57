package handlers

import (
	"time"

	"greekpay/internal/services/installment"
	"greekpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type InstallmentHandler struct {
	installments installment.Service
}

func NewInstallmentHandler(installments installment.Service) *InstallmentHandler {
	return &InstallmentHandler{installments: installments}
}

// Process charges every installment that is due now.
func (h *InstallmentHandler) Process(c *fiber.Ctx) error {
	summary, err := h.installments.ProcessDue(c.UserContext(), time.Now())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Installments processed", summary)
}
