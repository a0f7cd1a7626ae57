package response

import (
	"errors"
	"log"

	apperrors "greekpay/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *fiber.Ctx) error {
	return Error(c, fiber.StatusForbidden, "Insufficient permissions")
}

// ValidationError reports field errors collected by a validation.Validator.
func ValidationError(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "validation failed",
		"code":   "VALIDATION_FAILED",
		"fields": fields,
	})
}

// FromError writes err as a JSON error. Domain errors keep their code and
// message; anything else is logged and hidden behind a 500.
func FromError(c *fiber.Ctx, err error) error {
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
		return ServerError(c, "internal server error")
	}

	return c.Status(StatusFor(de.Code)).JSON(fiber.Map{
		"error": err.Error(),
		"code":  de.Code,
	})
}

// StatusFor maps a domain error code to an HTTP status.
func StatusFor(code string) int {
	switch code {
	case apperrors.ErrInvalidAmount.Code,
		apperrors.ErrInvalidMethod.Code,
		apperrors.ErrInvalidManualMethod.Code,
		apperrors.ErrBelowMinimumCharge.Code,
		apperrors.ErrAmountExceedsBalance.Code,
		apperrors.ErrInvalidPeriod.Code,
		apperrors.ErrInvalidWebhook.Code:
		return fiber.StatusBadRequest
	case apperrors.ErrChapterNotFound.Code,
		apperrors.ErrMemberNotFound.Code,
		apperrors.ErrDuesNotFound.Code,
		apperrors.ErrPaymentNotFound.Code:
		return fiber.StatusNotFound
	case apperrors.ErrDuplicateRequest.Code,
		apperrors.ErrDuesAlreadyPaid.Code:
		return fiber.StatusConflict
	case apperrors.ErrRoundingOverflow.Code,
		apperrors.ErrInvalidFeeSchedule.Code,
		apperrors.ErrChapterNotOnboarded.Code,
		apperrors.ErrNoSavedPaymentMethod.Code:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
