package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	apperrors "greekpay/internal/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantError  string
	}{
		{"validation", fmt.Errorf("%w: -1", apperrors.ErrInvalidAmount), fiber.StatusBadRequest, "INVALID_AMOUNT", "invalid amount: -1"},
		{"not found", apperrors.ErrDuesNotFound, fiber.StatusNotFound, "DUES_NOT_FOUND", apperrors.ErrDuesNotFound.Message},
		{"duplicate", apperrors.ErrDuplicateRequest, fiber.StatusConflict, "DUPLICATE_REQUEST", apperrors.ErrDuplicateRequest.Message},
		{"overflow", apperrors.ErrRoundingOverflow, fiber.StatusUnprocessableEntity, "ROUNDING_OVERFLOW", apperrors.ErrRoundingOverflow.Message},
		{"internal", errors.New("pq: connection refused"), fiber.StatusInternalServerError, "", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return FromError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var out map[string]string
			require.NoError(t, json.Unmarshal(body, &out))
			assert.Equal(t, tt.wantError, out["error"])
			assert.Equal(t, tt.wantCode, out["code"])
		})
	}
}

func TestStatusFor_Unknown(t *testing.T) {
	assert.Equal(t, fiber.StatusInternalServerError, StatusFor("SOMETHING_ELSE"))
}
