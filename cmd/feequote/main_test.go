package main

import (
	"bytes"
	"errors"
	"testing"

	apperrors "greekpay/internal/errors"
	"greekpay/internal/services/fees"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FEE_SCHEDULE_FILE", "")
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuote_Card(t *testing.T) {
	out, err := run(t, "quote", "--amount", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Card")
	assert.Contains(t, out, "3.30")
	assert.Contains(t, out, "103.30")
	assert.Contains(t, out, "99.00")
}

func TestQuote_ACHAliasJSON(t *testing.T) {
	out, err := run(t, "quote", "-a", "1000", "-m", "ach", "--json")
	require.NoError(t, err)

	var got []fees.Breakdown
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, fees.MethodACH, got[0].Method)
	assert.Equal(t, 5.0, got[0].ProcessorFee)
	assert.Equal(t, 10.0, got[0].PlatformFee)
	assert.Equal(t, 1000.0, got[0].TotalCharge)
	assert.Equal(t, 985.0, got[0].ChapterReceives)
}

func TestQuote_Compare(t *testing.T) {
	out, err := run(t, "quote", "--amount", "50", "--compare")
	require.NoError(t, err)
	assert.Contains(t, out, "Card")
	assert.Contains(t, out, "Bank Account")
}

func TestQuote_InvalidMethod(t *testing.T) {
	_, err := run(t, "quote", "--amount", "50", "--method", "paypal")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidMethod))
}

func TestQuote_NegativeAmount(t *testing.T) {
	_, err := run(t, "quote", "--amount=-5")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidAmount))
}

func TestQuote_AmountRequired(t *testing.T) {
	_, err := run(t, "quote")
	assert.Error(t, err)
}

func TestSchedule(t *testing.T) {
	out, err := run(t, "schedule")
	require.NoError(t, err)
	assert.Contains(t, out, "Card:       2.9% + $0.30")
	assert.Contains(t, out, "ACH:        0.8% (max $5.00)")
	assert.Contains(t, out, "Platform:   1%")
	assert.Contains(t, out, "Min charge: $0.50")
}
