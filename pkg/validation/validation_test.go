package validation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatepass-service/pkg/validation"
)

func TestNormalizePlate_Accepted(t *testing.T) {
	for raw, want := range map[string]string{
		"TN01AB1234":      "TN01AB1234",
		"TN-01-AB-1234":   "TN01AB1234",
		"tn 01 ab 1234":   "TN01AB1234",
		"ka05z9999":       "KA05Z9999",
		"  TN07CD5566  ":  "TN07CD5566",
		"mh-12-ab - 0001": "MH12AB0001",
	} {
		got, err := validation.NormalizePlate(raw)
		require.NoError(t, err, "plate %q", raw)
		assert.Equal(t, want, got, "plate %q", raw)
	}
}

func TestNormalizePlate_Rejected(t *testing.T) {
	for _, raw := range []string{
		"",
		"TN1AB1234",   // one district digit
		"1234TNAB",    // segments out of order
		"TN01ABC1234", // three letters in series
		"TN01AB123",   // three trailing digits
		"TN01AB12345", // five trailing digits
		"T101AB1234",  // digit in state code
		"TN01AB1234X", // trailing junk
	} {
		_, err := validation.NormalizePlate(raw)
		require.Error(t, err, "plate %q", raw)

		var bad validation.ErrBadPlate
		assert.ErrorAs(t, err, &bad, "plate %q", raw)
	}
}

var today = time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

func docs(expiries ...string) []validation.Document {
	out := make([]validation.Document, len(expiries))
	for i, e := range expiries {
		out[i] = validation.Document{Name: "Doc", ExpiryDate: e}
	}
	return out
}

func TestCheckCompliance_ExpiryYesterdayRejected(t *testing.T) {
	err := validation.CheckCompliance(docs("2026-02-28"), today, false)
	require.Error(t, err)

	var expired validation.ErrExpiredDoc
	require.ErrorAs(t, err, &expired)
	assert.Equal(t, "Doc", expired.Name)
}

func TestCheckCompliance_ExpiryTodayAccepted(t *testing.T) {
	assert.NoError(t, validation.CheckCompliance(docs("2026-03-01"), today, false))
}

func TestCheckCompliance_ExpiryLaterAccepted(t *testing.T) {
	assert.NoError(t, validation.CheckCompliance(docs("2027-01-15"), today, false))
}

func TestCheckCompliance_FirstExpiredNamed(t *testing.T) {
	in := []validation.Document{
		{Name: "RC Book", ExpiryDate: "2030-05-12"},
		{Name: "Insurance", ExpiryDate: "2025-08-15"},
		{Name: "Pollution", ExpiryDate: "2024-02-10"},
	}
	err := validation.CheckCompliance(in, today, false)
	require.Error(t, err)

	var expired validation.ErrExpiredDoc
	require.ErrorAs(t, err, &expired)
	assert.Equal(t, "Insurance", expired.Name, "scan stops at the first expired document")
}

func TestCheckCompliance_UnparsableDateLenient(t *testing.T) {
	// Legacy behavior: an unreadable expiry date passes silently.
	assert.NoError(t, validation.CheckCompliance(docs("Lifetime"), today, false))
	assert.NoError(t, validation.CheckCompliance(docs("12/05/2030"), today, false))
}

func TestCheckCompliance_UnparsableDateStrict(t *testing.T) {
	err := validation.CheckCompliance(docs("Lifetime"), today, true)
	assert.Error(t, err)
}

func TestCheckCompliance_Empty(t *testing.T) {
	assert.NoError(t, validation.CheckCompliance(nil, today, false))
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, validation.ValidateCoordinates(13.0827, 80.2707))
	assert.True(t, validation.ValidateCoordinates(0, 0))
	assert.False(t, validation.ValidateCoordinates(91, 0))
	assert.False(t, validation.ValidateCoordinates(0, -181))
}
