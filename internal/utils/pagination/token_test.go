package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Test case 1: Standard timestamp and identity
	ts := time.Date(2025, 5, 15, 14, 30, 45, 123456789, time.UTC)
	id := "3f6c1f0e-1c2a-4b6e-9a7d-0f1e2d3c4b5a"

	token := EncodeToken(ts, id)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedTs, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, ts, decodedTs, "Timestamp should match after decode")
	assert.Equal(t, id, decodedID, "Identity should match after decode")

	// Test case 2: Zero time value
	zeroToken := EncodeToken(time.Time{}, "id")
	decodedZero, _, err := DecodeToken(zeroToken)
	assert.NoError(t, err, "Decoding zero time should not return an error")
	assert.Equal(t, time.Time{}, decodedZero, "Zero time should match after decode")

	// Test case 3: Identity containing the separator
	pipeToken := EncodeToken(ts, "left|right")
	_, decodedPipeID, err := DecodeToken(pipeToken)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, "left|right", decodedPipeID, "Identity with separator should survive the round trip")

	// Test case 4: Current time values
	now := time.Now().UTC()
	nowToken := EncodeToken(now, id)
	decodedNow, _, err := DecodeToken(nowToken)
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decodedNow), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	// Test invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Test invalid format (missing separator)
	invalidToken := "MjAyMy0wNS0xNVQwMDowMDowMFo=" // Base64 encoded timestamp without separator
	_, _, err = DecodeToken(invalidToken)
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Test invalid timestamp
	invalidTsToken := "bm90YWRhdGV8c29tZS1pZA==" // Base64 encoded "notadate|some-id"
	_, _, err = DecodeToken(invalidTsToken)
	assert.Error(t, err, "Should return an error for invalid timestamp")
	assert.Contains(t, err.Error(), "timestamp parse", "Error should mention timestamp parsing issue")
}
