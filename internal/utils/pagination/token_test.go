package pagination

import (
	"encoding/base64"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Standard values
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)
	token := EncodeToken(createdAt, "c9a4e3f2-1111-4c1e-9a57-3d7d2b0c2f10")
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.Equal(t, url.QueryEscape(token), token, "Token should be safe in a query string")

	decodedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, createdAt, decodedAt)
	assert.Equal(t, "c9a4e3f2-1111-4c1e-9a57-3d7d2b0c2f10", decodedID)

	// Non-UTC input is normalised
	ist := time.FixedZone("IST", 19800)
	local := time.Date(2024, 1, 1, 5, 30, 0, 0, ist)
	decodedAt, _, err = DecodeToken(EncodeToken(local, "x"))
	assert.NoError(t, err)
	assert.True(t, local.Equal(decodedAt))
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	onlyDate := base64.RawURLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z"))
	_, _, err = DecodeToken(onlyDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.RawURLEncoding.EncodeToString([]byte("notadate|abc"))
	_, _, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestEncodeMultiFieldToken(t *testing.T) {
	fields := []string{"field1", "field2", "field3"}
	decoded, err := DecodeMultiFieldToken(EncodeMultiFieldToken(fields...))
	assert.NoError(t, err)
	assert.Equal(t, fields, decoded)

	// Splitting an empty string yields one empty field
	decodedEmpty, err := DecodeMultiFieldToken(EncodeMultiFieldToken())
	assert.NoError(t, err)
	assert.Equal(t, []string{""}, decodedEmpty)

	// Pipes inside a field are separators
	decodedSpecial, err := DecodeMultiFieldToken(EncodeMultiFieldToken("a|b", "c"))
	assert.NoError(t, err)
	assert.Len(t, decodedSpecial, 3)
}
