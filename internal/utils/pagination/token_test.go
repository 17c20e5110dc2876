package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	entryDate := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2024, 4, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(entryDate, createdAt)
	assert.NotEmpty(t, token)

	gotDate, gotCreated, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, entryDate, gotDate)
	assert.Equal(t, createdAt, gotCreated)

	// Zero values survive the round trip.
	gotDate, gotCreated, err = DecodeToken(EncodeToken(time.Time{}, time.Time{}))
	require.NoError(t, err)
	assert.True(t, gotDate.IsZero())
	assert.True(t, gotCreated.IsZero())
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	// base64("2023-05-15T00:00:00Z"), no separator
	_, _, err = DecodeToken("MjAyMy0wNS0xNVQwMDowMDowMFo=")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	// base64("notadate|2023-05-15T14:30:45.123456789Z")
	_, _, err = DecodeToken("bm90YWRhdGV8MjAyMy0wNS0xNVQxNDozMDo0NS4xMjM0NTY3ODla")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry date parse")
}
