package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// base32 of the ASCII seed "12345678901234567890" from RFC 6238 appendix B.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestTOTP_RFCVectors(t *testing.T) {
	tests := []struct {
		unix     int64
		expected string
	}{
		{59, "94287082"},
		{1111111109, "07081804"},
		{1111111111, "14050471"},
		{1234567890, "89005924"},
		{2000000000, "69279037"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			code, err := TOTP(rfcSecret, time.Unix(tt.unix, 0), 8, 30)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, code)
		})
	}
}

func TestTOTP_Defaults(t *testing.T) {
	code, err := TOTP("gezd gnbv gy3t qojq gezd gnbv gy3t qojq", time.Unix(59, 0), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "287082", code)
}

func TestTOTP_InvalidSecret(t *testing.T) {
	_, err := TOTP("not base32!", time.Now(), 6, 30)
	assert.Error(t, err)
	_, err = TOTP("", time.Now(), 6, 30)
	assert.Error(t, err)

	assert.False(t, ValidSecret("1111"))
	assert.True(t, ValidSecret(rfcSecret))
}

func TestTOTP_UnpaddedSecret(t *testing.T) {
	assert.True(t, ValidSecret("JBSWY3DPEH"))

	bare, err := TOTP("JBSWY3DPEH", time.Unix(1111111109, 0), 6, 30)
	require.NoError(t, err)
	padded, err := TOTP("jbswy3dpeh======", time.Unix(1111111109, 0), 6, 30)
	require.NoError(t, err)
	assert.Equal(t, bare, padded)
	assert.Len(t, bare, 6)
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, 30*time.Second, Remaining(time.Unix(60, 0), 30))
	assert.Equal(t, 1*time.Second, Remaining(time.Unix(59, 0), 30))
	assert.Equal(t, 50*time.Second, Remaining(time.Unix(10, 0), 60))
}
