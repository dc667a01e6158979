package provider

import (
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTP computes the RFC 6238 time-based one-time password of secret at t.
// secret is base32, spaces and padding are ignored.
func TOTP(secret string, t time.Time, digits, period int) (string, error) {
	if digits <= 0 {
		digits = 6
	}
	if period <= 0 {
		period = 30
	}
	s, err := normalizeSecret(secret)
	if err != nil {
		return "", err
	}
	code, err := totp.GenerateCodeCustom(s, t, totp.ValidateOpts{
		Period:    uint(period),
		Digits:    otp.Digits(digits),
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("invalid base32 secret: %w", err)
	}
	return code, nil
}

// Remaining is how long the code at t stays valid.
func Remaining(t time.Time, period int) time.Duration {
	if period <= 0 {
		period = 30
	}
	p := int64(period)
	left := p - t.Unix()%p
	return time.Duration(left) * time.Second
}

func normalizeSecret(secret string) (string, error) {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(secret), " ", ""))
	s = strings.TrimRight(s, "=")
	if s == "" {
		return "", fmt.Errorf("empty secret")
	}
	return s, nil
}

// ValidSecret reports whether secret decodes as a base32 key.
func ValidSecret(secret string) bool {
	_, err := TOTP(secret, time.Unix(0, 0), 6, 30)
	return err == nil
}
