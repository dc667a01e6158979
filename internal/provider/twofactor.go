package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/debuglog"
	"github.com/pders01/qlaunch/internal/dispatch"
	"github.com/pders01/qlaunch/internal/mode"
	"github.com/pders01/qlaunch/internal/result"
	"github.com/pders01/qlaunch/internal/storage"
)

type AccountStore interface {
	GetAllAccounts() ([]*storage.Account, error)
}

// TwoFactor lists one-time codes of the stored accounts. Confirming a row
// copies a code computed at confirm time, so a code shown just before the
// period rolls over is never copied stale.
type TwoFactor struct {
	store AccountStore
	now   func() time.Time
}

func NewTwoFactor(store AccountStore) *TwoFactor {
	return &TwoFactor{store: store, now: time.Now}
}

func (tf *TwoFactor) Route(_ mode.Mode, s config.Settings) dispatch.Route {
	limit := s.SearchLimit
	return dispatch.Route{
		Strategy: dispatch.Sync(),
		Search: func(_ context.Context, query string) ([]result.Item, error) {
			accounts, err := tf.store.GetAllAccounts()
			if err != nil {
				return nil, fmt.Errorf("loading accounts: %w", err)
			}
			if len(accounts) == 0 {
				return []result.Item{result.Info("2fa:empty", "No two-factor accounts", "Add one with qlaunch 2fa add")}, nil
			}
			keys := make([]string, len(accounts))
			for i, a := range accounts {
				keys[i] = a.Issuer + " " + a.Name
			}
			now := tf.now()
			var items []result.Item
			for _, i := range filter(query, keys) {
				it, err := tf.codeItem(accounts[i], now)
				if err != nil {
					debuglog.WithFields(debuglog.Fields{"account": accounts[i].ID}).Warnf("computing code: %v", err)
					continue
				}
				items = append(items, it)
			}
			return truncate(items, limit), nil
		},
	}
}

func (tf *TwoFactor) codeItem(a *storage.Account, now time.Time) (result.Item, error) {
	code, err := TOTP(a.Secret, now, a.Digits, a.Period)
	if err != nil {
		return result.Item{}, err
	}
	title := a.Issuer
	if a.Name != "" {
		title += " (" + a.Name + ")"
	}
	return result.Item{
		ID:       "2fa:" + a.ID,
		Kind:     result.KindTwoFactorCode,
		Title:    strings.TrimSpace(title),
		Subtitle: fmt.Sprintf("%s · %ds left", groupDigits(code), int(Remaining(now, a.Period).Seconds())),
		Target:   a.ID,
		Value:    code,
	}, nil
}

// Confirm recomputes the code of the selected account.
func (tf *TwoFactor) Confirm(_ mode.Mode, item result.Item) Outcome {
	accounts, err := tf.store.GetAllAccounts()
	if err != nil {
		return Copy(item.Value)
	}
	for _, a := range accounts {
		if a.ID != item.Target {
			continue
		}
		if code, err := TOTP(a.Secret, tf.now(), a.Digits, a.Period); err == nil {
			return Copy(code)
		}
	}
	return Copy(item.Value)
}

// groupDigits splits a code in two halves for readability: "123 456".
func groupDigits(code string) string {
	if len(code) < 6 {
		return code
	}
	half := len(code) / 2
	return code[:half] + " " + code[half:]
}
