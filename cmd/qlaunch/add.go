package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/provider"
	"github.com/pders01/qlaunch/internal/storage"
	"github.com/pders01/qlaunch/internal/validation"
)

var (
	bookmarkTitle string
	bookmarkTags  []string

	accountName   string
	accountDigits int
	accountPeriod int
)

// newAccount validates a TOTP account. Zero digits or period take the
// usual 6 digits every 30 seconds.
func newAccount(issuer, name, secret string, digits, period int, now time.Time) (*storage.Account, error) {
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		return nil, fmt.Errorf("account needs an issuer")
	}
	secret = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(secret), " ", ""))
	if !provider.ValidSecret(secret) {
		return nil, fmt.Errorf("account %q: secret is not valid base32", issuer)
	}
	if digits == 0 {
		digits = 6
	}
	if digits < 6 || digits > 8 {
		return nil, fmt.Errorf("account %q: digits must be between 6 and 8", issuer)
	}
	if period == 0 {
		period = 30
	}
	if period < 0 {
		return nil, fmt.Errorf("account %q: period must be positive", issuer)
	}
	return &storage.Account{
		ID:        uuid.NewString(),
		Issuer:    issuer,
		Name:      strings.TrimSpace(name),
		Secret:    secret,
		Digits:    digits,
		Period:    period,
		CreatedAt: now,
	}, nil
}

// withStore opens the configured database for the duration of fn.
func withStore(fn func(*storage.Store) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark",
	Short: "Manage bookmarks",
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := validation.NewLinkValidator().ValidateAndNormalize(args[0])
		if err != nil {
			return err
		}
		title := strings.TrimSpace(bookmarkTitle)
		if title == "" {
			title = url
		}
		b := &storage.Bookmark{
			ID:        uuid.NewString(),
			Title:     title,
			URL:       url,
			Tags:      bookmarkTags,
			CreatedAt: time.Now(),
		}
		return withStore(func(store *storage.Store) error {
			if err := store.SaveBookmark(b); err != nil {
				return fmt.Errorf("saving bookmark: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added bookmark %s\n", b.Title)
			return nil
		})
	},
}

var twoFactorCmd = &cobra.Command{
	Use:     "2fa",
	Aliases: []string{"twofactor"},
	Short:   "Manage two-factor accounts",
}

var twoFactorAddCmd = &cobra.Command{
	Use:   "add <issuer> <secret>",
	Short: "Add a TOTP account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := newAccount(args[0], accountName, args[1], accountDigits, accountPeriod, time.Now())
		if err != nil {
			return err
		}
		return withStore(func(store *storage.Store) error {
			if err := store.SaveAccount(acc); err != nil {
				return fmt.Errorf("saving account: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added account %s\n", acc.Issuer)
			return nil
		})
	},
}

func init() {
	bookmarkAddCmd.Flags().StringVarP(&bookmarkTitle, "title", "t", "", "bookmark title (defaults to the URL)")
	bookmarkAddCmd.Flags().StringSliceVar(&bookmarkTags, "tag", nil, "tag to attach, repeatable")
	bookmarkCmd.AddCommand(bookmarkAddCmd)

	twoFactorAddCmd.Flags().StringVarP(&accountName, "name", "n", "", "account name, usually the login")
	twoFactorAddCmd.Flags().IntVar(&accountDigits, "digits", 6, "code length")
	twoFactorAddCmd.Flags().IntVar(&accountPeriod, "period", 30, "seconds each code is valid")
	twoFactorCmd.AddCommand(twoFactorAddCmd)

	rootCmd.AddCommand(bookmarkCmd, twoFactorCmd)
}
