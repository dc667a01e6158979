package feed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/debuglog"
	"github.com/pders01/qlaunch/internal/plugins"
	"github.com/pders01/qlaunch/internal/plugins/user"
	"github.com/pders01/qlaunch/internal/storage"
	"github.com/pders01/qlaunch/internal/validation"
)

const (
	// DefaultFreshness is how long a fetched source is served from cache.
	DefaultFreshness     = 10 * time.Minute
	maxConcurrentRefresh = 4
)

// Store is the persistence the manager needs.
type Store interface {
	SaveMemes(memes []*storage.Meme) error
	GetMemes(source string, limit int) ([]*storage.Meme, error)
	SaveFeedState(st *storage.FeedState) error
	GetFeedState(url string) (*storage.FeedState, error)
}

// DefaultRegistry returns the plugin registry with the built-in plugins.
func DefaultRegistry(timeout time.Duration) *plugins.Registry {
	r := plugins.NewRegistry(timeout)
	r.Register(user.NewRedditPlugin())
	return r
}

type Manager struct {
	store     Store
	fetcher   *Fetcher
	parser    *Parser
	plugins   *plugins.Registry
	validator *validation.LinkValidator
	freshness time.Duration
	force     bool
	now       func() time.Time
	mu        sync.Mutex
}

func NewManager(store Store, cfg *config.Config, registry *plugins.Registry) *Manager {
	if registry == nil {
		registry = DefaultRegistry(cfg.Memes.HTTPTimeout)
	}
	return &Manager{
		store:     store,
		fetcher:   NewFetcher(cfg),
		parser:    NewParser(),
		plugins:   registry,
		validator: validation.NewLinkValidator(),
		freshness: DefaultFreshness,
		now:       time.Now,
	}
}

// SetForceRefresh ignores both the freshness window and the caching headers.
func (m *Manager) SetForceRefresh(force bool) {
	m.force = force
	m.fetcher.SetIgnoreCache(force)
}

// SetPermissiveValidation allows feeds on loopback and private hosts.
func (m *Manager) SetPermissiveValidation(permissive bool) {
	if permissive {
		m.validator = validation.NewPermissiveLinkValidator()
	} else {
		m.validator = validation.NewLinkValidator()
	}
}

func (m *Manager) SetFreshness(d time.Duration) {
	m.freshness = d
}

// Refresh fetches every source concurrently. Failures of single sources are
// joined into the returned error; cancellation of ctx stops the refresh.
func (m *Manager) Refresh(ctx context.Context, sources []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRefresh)

	var mu sync.Mutex
	var errs []error
	for _, source := range sources {
		g.Go(func() error {
			err := m.refreshSource(gctx, source)
			if err == nil {
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			debuglog.WithFields(debuglog.Fields{"source": source}).Warnf("meme source refresh failed: %v", err)
			mu.Lock()
			errs = append(errs, fmt.Errorf("%s: %w", source, err))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

func (m *Manager) refreshSource(ctx context.Context, source string) error {
	info, err := m.plugins.Resolve(ctx, source)
	if err != nil {
		return fmt.Errorf("resolving source: %w", err)
	}
	feedURL, err := m.validator.ValidateAndNormalize(info.FeedURL)
	if err != nil {
		return fmt.Errorf("invalid feed URL: %w", err)
	}

	state, err := m.store.GetFeedState(feedURL)
	if err != nil {
		state = &storage.FeedState{URL: feedURL}
	}
	if !m.force && !state.LastFetched.IsZero() && m.now().Sub(state.LastFetched) < m.freshness {
		return nil
	}

	resp, updated, err := m.fetcher.Fetch(ctx, state)
	if err != nil {
		return err
	}
	if !updated || resp == nil {
		state.LastFetched = m.now()
		return m.saveState(state)
	}
	defer resp.Body.Close()

	memes, err := m.parser.Parse(resp.Body, source)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.SaveMemes(memes); err != nil {
		return fmt.Errorf("saving memes: %w", err)
	}
	m.fetcher.UpdateState(state, resp)
	state.LastFetched = m.now()
	debuglog.Debugf("refreshed %s: %d memes", source, len(memes))
	return m.store.SaveFeedState(state)
}

func (m *Manager) saveState(state *storage.FeedState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.SaveFeedState(state); err != nil {
		return fmt.Errorf("saving feed state: %w", err)
	}
	return nil
}

// Memes returns cached memes of sources, newest first.
func (m *Manager) Memes(sources []string, limit int) ([]*storage.Meme, error) {
	var all []*storage.Meme
	for _, source := range sources {
		memes, err := m.store.GetMemes(source, 0)
		if err != nil {
			return nil, fmt.Errorf("loading memes of %s: %w", source, err)
		}
		all = append(all, memes...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Published.After(all[j].Published) })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
