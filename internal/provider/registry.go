package provider

import (
	"github.com/pders01/qlaunch/internal/alias"
	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/debuglog"
	"github.com/pders01/qlaunch/internal/mode"
	"github.com/pders01/qlaunch/internal/result"
)

// ProjectSource lists the recent projects of an IDE.
type ProjectSource interface {
	Projects(ideType string) ([]mode.Project, error)
}

// Registry maps mode kinds to providers.
type Registry struct {
	providers map[mode.Kind]Provider
	fallback  Provider
	projects  ProjectSource
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[mode.Kind]Provider)}
}

func (r *Registry) Register(kind mode.Kind, p Provider) {
	r.providers[kind] = p
}

func (r *Registry) Provider(kind mode.Kind) (Provider, bool) {
	p, ok := r.providers[kind]
	return p, ok
}

// SetFallback installs the secondary provider merged into normal results.
func (r *Registry) SetFallback(p Provider) { r.fallback = p }

func (r *Registry) Fallback() Provider { return r.fallback }

func (r *Registry) SetProjects(src ProjectSource) { r.projects = src }

// ModeFor returns the mode item promotes into. The second result is false
// for rows that cannot be promoted.
func (r *Registry) ModeFor(item result.Item, s config.Settings) (mode.Mode, bool) {
	if !item.SupportsPromotion() {
		return nil, false
	}
	switch item.Promotion {
	case result.PromoteUtility:
		if item.Target == "" {
			return nil, false
		}
		return mode.Utility{ID: item.Target}, true
	case result.PromoteWebLinkQuery:
		template := item.Value
		if template == "" {
			return nil, false
		}
		return mode.WebLinkQuery{Name: item.Title, Template: template}, true
	case result.PromoteFolderOpeners:
		return mode.FolderOpeners{Folder: item.Target, Openers: append([]string(nil), s.Openers...)}, true
	case result.PromoteIDEProjects:
		m := mode.IDEProjects{App: item.Title, IDEType: item.Value}
		if r.projects != nil {
			projects, err := r.projects.Projects(m.IDEType)
			if err != nil {
				debuglog.WithFields(debuglog.Fields{"ide": m.IDEType}).Warnf("loading recent projects: %v", err)
			}
			m.Projects = projects
		}
		return m, true
	}
	return domainMode(item)
}

// domainMode maps rows promoting into an aliasable domain to its mode.
func domainMode(item result.Item) (mode.Mode, bool) {
	d, ok := alias.DomainFor(item.Promotion)
	if !ok {
		return nil, false
	}
	return ForDomain(d)
}

// ForDomain returns the mode of an aliasable domain.
func ForDomain(d alias.Domain) (mode.Mode, bool) {
	switch d {
	case alias.Bookmarks:
		return mode.Bookmarks{}, true
	case alias.TwoFactor:
		return mode.TwoFactor{}, true
	case alias.Memes:
		return mode.MemeSearch{}, true
	case alias.Favorites:
		return mode.MemeFavorites{}, true
	}
	return nil, false
}
