package provider

import (
	"context"
	"strings"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/dispatch"
	"github.com/pders01/qlaunch/internal/mode"
	"github.com/pders01/qlaunch/internal/result"
	"github.com/pders01/qlaunch/internal/validation"
)

// WebLink turns the query into the suffix of a link's search template.
type WebLink struct{}

func NewWebLink() *WebLink { return &WebLink{} }

func (WebLink) Route(m mode.Mode, _ config.Settings) dispatch.Route {
	wl, _ := m.(mode.WebLinkQuery)
	return dispatch.Route{
		Strategy: dispatch.Sync(),
		Search: func(_ context.Context, query string) ([]result.Item, error) {
			q := strings.TrimSpace(query)
			if q == "" {
				return []result.Item{result.Info("weblink:hint", "Type to search "+wl.Name, wl.Template)}, nil
			}
			u := validation.Expand(wl.Template, q)
			return []result.Item{{
				ID:       "weblink:" + strings.ToLower(wl.Name) + ":query",
				Kind:     result.KindWebLink,
				Title:    "Search " + wl.Name + " for \"" + q + "\"",
				Subtitle: u,
				Target:   u,
			}}, nil
		},
	}
}
