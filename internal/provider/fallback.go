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

// WebSearch offers "search the web for …" rows built from the configured
// fallback templates.
type WebSearch struct {
	validator *validation.LinkValidator
}

func NewWebSearch() *WebSearch {
	return &WebSearch{validator: validation.NewLinkValidator()}
}

func (w *WebSearch) Route(_ mode.Mode, s config.Settings) dispatch.Route {
	var templates []config.SearchTemplate
	for _, t := range s.Fallback {
		if err := w.validator.ValidateTemplate(t.URL); err == nil {
			templates = append(templates, t)
		}
	}
	return dispatch.Route{
		Strategy: dispatch.Sync(),
		Search: func(_ context.Context, query string) ([]result.Item, error) {
			q := strings.TrimSpace(query)
			if q == "" {
				return nil, nil
			}
			items := make([]result.Item, 0, len(templates))
			for _, t := range templates {
				u := validation.Expand(t.URL, q)
				items = append(items, result.Item{
					ID:       "websearch:" + strings.ToLower(t.Name),
					Kind:     result.KindWebLink,
					Title:    "Search " + t.Name + " for \"" + q + "\"",
					Subtitle: u,
					Target:   u,
				})
			}
			return items, nil
		},
	}
}
