package provider

import (
	"context"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/dispatch"
	"github.com/pders01/qlaunch/internal/mode"
	"github.com/pders01/qlaunch/internal/result"
)

// Describer names an opener for display; implemented by the media
// package's opener registry.
type Describer interface {
	Describe(name string) string
}

// FolderOpeners lists the applications a folder can be opened with.
type FolderOpeners struct {
	describe Describer
}

func NewFolderOpeners(d Describer) *FolderOpeners {
	return &FolderOpeners{describe: d}
}

func (f *FolderOpeners) Route(m mode.Mode, _ config.Settings) dispatch.Route {
	fm, _ := m.(mode.FolderOpeners)
	keys := make([]string, len(fm.Openers))
	for i, o := range fm.Openers {
		keys[i] = o + " " + f.name(o)
	}
	return dispatch.Route{
		Strategy: dispatch.Sync(),
		Search: func(_ context.Context, query string) ([]result.Item, error) {
			if len(fm.Openers) == 0 {
				return nil, Unavailable("no folder openers configured")
			}
			var items []result.Item
			for _, i := range filter(query, keys) {
				o := fm.Openers[i]
				items = append(items, result.Item{
					ID:       "opener:" + o,
					Kind:     result.KindApp,
					Title:    "Open with " + f.name(o),
					Subtitle: fm.Folder,
					Target:   fm.Folder,
					With:     o,
				})
			}
			return items, nil
		},
	}
}

func (f *FolderOpeners) name(opener string) string {
	if f.describe == nil {
		return opener
	}
	return f.describe.Describe(opener)
}
