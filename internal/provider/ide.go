package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/debuglog"
	"github.com/pders01/qlaunch/internal/dispatch"
	"github.com/pders01/qlaunch/internal/mode"
	"github.com/pders01/qlaunch/internal/result"
)

// YAMLProjects reads recent projects from a YAML file keyed by IDE type:
//
//	vscode:
//	  - name: qlaunch
//	    path: ~/src/qlaunch
type YAMLProjects struct {
	Path string
}

func (y YAMLProjects) Projects(ideType string) ([]mode.Project, error) {
	data, err := os.ReadFile(y.Path)
	if err != nil {
		return nil, fmt.Errorf("reading projects file: %w", err)
	}
	var doc map[string][]mode.Project
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing projects file: %w", err)
	}
	projects := doc[ideType]
	for i := range projects {
		projects[i].Path = expandHome(projects[i].Path)
		if projects[i].Name == "" {
			projects[i].Name = filepath.Base(projects[i].Path)
		}
	}
	return projects, nil
}

// IDE lists the recent projects carried by an IDEProjects mode.
type IDE struct{}

func NewIDE() *IDE { return &IDE{} }

func (IDE) Enter(m mode.Mode, _ config.Settings) ([]result.Item, error) {
	ide, ok := m.(mode.IDEProjects)
	if !ok {
		return nil, nil
	}
	if len(ide.Projects) == 0 {
		return nil, Unavailable("no recent projects for " + ide.App)
	}
	return projectItems(ide, filter("", projectKeys(ide.Projects))), nil
}

func (IDE) Exit(m mode.Mode) {
	debuglog.Debugf("leaving %s", m.Key())
}

func (IDE) Route(m mode.Mode, _ config.Settings) dispatch.Route {
	ide, _ := m.(mode.IDEProjects)
	keys := projectKeys(ide.Projects)
	return dispatch.Route{
		Strategy: dispatch.Sync(),
		Search: func(_ context.Context, query string) ([]result.Item, error) {
			if len(ide.Projects) == 0 {
				return nil, Unavailable("no recent projects for " + ide.App)
			}
			return projectItems(ide, filter(query, keys)), nil
		},
	}
}

func projectKeys(projects []mode.Project) []string {
	keys := make([]string, len(projects))
	for i, p := range projects {
		keys[i] = p.Name + " " + p.Path
	}
	return keys
}

func projectItems(ide mode.IDEProjects, idx []int) []result.Item {
	items := make([]result.Item, 0, len(idx))
	for _, i := range idx {
		p := ide.Projects[i]
		items = append(items, result.Item{
			ID:       "project:" + p.Path,
			Kind:     result.KindFile,
			Title:    p.Name,
			Subtitle: p.Path,
			Target:   p.Path,
			With:     ide.App,
		})
	}
	return items
}
