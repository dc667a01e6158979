package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed openers.toml
var openersTOML []byte

// OpenerDefinition describes how to invoke one application.
type OpenerDefinition struct {
	Description string   `toml:"description"`
	Platforms   []string `toml:"platforms"`
	Command     string   `toml:"command,omitempty"`
	Args        []string `toml:"args,omitempty"`
}

type OpenersConfig struct {
	Openers map[string]OpenerDefinition `toml:"openers"`
}

// OpenerRegistry resolves opener names to commands.
type OpenerRegistry struct {
	openers map[string]OpenerDefinition
	goos    string
}

// NewOpenerRegistry loads the built-in definitions and merges the optional
// user file at userPath over them.
func NewOpenerRegistry(userPath string) (*OpenerRegistry, error) {
	var cfg OpenersConfig
	if err := toml.Unmarshal(openersTOML, &cfg); err != nil {
		return nil, fmt.Errorf("parsing openers.toml: %w", err)
	}
	r := &OpenerRegistry{openers: cfg.Openers, goos: runtime.GOOS}

	if userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			var user OpenersConfig
			if err := toml.Unmarshal(data, &user); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", userPath, err)
			}
			for name, def := range user.Openers {
				r.openers[name] = def
			}
		}
	}
	return r, nil
}

// Command builds the command that opens target with the named opener.
// Unknown openers are run as plain commands with target as argument.
func (r *OpenerRegistry) Command(name, target string) (*exec.Cmd, error) {
	def, ok := r.openers[name]
	if !ok {
		return exec.Command(name, target), nil
	}
	if len(def.Platforms) > 0 && !contains(def.Platforms, r.goos) {
		return nil, fmt.Errorf("%s not supported on %s", name, r.goos)
	}

	command := def.Command
	if command == "" {
		command = name
	}

	args := make([]string, 0, len(def.Args)+1)
	substituted := false
	for _, a := range def.Args {
		if strings.Contains(a, "{target}") {
			a = strings.ReplaceAll(a, "{target}", target)
			substituted = true
		}
		args = append(args, a)
	}
	if !substituted {
		args = append(args, target)
	}
	return exec.Command(command, args...), nil
}

// Describe returns the human description of an opener, or its name.
func (r *OpenerRegistry) Describe(name string) string {
	if def, ok := r.openers[name]; ok && def.Description != "" {
		return def.Description
	}
	return name
}

// Names lists openers supported on this platform.
func (r *OpenerRegistry) Names() []string {
	var names []string
	for name, def := range r.openers {
		if len(def.Platforms) == 0 || contains(def.Platforms, r.goos) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
