package media

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pders01/qlaunch/internal/config"
)

// Launcher opens targets in external applications.
type Launcher struct {
	videoPlayer   string
	imageViewer   string
	audioPlayer   string
	pdfViewer     string
	defaultOpener string
	openers       *OpenerRegistry
	detector      *TypeDetector

	// start runs a prepared command; replaced in tests.
	start func(cmd *exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	openers, err := NewOpenerRegistry("")
	if err != nil {
		openers = &OpenerRegistry{openers: map[string]OpenerDefinition{}, goos: runtime.GOOS}
	}

	detector := defaultDetector

	defaultOpener := cfg.Media.DefaultOpener
	if defaultOpener == "" {
		defaultOpener = detector.GetDefaultOpener()
	}

	l := &Launcher{
		defaultOpener: defaultOpener,
		openers:       openers,
		detector:      detector,
		start:         startDetached,
	}

	var players config.MediaPlayers
	switch runtime.GOOS {
	case "linux":
		players = cfg.Media.Linux
	case "windows":
		players = cfg.Media.Windows
	default:
		players = cfg.Media.Darwin
	}

	l.videoPlayer = findCommand(players.Video...)
	l.imageViewer = findCommand(players.Image...)
	l.audioPlayer = findCommand(players.Audio...)
	l.pdfViewer = findCommand(players.PDF...)

	for _, p := range []*string{&l.videoPlayer, &l.imageViewer, &l.audioPlayer, &l.pdfViewer} {
		if *p == "" {
			*p = l.defaultOpener
		}
	}
	return l
}

// Openers exposes the opener registry, e.g. to describe folder openers.
func (l *Launcher) Openers() *OpenerRegistry { return l.openers }

// viewerFor picks the application for target when none was requested.
func (l *Launcher) viewerFor(target string) string {
	switch l.detector.DetectType(target) {
	case TypeVideo:
		return l.videoPlayer
	case TypeImage:
		return l.imageViewer
	case TypeAudio:
		return l.audioPlayer
	case TypePDF:
		return l.pdfViewer
	}
	return l.defaultOpener
}

// Open hands target to the application named by with, or to the viewer
// matching target's media type when with is empty.
func (l *Launcher) Open(target, with string) error {
	if strings.TrimSpace(target) == "" {
		return errors.New("nothing to open")
	}
	app := with
	if app == "" {
		app = l.viewerFor(target)
	}
	if app == "" {
		return fmt.Errorf("no application found to open %s", target)
	}

	cmd, err := l.openers.Command(app, target)
	if err != nil {
		cmd, err = l.openers.Command(l.defaultOpener, target)
		if err != nil {
			return err
		}
	}
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", app, err)
	}
	return nil
}

// Run executes a command line such as a system command entry.
func (l *Launcher) Run(commandLine string) error {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return errors.New("empty command")
	}
	cmd := exec.Command(fields[0], fields[1:]...)
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to run %s: %w", fields[0], err)
	}
	return nil
}

// startDetached starts GUI applications without waiting for them.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
