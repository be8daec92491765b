package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Launcher opens poster and backdrop URLs in an external image viewer
type Launcher struct {
	command string   // configured viewer command, empty for auto-detect
	args    []string // additional arguments for the viewer
	logger  *slog.Logger

	// Process hooks, replaced in tests
	lookPath func(file string) (string, error)
	start    func(name string, args ...string) error
}

// candidateViewers defines the preferred viewer order for each platform.
// Each viewer accepts a URL as its last argument.
var candidateViewers = map[string][]string{
	"darwin":  {},
	"linux":   {"imv", "feh", "eog", "gthumb"},
	"windows": {},
}

// NewLauncher creates a new Launcher
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		logger:   logger,
		lookPath: exec.LookPath,
		start:    startDetached,
	}
}

func startDetached(name string, args ...string) error {
	return exec.Command(name, args...).Start() // Start async, don't wait
}

// Open shows url in the configured viewer, a detected viewer, or the
// system default handler, in that order.
func (l *Launcher) Open(url string) error {
	if url == "" {
		return fmt.Errorf("no image to open")
	}

	// Tier 1: User configured a specific viewer
	if l.command != "" {
		args := append(append([]string{}, l.args...), url)
		l.logger.Info("launching image viewer", "command", l.command, "args", args)
		return l.start(l.command, args...)
	}

	// Tier 2: Try candidate chain
	if viewer, err := l.detectAndLaunch(url); err == nil {
		l.logger.Info("launched with detected viewer", "viewer", viewer)
		return nil
	}

	// Tier 3: Fall back to system default (open/xdg-open/start)
	return l.launchDefault(url)
}

// detectAndLaunch tries candidate viewers in order.
// Returns the viewer that succeeded.
func (l *Launcher) detectAndLaunch(url string) (string, error) {
	candidates, ok := candidateViewers[runtime.GOOS]
	if !ok {
		candidates = candidateViewers["linux"] // default
	}

	for _, viewer := range candidates {
		if _, err := l.lookPath(viewer); err != nil {
			l.logger.Debug("viewer not available", "viewer", viewer, "error", err)
			continue
		}
		if err := l.start(viewer, url); err != nil {
			l.logger.Debug("viewer failed to start", "viewer", viewer, "error", err)
			continue
		}
		return viewer, nil
	}

	return "", fmt.Errorf("no candidate viewers found")
}

// launchDefault opens the URL using the system default handler
func (l *Launcher) launchDefault(url string) error {
	name, args := defaultHandler(runtime.GOOS, url)
	l.logger.Info("launching with system default", "os", runtime.GOOS, "url", url)
	if err := l.start(name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

func defaultHandler(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", "", url}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", []string{url}
	}
}
