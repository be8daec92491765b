package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/adapter"
	"github.com/mmcdole/marquee/internal/listing"
	"github.com/mmcdole/marquee/internal/plain"
	"github.com/mmcdole/marquee/internal/preference"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tui"
	"github.com/mmcdole/marquee/internal/watchlist"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// options holds the navigation flags
type options struct {
	plain       bool
	openMovie   bool // -movie was passed, even if empty
	movieID     string
	genre       string
	genreID     int
	search      string
	watchlist   bool
	toggle      string
	theme       string // "toggle", "light" or "dark"
	pages       int
	writeConfig bool
}

func main() {
	// Handle version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")

	var opts options
	flag.BoolVar(&opts.plain, "plain", false, "print plain text instead of the terminal UI")
	flag.StringVar(&opts.movieID, "movie", "", "open the detail view of a movie `id`")
	flag.StringVar(&opts.genre, "genre", "", "list movies of a genre `id or name`")
	flag.StringVar(&opts.search, "search", "", "search movies by `title`")
	flag.BoolVar(&opts.watchlist, "watchlist", false, "show the watchlist")
	flag.StringVar(&opts.toggle, "toggle", "", "add or remove a movie `id` on the watchlist")
	flag.StringVar(&opts.theme, "theme", "", "set the theme: `toggle`, light or dark")
	flag.IntVar(&opts.pages, "pages", 1, "number of pages to print in plain mode")
	flag.BoolVar(&opts.writeConfig, "write-config", false, "write the effective configuration to the config directory and exit")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "movie" {
			opts.openMovie = true
		}
	})

	if showVersion {
		fmt.Printf("marquee %s\n", Version)
		return
	}

	if opts.theme != "" && !validThemeArg(opts.theme) {
		fmt.Fprintf(os.Stderr, "Error: unknown theme %q (want toggle, light or dark)\n", opts.theme)
		os.Exit(2)
	}

	if opts.genre != "" {
		genre, err := listing.ResolveGenre(opts.genre)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		opts.genreID = genre.ID
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// Load configuration
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting marquee", "version", Version)

	if opts.writeConfig {
		path, err := adapter.SaveConfig(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", path)
		return nil
	}

	kv, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer kv.Close()

	gw, err := adapter.NewCatalog(cfg, logger)
	if err != nil {
		return err
	}

	wl := watchlist.New(kv, logger)
	prefs := preference.New(kv, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stdout := int(os.Stdout.Fd())
	if opts.plain || opts.toggle != "" || !term.IsTerminal(stdout) {
		width := plain.DefaultWidth
		if w, _, err := term.GetSize(stdout); err == nil && w > 0 {
			width = w
		}
		renderer := plain.New(os.Stdout, width)
		controller := listing.NewController(gw, wl, renderer, cfg.ListingOptions(), logger)
		if opts.theme != "" {
			theme, err := applyTheme(prefs, opts.theme)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Theme: %s\n", theme)
		}
		return runPlain(ctx, controller, renderer, opts)
	}

	if opts.theme != "" {
		if _, err := applyTheme(prefs, opts.theme); err != nil {
			return err
		}
	}

	renderer := tui.NewChannelRenderer()
	controller := listing.NewController(gw, wl, renderer, cfg.ListingOptions(), logger)
	model := tui.NewModel(ctx, controller, prefs, renderer, tui.StartView{
		OpenMovie: opts.openMovie,
		MovieID:   opts.movieID,
		GenreID:   opts.genreID,
		Search:    opts.search,
		Watchlist: opts.watchlist,
	})
	model.Opener = adapter.NewLauncher(cfg.UI.ImageViewer, cfg.UI.ImageViewerArgs, logger)

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

func validThemeArg(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "toggle" || preference.Theme(value).Valid()
}

// applyTheme handles -theme: toggle flips the stored theme, a theme name
// replaces it.
func applyTheme(prefs *preference.Preferences, value string) (preference.Theme, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "toggle" {
		return prefs.ToggleTheme(), nil
	}

	theme := preference.Theme(value)
	if err := prefs.SetTheme(theme); err != nil {
		return "", fmt.Errorf("failed to set theme: %w", err)
	}
	return theme, nil
}
