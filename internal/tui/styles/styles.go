package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Color palette
var (
	Gold       = lipgloss.Color("#E5A00D")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	Paper      = lipgloss.Color("#F3F4F6")
	Ink        = lipgloss.Color("#111827")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Amber      = lipgloss.Color("#F59E0B")
	Red        = lipgloss.Color("#EF4444")
)

// SpinnerFrames is the braille spinner animation
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Raw watchlist characters (unstyled)
const (
	WatchedChar   = "★"
	UnwatchedChar = "☆"
)

// Theme is a full set of styles for one colour scheme
type Theme struct {
	Name string

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Dim        lipgloss.Style
	Accent     lipgloss.Style
	Error      lipgloss.Style
	Spinner    lipgloss.Style
	Selected   lipgloss.Style
	Normal     lipgloss.Style
	Watched    lipgloss.Style
	Unwatched  lipgloss.Style
	RatingGood lipgloss.Style
	RatingMid  lipgloss.Style
	RatingBad  lipgloss.Style
	Pill       lipgloss.Style
	Button     lipgloss.Style
	Modal      lipgloss.Style
	HelpKey    lipgloss.Style
	HelpDesc   lipgloss.Style
	Match      lipgloss.Style
}

// Dark is the default scheme
var Dark = Theme{
	Name:       "dark",
	Title:      lipgloss.NewStyle().Foreground(White).Bold(true),
	Subtitle:   lipgloss.NewStyle().Foreground(LightGray),
	Dim:        lipgloss.NewStyle().Foreground(DimGray),
	Accent:     lipgloss.NewStyle().Foreground(Gold),
	Error:      lipgloss.NewStyle().Foreground(Red),
	Spinner:    lipgloss.NewStyle().Foreground(Gold),
	Selected:   lipgloss.NewStyle().Foreground(White).Background(SlateLight),
	Normal:     lipgloss.NewStyle().Foreground(LightGray),
	Watched:    lipgloss.NewStyle().Foreground(Gold),
	Unwatched:  lipgloss.NewStyle().Foreground(DimGray),
	RatingGood: lipgloss.NewStyle().Foreground(Green),
	RatingMid:  lipgloss.NewStyle().Foreground(Amber),
	RatingBad:  lipgloss.NewStyle().Foreground(Red),
	Pill:       lipgloss.NewStyle().Foreground(White).Background(SlateLight).Padding(0, 1),
	Button:     lipgloss.NewStyle().Foreground(SlateDark).Background(Gold).Padding(0, 1),
	Modal: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Gold).
		Padding(1, 2),
	HelpKey:  lipgloss.NewStyle().Foreground(Gold),
	HelpDesc: lipgloss.NewStyle().Foreground(DimGray),
	Match:    lipgloss.NewStyle().Foreground(Gold).Bold(true),
}

// Light is the alternate scheme
var Light = Theme{
	Name:       "light",
	Title:      lipgloss.NewStyle().Foreground(Ink).Bold(true),
	Subtitle:   lipgloss.NewStyle().Foreground(SlateLight),
	Dim:        lipgloss.NewStyle().Foreground(DimGray),
	Accent:     lipgloss.NewStyle().Foreground(Amber),
	Error:      lipgloss.NewStyle().Foreground(Red),
	Spinner:    lipgloss.NewStyle().Foreground(Amber),
	Selected:   lipgloss.NewStyle().Foreground(Ink).Background(Paper),
	Normal:     lipgloss.NewStyle().Foreground(SlateLight),
	Watched:    lipgloss.NewStyle().Foreground(Amber),
	Unwatched:  lipgloss.NewStyle().Foreground(LightGray),
	RatingGood: lipgloss.NewStyle().Foreground(Green),
	RatingMid:  lipgloss.NewStyle().Foreground(Amber),
	RatingBad:  lipgloss.NewStyle().Foreground(Red),
	Pill:       lipgloss.NewStyle().Foreground(Ink).Background(Paper).Padding(0, 1),
	Button:     lipgloss.NewStyle().Foreground(White).Background(Amber).Padding(0, 1),
	Modal: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Padding(1, 2),
	HelpKey:  lipgloss.NewStyle().Foreground(Amber),
	HelpDesc: lipgloss.NewStyle().Foreground(SlateLight),
	Match:    lipgloss.NewStyle().Foreground(Amber).Bold(true),
}

// ForName returns the theme called name, defaulting to Dark
func ForName(name string) Theme {
	if name == Light.Name {
		return Light
	}
	return Dark
}

// Helper functions

// Truncate shortens s to the given display width with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// Pad pads s with spaces to the given display width
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + spaces(width-w)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
