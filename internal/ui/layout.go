package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-sync/internal/theme"
)

// Layout manages the terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
	// BannerHeight is 1 while an error banner is shown.
	BannerHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// WithBanner returns the layout with room reserved for an error banner
// when shown is true.
func (l Layout) WithBanner(shown bool) Layout {
	l.BannerHeight = 0
	if shown {
		l.BannerHeight = 1
	}
	return l
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.StatusBarHeight - l.BannerHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the top header bar with a title on the left and
// status on the right.
func (l Layout) RenderHeader(title string, status string) string {
	return l.fillBetween(theme.HeaderStyle, theme.HeaderStyle.Render(title), status)
}

// RenderBanner renders a full-width error line, or "" for an empty message.
func (l Layout) RenderBanner(message, hint string) string {
	if message == "" {
		return ""
	}
	return l.fillBetween(theme.ErrorBannerStyle, theme.ErrorBannerStyle.Render(message), theme.ErrorBannerStyle.Render(hint))
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	return l.fillBetween(theme.StatusBarStyle, theme.StatusBarStyle.Render(hints), "")
}

// fillBetween joins left and right with a gap painted in style's
// background so the bar spans the full width.
func (l Layout) fillBetween(style lipgloss.Style, left, right string) string {
	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}

// RenderWithFrame composes a full terminal view from the header, the
// optional banner, the content area and the status bar.
func (l Layout) RenderWithFrame(header, banner, content, statusBar string) string {
	parts := []string{header}
	if banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, content, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
