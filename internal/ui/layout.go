package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/theme"
)

// Layout manages the header / content / status bar frame.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
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

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// Brand renders the "TodoApp" wordmark.
func Brand() string {
	return theme.HeaderStyle.PaddingRight(0).Render("Todo") +
		theme.BrandAccentStyle.PaddingRight(1).Render("App")
}

// RenderHeader renders the top bar with the brand on the left and the
// user label on the right.
func (l Layout) RenderHeader(user string) string {
	brand := Brand()

	userRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(user)

	gap := l.Width - lipgloss.Width(brand) - lipgloss.Width(userRendered)
	if gap < 0 {
		gap = 0
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		brand,
		filler(gap, theme.HeaderStyle),
		userRendered,
	)
}

// RenderStatusBar renders the bottom bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	return l.renderBar(theme.StatusBarStyle, hints)
}

// RenderToast renders a notification in place of the status bar.
func (l Layout) RenderToast(message string, isError bool) string {
	return l.renderBar(theme.ToastStyle(isError), message)
}

func (l Layout) renderBar(style lipgloss.Style, text string) string {
	rendered := style.Render(text)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler(gap, style))
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar. The content is padded to the
// content height so the status bar stays at the bottom.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	body := lipgloss.NewStyle().
		Height(max(l.ContentHeight(), 0)).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}

func filler(width int, style lipgloss.Style) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(style.GetBackground()).
		Render("")
}
