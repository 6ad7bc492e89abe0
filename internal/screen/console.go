package screen

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/v2"

	"scan_kiosk/internal/models"
)

// ConsoleRenderer draws pages on a terminal for bench setups without the
// kiosk display.
type ConsoleRenderer struct {
	out io.Writer

	frame   lipgloss.Style
	idle    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	item    lipgloss.Style
	subtle  lipgloss.Style
}

func NewConsoleRenderer(out io.Writer) *ConsoleRenderer {
	return &ConsoleRenderer{
		out: out,
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00a8a8")).
			Padding(0, 2),
		idle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0066cc")),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff00")),
		failure: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff0000")),
		item:   lipgloss.NewStyle().PaddingLeft(2),
		subtle: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func (r *ConsoleRenderer) Render(s models.ScreenSnapshot) {
	var body string
	switch Kind(s.Kind) {
	case KindSuccess:
		body = r.successPage(s)
	case KindError:
		body = lipgloss.JoinVertical(lipgloss.Left,
			r.failure.Render(s.Title),
			s.Message,
		)
	default:
		body = r.idle.Render(s.Title)
	}
	fmt.Fprintln(r.out, r.frame.Render(body))
}

func (r *ConsoleRenderer) successPage(s models.ScreenSnapshot) string {
	lines := []string{r.success.Render(s.Title)}
	if s.Order == nil {
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	if s.Order.ID != "" {
		lines = append(lines, r.subtle.Render("order "+s.Order.ID))
	}
	for _, it := range s.Order.Items {
		line := fmt.Sprintf("%dx %s", it.Quantity, it.Name)
		if it.Dosage != "" {
			line += "  " + r.subtle.Render(it.Dosage)
		}
		lines = append(lines, r.item.Render(line))
	}
	if len(s.Order.Items) == 0 {
		lines = append(lines, r.subtle.Render("no items"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
