package ui

import (
	"fmt"
	"strings"

	"checkdesk/internal/ticket"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

type ticketItem struct {
	t ticket.Ticket
	// dayLabel is the calendar group the ticket belongs to; groupStart
	// marks the first row of that group so the label is shown once.
	dayLabel   string
	groupStart bool
}

func (i ticketItem) Title() string {
	badge := "NOK"
	if i.t.Resolution.OK() {
		badge = "OK"
	}
	title := fmt.Sprintf("№%s [%s]", orDash(i.t.ApplicationNumber), badge)
	if i.groupStart && i.dayLabel != "" {
		return dayLabelStyle.Render(i.dayLabel) + " " + title
	}
	return title
}

func (i ticketItem) Description() string {
	parts := make([]string, 0, 3)
	if i.t.Engineer != "" {
		parts = append(parts, i.t.Engineer)
	}
	if ts := i.t.UpdatedTime(); ts != "" {
		parts = append(parts, ts)
	}
	if c := strings.TrimSpace(i.t.Comments); c != "" {
		parts = append(parts, shorten(strings.ReplaceAll(c, "\n", " "), 48))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " | ")
}

func (i ticketItem) FilterValue() string {
	return strings.ToLower(i.t.ApplicationNumber + " " + i.t.Engineer + " " + i.t.Comments)
}

func newTicketDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.SetHeight(2)
	return d
}

var dayLabelStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("220"))
