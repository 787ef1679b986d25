package ui

import (
	"fmt"
	"strings"

	"checkdesk/internal/ticket"
)

// buildTicketMarkdown renders one ticket as the markdown shown in the
// detail pane. Field labels match the backend's locale.
func buildTicketMarkdown(t ticket.Ticket) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Заявка №%s\n\n", orDash(t.ApplicationNumber))

	resolution := "НЕ РЕШЕНО"
	if t.Resolution.OK() {
		resolution = "РЕШЕНО"
	}
	fmt.Fprintf(&b, "**Решение:** %s\n\n", resolution)

	writeField(&b, "Инженер", t.Engineer)
	writeField(&b, "Уровень GSM", t.GSMLevel)
	writeField(&b, "Уровень интернета", t.InternetLevel)
	writeField(&b, "Причина", t.InternetReason)
	writeField(&b, "Дата установки", t.InstallationDate)
	writeField(&b, "Проверяющий", t.Inspector)

	if ts, ok := t.UpdatedAt(); ok {
		writeField(&b, "Обновлено", ts.Format("02.01.2006 15:04"))
	} else {
		writeField(&b, "Обновлено", ticket.UndatedLabel)
	}

	b.WriteString("\n## Комментарии\n\n")
	if c := strings.TrimSpace(t.Comments); c != "" {
		b.WriteString(c)
		b.WriteString("\n")
	} else {
		b.WriteString("_нет комментариев_\n")
	}

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "- **%s:** %s\n", label, orDash(value))
}
