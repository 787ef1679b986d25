package export

import (
	"strings"
	"unicode/utf8"

	"checkdesk/internal/api"
)

// Outcome classifies an export download. The backend reports "no
// tickets" failures as a 200 with a plain-text Russian phrase instead
// of an error status, so success cannot be read off the status code
// alone. That fragile contract lives entirely in this file.
type Outcome struct {
	OK      bool
	Message string
}

// rejectPhrases are the known failure bodies the backend writes in
// place of a file.
var rejectPhrases = []string{
	"Заявки не найдены",
	"Нет заявок",
	"Неверный формат",
	"Ошибка",
}

// Classify decides whether a download is a file or a refusal: a
// spreadsheet/binary content type is always a file; textual bodies are
// sniffed for the known phrases.
func Classify(d api.Download) Outcome {
	ct := strings.ToLower(d.ContentType)
	switch {
	case strings.Contains(ct, "spreadsheet"),
		strings.Contains(ct, "application/vnd.ms-excel"),
		strings.Contains(ct, "application/octet-stream"):
		return Outcome{OK: true}
	}

	// Text or unlabeled body: only sniff what is actually readable.
	if !utf8.Valid(d.Body) {
		return Outcome{OK: true}
	}
	body := string(d.Body)
	for _, phrase := range rejectPhrases {
		if strings.Contains(body, phrase) {
			return Outcome{OK: false, Message: trimMessage(body)}
		}
	}
	return Outcome{OK: true}
}

func trimMessage(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= 100 {
		return s
	}
	return string(runes[:100]) + "..."
}
