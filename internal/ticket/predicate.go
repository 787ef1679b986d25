package ticket

import "strings"

// searchFields is the exact field set the text predicate scans. The
// backend's applicationNumber is not unique, so even the number column
// is matched by substring like everything else.
func (t Ticket) searchFields() [8]string {
	return [8]string{
		t.ApplicationNumber,
		t.Engineer,
		t.GSMLevel,
		t.InternetLevel,
		t.InternetReason,
		t.InstallationDate,
		t.Inspector,
		t.Comments,
	}
}

// MatchesText reports whether term is a case-insensitive substring of at
// least one search field. term must already be trimmed and lower-cased;
// callers never pass an empty term.
func MatchesText(t Ticket, term string) bool {
	for _, field := range t.searchFields() {
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// MatchesDate reports whether the ticket was last updated on day d,
// comparing calendar dates in local time and ignoring time-of-day.
// Tickets without a usable LastUpdated never match.
func MatchesDate(t Ticket, d Day) bool {
	if d.Undated() {
		return false
	}
	ts, ok := t.UpdatedAt()
	if !ok {
		return false
	}
	return DayOf(ts) == d
}
