package ticket

import (
	"bytes"
	"strings"
	"time"
)

// Ticket is one maintenance-inspection record as the backend serves it.
// Any free-text field may be absent; decoding leaves it as "".
type Ticket struct {
	ID                int64      `json:"id"`
	ApplicationNumber string     `json:"applicationNumber"`
	Engineer          string     `json:"engineer"`
	GSMLevel          string     `json:"gsmLevel"`
	InternetLevel     string     `json:"internetLevel"`
	InternetReason    string     `json:"internetReason"`
	InstallationDate  string     `json:"installationDate"`
	Inspector         string     `json:"inspector"`
	Comments          string     `json:"comments"`
	LastUpdated       string     `json:"lastUpdated"`
	Resolution        Resolution `json:"resolution"`
}

// Resolution normalizes the backend's duck-typed resolution field at the
// decode boundary: JSON true and the string "true" both mean OK, anything
// else (including absence) means NOK.
type Resolution bool

func (r *Resolution) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case `true`, `"true"`:
		*r = true
	default:
		*r = false
	}
	return nil
}

func (r Resolution) OK() bool { return bool(r) }

var updatedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UpdatedAt parses LastUpdated in local time. ok is false when the field
// is absent or unparseable; such tickets are excluded from every
// date-scoped operation.
func (t Ticket) UpdatedAt() (time.Time, bool) {
	raw := strings.TrimSpace(t.LastUpdated)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range updatedLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// UpdatedTime renders the time-of-day of LastUpdated for list rows,
// or "" when the ticket has no usable timestamp.
func (t Ticket) UpdatedTime() string {
	ts, ok := t.UpdatedAt()
	if !ok {
		return ""
	}
	return ts.Format("15:04")
}
