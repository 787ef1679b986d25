package filter

import (
	"context"
	"errors"
	"strings"
	"sync"

	"checkdesk/internal/ticket"
)

// ErrEmptyInput reports a filter trigger with neither a search term nor
// a date. No network call is made in that case.
var ErrEmptyInput = errors.New("enter a search term or pick a date")

// Mode is the derived filter kind, recomputed on every apply from which
// inputs are populated.
type Mode int

const (
	ModeNone Mode = iota
	ModeText
	ModeDate
	ModeCombined
)

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeDate:
		return "date"
	case ModeCombined:
		return "text+date"
	default:
		return "none"
	}
}

// State is the filter session state: the normalized inputs, the derived
// mode, and the last-computed result set kept for export and re-render.
type State struct {
	SearchTerm   string
	SelectedDate ticket.Day
	Mode         Mode
	Results      []ticket.Ticket
	Active       bool
}

// Controller owns the smart-filter dispatch over the shared cache.
// Methods are safe to call from concurrent tea.Cmd goroutines; each
// apply replaces the state wholesale, so the caller that ran last wins.
type Controller struct {
	cache *Cache

	mu    sync.Mutex
	state State
}

func NewController(cache *Cache) *Controller {
	return &Controller{cache: cache}
}

// State returns a snapshot of the current filter state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SmartFilter normalizes the inputs and picks the filter kind from
// which of them are present: both empty is an error, both set combines
// the predicates with AND, otherwise the single populated input wins.
// On load failure the previous state is left untouched.
func (c *Controller) SmartFilter(ctx context.Context, rawTerm string, date ticket.Day) (State, error) {
	term := strings.ToLower(strings.TrimSpace(rawTerm))
	hasTerm := term != ""
	hasDate := !date.Undated()

	switch {
	case !hasTerm && !hasDate:
		return c.State(), ErrEmptyInput
	case hasTerm && hasDate:
		return c.apply(ctx, term, date, ModeCombined)
	case hasTerm:
		return c.apply(ctx, term, ticket.Day{}, ModeText)
	default:
		return c.apply(ctx, "", date, ModeDate)
	}
}

func (c *Controller) apply(ctx context.Context, term string, date ticket.Day, mode Mode) (State, error) {
	items, err := c.cache.EnsureLoaded(ctx)
	if err != nil {
		return c.State(), err
	}

	results := make([]ticket.Ticket, 0, len(items))
	for _, tk := range items {
		if term != "" && !ticket.MatchesText(tk, term) {
			continue
		}
		if !date.Undated() && !ticket.MatchesDate(tk, date) {
			continue
		}
		results = append(results, tk)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{
		SearchTerm:   term,
		SelectedDate: date,
		Mode:         mode,
		Results:      results,
		Active:       true,
	}
	return c.state, nil
}

// Reset clears the filter session and forces a fresh unfiltered load
// for the following render. The state is cleared even when the reload
// fails; Reset is idempotent.
func (c *Controller) Reset(ctx context.Context) ([]ticket.Ticket, error) {
	c.mu.Lock()
	c.state = State{Results: []ticket.Ticket{}}
	c.mu.Unlock()

	return c.cache.ForceReload(ctx)
}
