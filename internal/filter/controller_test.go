package filter

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"checkdesk/internal/ticket"
)

func scenarioTickets() []ticket.Ticket {
	return []ticket.Ticket{
		{ID: 1, ApplicationNumber: "100", LastUpdated: "2024-01-01T10:00"},
		{ID: 2, ApplicationNumber: "200", LastUpdated: "2024-01-02T10:00"},
	}
}

func resultIDs(s State) []int64 {
	ids := make([]int64, 0, len(s.Results))
	for _, tk := range s.Results {
		ids = append(ids, tk.ID)
	}
	return ids
}

func day(t *testing.T, s string) ticket.Day {
	t.Helper()
	d, err := ticket.ParseDay(s)
	if err != nil {
		t.Fatalf("parse day %s: %v", s, err)
	}
	return d
}

func TestSmartFilter_Dispatch(t *testing.T) {
	loader := &fakeLoader{tickets: scenarioTickets()}
	ctl := NewController(NewCache(loader, DefaultMaxAge))
	ctx := context.Background()

	// Text only.
	st, err := ctl.SmartFilter(ctx, "100", ticket.Day{})
	if err != nil {
		t.Fatalf("text filter: %v", err)
	}
	if st.Mode != ModeText || !reflect.DeepEqual(resultIDs(st), []int64{1}) {
		t.Fatalf("text filter state: mode=%v ids=%v", st.Mode, resultIDs(st))
	}

	// Date only.
	st, err = ctl.SmartFilter(ctx, "", day(t, "2024-01-02"))
	if err != nil {
		t.Fatalf("date filter: %v", err)
	}
	if st.Mode != ModeDate || !reflect.DeepEqual(resultIDs(st), []int64{2}) {
		t.Fatalf("date filter state: mode=%v ids=%v", st.Mode, resultIDs(st))
	}

	// Combined, matching.
	st, err = ctl.SmartFilter(ctx, "200", day(t, "2024-01-02"))
	if err != nil {
		t.Fatalf("combined filter: %v", err)
	}
	if st.Mode != ModeCombined || !reflect.DeepEqual(resultIDs(st), []int64{2}) {
		t.Fatalf("combined filter state: mode=%v ids=%v", st.Mode, resultIDs(st))
	}

	// Combined, disjoint predicates: valid empty outcome, still active.
	st, err = ctl.SmartFilter(ctx, "100", day(t, "2024-01-02"))
	if err != nil {
		t.Fatalf("combined filter: %v", err)
	}
	if len(st.Results) != 0 || !st.Active {
		t.Fatalf("expected active empty result, got %+v", st)
	}
}

func TestSmartFilter_EmptyInputMakesNoCall(t *testing.T) {
	loader := &fakeLoader{}
	ctl := NewController(NewCache(loader, DefaultMaxAge))

	_, err := ctl.SmartFilter(context.Background(), "   ", ticket.Day{})
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if loader.calls != 0 {
		t.Fatalf("empty input must not hit the network, got %d calls", loader.calls)
	}
	if st := ctl.State(); st.Active {
		t.Fatalf("empty input must not activate the filter")
	}
}

func TestSmartFilter_NormalizesTerm(t *testing.T) {
	loader := &fakeLoader{tickets: []ticket.Ticket{{ID: 1, Comments: "GSM weak"}}}
	ctl := NewController(NewCache(loader, DefaultMaxAge))

	st, err := ctl.SmartFilter(context.Background(), "  GSM  ", ticket.Day{})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if st.SearchTerm != "gsm" {
		t.Fatalf("term not normalized: %q", st.SearchTerm)
	}
	if len(st.Results) != 1 {
		t.Fatalf("expected match after normalization")
	}
}

func TestEmptyResultDistinguishableFromLoadFailure(t *testing.T) {
	loader := &fakeLoader{tickets: scenarioTickets()}
	ctl := NewController(NewCache(loader, DefaultMaxAge))
	ctx := context.Background()

	st, err := ctl.SmartFilter(ctx, "no-such-ticket", ticket.Day{})
	if err != nil {
		t.Fatalf("empty outcome is not an error: %v", err)
	}
	if len(st.Results) != 0 || !st.Active {
		t.Fatalf("expected empty active result, got %+v", st)
	}

	// A load failure must leave the previous state untouched.
	ctl2 := NewController(NewCache(&fakeLoader{err: errors.New("down")}, DefaultMaxAge))
	before := ctl2.State()
	_, err = ctl2.SmartFilter(ctx, "100", ticket.Day{})
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
	if after := ctl2.State(); after.Active != before.Active || len(after.Results) != len(before.Results) {
		t.Fatalf("load failure mutated state: before=%+v after=%+v", before, after)
	}
}

func TestReset_IdempotentAndReloads(t *testing.T) {
	loader := &fakeLoader{tickets: scenarioTickets()}
	ctl := NewController(NewCache(loader, DefaultMaxAge))
	ctx := context.Background()

	if _, err := ctl.SmartFilter(ctx, "100", ticket.Day{}); err != nil {
		t.Fatalf("filter: %v", err)
	}

	all, err := ctl.Reset(ctx)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("reset must return the full reloaded list, got %d", len(all))
	}
	first := ctl.State()

	if _, err := ctl.Reset(ctx); err != nil {
		t.Fatalf("second reset: %v", err)
	}
	second := ctl.State()

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reset not idempotent: %+v vs %+v", first, second)
	}
	if second.Active || second.SearchTerm != "" || !second.SelectedDate.Undated() || len(second.Results) != 0 {
		t.Fatalf("reset state not cleared: %+v", second)
	}
}

func TestSmartFilter_SafeAgainstCallerMutatingSnapshot(t *testing.T) {
	tickets := make([]ticket.Ticket, 64)
	for i := range tickets {
		tickets[i] = ticket.Ticket{ID: int64(i + 1), Comments: "gsm weak", LastUpdated: "2024-05-01T10:00"}
	}
	loader := &fakeLoader{tickets: tickets}
	cache := NewCache(loader, DefaultMaxAge)
	ctl := NewController(cache)

	view, err := cache.EnsureLoaded(context.Background())
	if err != nil {
		t.Fatalf("ensure loaded: %v", err)
	}

	// A caller editing its snapshot in place must never race a filter
	// pass over the cache. Fails under -race if the slice is shared.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			view[i%len(view)].Comments = "edited in place"
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			st, err := ctl.SmartFilter(context.Background(), "gsm", ticket.Day{})
			if err != nil {
				t.Errorf("filter: %v", err)
				return
			}
			if len(st.Results) != len(tickets) {
				t.Errorf("snapshot edits leaked into the cache: %d matches", len(st.Results))
				return
			}
		}
	}()
	wg.Wait()
}

func TestModeTransitionsAreUnrestricted(t *testing.T) {
	loader := &fakeLoader{tickets: scenarioTickets()}
	ctl := NewController(NewCache(loader, DefaultMaxAge))
	ctx := context.Background()
	d := day(t, "2024-01-01")

	steps := []struct {
		term string
		date ticket.Day
		want Mode
	}{
		{"100", ticket.Day{}, ModeText},
		{"", d, ModeDate},
		{"100", d, ModeCombined},
		{"200", ticket.Day{}, ModeText},
	}
	for _, step := range steps {
		st, err := ctl.SmartFilter(ctx, step.term, step.date)
		if err != nil {
			t.Fatalf("filter %+v: %v", step, err)
		}
		if st.Mode != step.want {
			t.Fatalf("mode for %+v: got %v want %v", step, st.Mode, step.want)
		}
	}
}
