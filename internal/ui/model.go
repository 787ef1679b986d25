package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"checkdesk/internal/api"
	"checkdesk/internal/clipboard"
	"checkdesk/internal/config"
	"checkdesk/internal/export"
	"checkdesk/internal/filter"
	"checkdesk/internal/highlight"
	"checkdesk/internal/ticket"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// inputMode says which text input currently owns the keyboard.
type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputDate
	inputExportNumber
)

type Model struct {
	cfg      config.AppConfig
	client   *api.Client
	cache    *filter.Cache
	ctl      *filter.Controller
	exporter *export.Exporter

	list     list.Model
	viewport viewport.Model
	help     help.Model
	spinner  spinner.Model
	search   textinput.Model
	dateIn   textinput.Model
	numberIn textinput.Model
	keys     keyMap

	width  int
	height int

	loading     bool
	loadSeq     int // request-sequence token; stale responses are dropped
	renderNonce int
	focusOnList bool
	showAll     bool // full grouped view vs recent view
	mode        inputMode

	filterState filter.State

	visible     []ticket.Ticket
	byID        map[int64]ticket.Ticket
	selectedID  int64
	rendered    map[string]string
	highlighted map[string]highlight.Result

	confirmDeleteID int64

	status string
	err    error
}

type ticketsMsg struct {
	seq     int
	showAll bool
	tickets []ticket.Ticket
	err     error
}

type filterMsg struct {
	seq   int
	state filter.State
	err   error
}

type resetMsg struct {
	seq     int
	tickets []ticket.Ticket
	err     error
}

type ticketMsg struct {
	id  int64
	t   ticket.Ticket
	err error
}

type exportMsg struct {
	path string
	err  error
}

type deleteMsg struct {
	id  int64
	err error
}

type copyMsg struct{ err error }

type renderMsg struct {
	ticketID int64
	cacheKey string
	rendered string
	nonce    int
	err      error
}

func NewModel(cfg config.AppConfig, client *api.Client, cache *filter.Cache, ctl *filter.Controller, exp *export.Exporter) Model {
	l := list.New([]list.Item{}, newTicketDelegate(), 40, 20)
	l.Title = "Заявки"
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	vp := viewport.New(60, 20)
	vp.SetContent("Loading tickets...")

	h := help.New()
	h.ShowAll = false

	sp := spinner.New()
	sp.Spinner = spinner.Points

	search := textinput.New()
	search.Placeholder = "Search tickets..."
	search.Prompt = "/ "
	search.CharLimit = 256

	dateIn := textinput.New()
	dateIn.Placeholder = "YYYY-MM-DD"
	dateIn.Prompt = "date: "
	dateIn.CharLimit = 10

	numberIn := textinput.New()
	numberIn.Placeholder = "application number"
	numberIn.Prompt = "export №: "
	numberIn.CharLimit = 64

	return Model{
		cfg:      cfg,
		client:   client,
		cache:    cache,
		ctl:      ctl,
		exporter: exp,

		list:     l,
		viewport: vp,
		help:     h,
		spinner:  sp,
		search:   search,
		dateIn:   dateIn,
		numberIn: numberIn,
		keys:     defaultKeys(),

		loading:     true,
		focusOnList: true,
		byID:        make(map[int64]ticket.Ticket),
		rendered:    make(map[string]string),
		highlighted: make(map[string]highlight.Result),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd(m.loadSeq, false))
}

// loadCmd fetches either the recent view or the full cached collection.
func (m Model) loadCmd(seq int, showAll bool) tea.Cmd {
	client, cache, limit := m.client, m.cache, m.cfg.RecentLimit
	return func() tea.Msg {
		ctx := context.Background()
		if showAll {
			tickets, err := cache.EnsureLoaded(ctx)
			return ticketsMsg{seq: seq, showAll: true, tickets: tickets, err: err}
		}
		tickets, err := client.Recent(ctx, limit)
		return ticketsMsg{seq: seq, showAll: false, tickets: tickets, err: err}
	}
}

func (m Model) smartFilterCmd(seq int, rawTerm, rawDate string) tea.Cmd {
	ctl := m.ctl
	return func() tea.Msg {
		var day ticket.Day
		if rawDate = strings.TrimSpace(rawDate); rawDate != "" {
			parsed, err := ticket.ParseDay(rawDate)
			if err != nil {
				return filterMsg{seq: seq, err: err}
			}
			day = parsed
		}
		state, err := ctl.SmartFilter(context.Background(), rawTerm, day)
		return filterMsg{seq: seq, state: state, err: err}
	}
}

// refilterCmd re-runs the active filter against the backend's current
// collection, e.g. after a delete invalidated the cache.
func (m Model) refilterCmd(seq int) tea.Cmd {
	ctl, st := m.ctl, m.filterState
	return func() tea.Msg {
		state, err := ctl.SmartFilter(context.Background(), st.SearchTerm, st.SelectedDate)
		return filterMsg{seq: seq, state: state, err: err}
	}
}

func (m Model) resetCmd(seq int) tea.Cmd {
	ctl := m.ctl
	return func() tea.Msg {
		tickets, err := ctl.Reset(context.Background())
		return resetMsg{seq: seq, tickets: tickets, err: err}
	}
}

func (m Model) exportResultsCmd() tea.Cmd {
	exp, st := m.exporter, m.filterState
	return func() tea.Msg {
		path, err := exp.ExportResults(context.Background(), st.Results, st.SearchTerm, st.SelectedDate)
		return exportMsg{path: path, err: err}
	}
}

func (m Model) exportAllCmd() tea.Cmd {
	exp := m.exporter
	return func() tea.Msg {
		path, err := exp.ExportAll(context.Background())
		return exportMsg{path: path, err: err}
	}
}

func (m Model) exportByDateCmd(date ticket.Day) tea.Cmd {
	exp := m.exporter
	return func() tea.Msg {
		path, err := exp.ExportByDate(context.Background(), date)
		return exportMsg{path: path, err: err}
	}
}

func (m Model) exportSingleCmd(number string) tea.Cmd {
	exp := m.exporter
	return func() tea.Msg {
		path, err := exp.ExportSingle(context.Background(), number)
		return exportMsg{path: path, err: err}
	}
}

// getTicketCmd refetches one ticket so the detail pane reflects the
// backend's current state without reloading the whole collection.
func (m Model) getTicketCmd(id int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		t, err := client.Get(context.Background(), id)
		return ticketMsg{id: id, t: t, err: err}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	client, cache := m.client, m.cache
	return func() tea.Msg {
		err := client.Delete(context.Background(), id)
		// Invalidate even on failure: the backend state is uncertain
		// and the next read must refetch.
		cache.Invalidate()
		return deleteMsg{id: id, err: err}
	}
}

func (m Model) copyCommentsCmd(id int64) tea.Cmd {
	tk, ok := m.byID[id]
	if !ok {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return copyMsg{err: clipboard.Copy(ctx, tk.Comments)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		cmds = append(cmds, m.renderSelected(true))

	case ticketsMsg:
		if msg.seq != m.loadSeq {
			break
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.status = "Load failed: " + msg.err.Error()
			break
		}
		m.err = nil
		m.showAll = msg.showAll
		m.applyTickets(msg.tickets)
		if m.showAll {
			m.status = fmt.Sprintf("%d tickets", len(msg.tickets))
		} else {
			m.status = fmt.Sprintf("%d recent tickets", len(msg.tickets))
		}
		cmds = append(cmds, m.renderSelected(false))

	case filterMsg:
		if msg.seq != m.loadSeq {
			break
		}
		m.loading = false
		if msg.err != nil {
			// Empty input and load failure both leave the previous
			// result set in place; only the message differs.
			if errors.Is(msg.err, filter.ErrEmptyInput) {
				m.status = "Enter a search term or pick a date"
			} else {
				m.err = msg.err
				m.status = "Filter failed: " + msg.err.Error()
			}
			break
		}
		m.err = nil
		m.filterState = msg.state
		m.showAll = true
		m.applyTickets(msg.state.Results)
		m.status = filterSummary(msg.state)
		cmds = append(cmds, m.renderSelected(false))

	case resetMsg:
		if msg.seq != m.loadSeq {
			break
		}
		m.loading = false
		m.filterState = filter.State{}
		m.search.SetValue("")
		m.dateIn.SetValue("")
		if msg.err != nil {
			m.err = msg.err
			m.status = "Reload failed: " + msg.err.Error()
			break
		}
		m.err = nil
		m.showAll = true
		m.applyTickets(msg.tickets)
		m.status = fmt.Sprintf("Filters cleared, %d tickets", len(msg.tickets))
		cmds = append(cmds, m.renderSelected(false))

	case ticketMsg:
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrNotFound) {
				m.status = fmt.Sprintf("Ticket %d no longer exists", msg.id)
			} else {
				m.err = msg.err
				m.status = "Reload failed: " + msg.err.Error()
			}
			break
		}
		m.err = nil
		if _, known := m.byID[msg.t.ID]; known {
			for i := range m.visible {
				if m.visible[i].ID == msg.t.ID {
					m.visible[i] = msg.t
				}
			}
			m.dropRenderCache(msg.t.ID)
			m.applyTickets(m.visible)
			m.status = fmt.Sprintf("Ticket %d refreshed", msg.t.ID)
			cmds = append(cmds, m.renderSelected(true))
		}

	case exportMsg:
		if msg.err != nil {
			m.err = msg.err
			switch {
			case errors.Is(msg.err, export.ErrNothingToExport):
				m.status = "Nothing to export"
			case errors.Is(msg.err, export.ErrRejected):
				m.status = "Export rejected: " + msg.err.Error()
			default:
				m.status = "Export failed: " + msg.err.Error()
			}
		} else {
			m.err = nil
			m.status = "Exported: " + msg.path
		}

	case deleteMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.status = "Delete failed: " + msg.err.Error()
			break
		}
		m.err = nil
		m.status = fmt.Sprintf("Ticket %d deleted", msg.id)
		m.loadSeq++
		m.loading = true
		// An active filter is re-applied so its retained result set
		// (what export posts) drops the deleted ticket too.
		if m.filterState.Active {
			cmds = append(cmds, m.refilterCmd(m.loadSeq), m.spinner.Tick)
		} else {
			cmds = append(cmds, m.loadCmd(m.loadSeq, m.showAll), m.spinner.Tick)
		}

	case copyMsg:
		if msg.err != nil {
			switch {
			case errors.Is(msg.err, clipboard.ErrNothingToCopy):
				m.status = "Ticket has no comments"
			case errors.Is(msg.err, clipboard.ErrToolNotFound):
				m.status = "Could not copy: clipboard tool not found"
			default:
				m.status = "Could not copy: " + msg.err.Error()
			}
		} else {
			m.status = "Comments copied to clipboard"
		}

	case renderMsg:
		if msg.nonce != m.renderNonce {
			break
		}
		if msg.err != nil {
			m.err = msg.err
			m.status = "Render failed: " + msg.err.Error()
			break
		}
		m.rendered[msg.cacheKey] = msg.rendered
		if m.selectedID == msg.ticketID {
			m.setViewportFromRendered(msg.cacheKey, msg.rendered, true)
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.loading {
		var spin tea.Cmd
		m.spinner, spin = m.spinner.Update(msg)
		cmds = append(cmds, spin)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.mode != inputNone {
		return m.handleInputKey(msg)
	}

	if m.confirmDeleteID != 0 {
		switch msg.String() {
		case "y", "Y":
			id := m.confirmDeleteID
			m.confirmDeleteID = 0
			m.loading = true
			m.status = fmt.Sprintf("Deleting ticket %d...", id)
			return m, tea.Batch(m.deleteCmd(id), m.spinner.Tick)
		default:
			m.confirmDeleteID = 0
			m.status = "Delete cancelled"
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Reload):
		if m.selectedID != 0 {
			m.status = fmt.Sprintf("Reloading ticket %d...", m.selectedID)
			return m, m.getTicketCmd(m.selectedID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.mode = inputSearch
		m.search.CursorEnd()
		m.search.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Date):
		m.mode = inputDate
		m.dateIn.CursorEnd()
		m.dateIn.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		if !m.filterState.Active && m.search.Value() == "" && m.dateIn.Value() == "" {
			return m, nil
		}
		m.loadSeq++
		m.loading = true
		m.status = "Clearing filters..."
		return m, tea.Batch(m.resetCmd(m.loadSeq), m.spinner.Tick)

	case key.Matches(msg, m.keys.Refresh):
		m.cache.Invalidate()
		m.loadSeq++
		m.loading = true
		m.status = "Refreshing..."
		return m, tea.Batch(m.loadCmd(m.loadSeq, m.showAll), m.spinner.Tick)

	case key.Matches(msg, m.keys.ToggleAll):
		m.loadSeq++
		m.loading = true
		return m, tea.Batch(m.loadCmd(m.loadSeq, !m.showAll), m.spinner.Tick)

	case key.Matches(msg, m.keys.Tab):
		m.focusOnList = !m.focusOnList
		return m, nil

	case key.Matches(msg, m.keys.FocusLeft):
		m.focusOnList = true
		return m, nil

	case key.Matches(msg, m.keys.FocusRight):
		m.focusOnList = false
		return m, nil

	case key.Matches(msg, m.keys.Export):
		m.status = "Exporting filtered results..."
		return m, m.exportResultsCmd()

	case key.Matches(msg, m.keys.ExportAll):
		m.status = "Exporting all tickets..."
		return m, m.exportAllCmd()

	case key.Matches(msg, m.keys.ExportDate):
		date := m.filterState.SelectedDate
		if date.Undated() {
			if g, ok := m.selectedDay(); ok {
				date = g
			}
		}
		if date.Undated() {
			m.status = "Pick a date filter or a dated ticket first"
			return m, nil
		}
		m.status = "Exporting tickets for " + date.Key() + "..."
		return m, m.exportByDateCmd(date)

	case key.Matches(msg, m.keys.ExportOne):
		m.mode = inputExportNumber
		if tk, ok := m.byID[m.selectedID]; ok {
			m.numberIn.SetValue(tk.ApplicationNumber)
		}
		m.numberIn.CursorEnd()
		m.numberIn.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if m.selectedID != 0 {
			return m, m.copyCommentsCmd(m.selectedID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.selectedID != 0 {
			m.confirmDeleteID = m.selectedID
			m.status = fmt.Sprintf("Delete ticket %d? y/n", m.selectedID)
		}
		return m, nil
	}

	if m.focusOnList {
		prev := m.selectedID
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
		m.selectedID = m.currentSelectedID()
		if m.selectedID != prev {
			cmds = append(cmds, m.renderSelected(false))
		}
	} else {
		switch msg.String() {
		case "up", "k":
			m.viewport.LineUp(1)
		case "down", "j":
			m.viewport.LineDown(1)
		case "pgup", "b":
			m.viewport.HalfViewUp()
		case "pgdown", "f":
			m.viewport.HalfViewDown()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	input := m.activeInput()

	switch msg.String() {
	case "esc":
		input.Blur()
		m.mode = inputNone
		return m, nil
	case "enter":
		input.Blur()
		mode := m.mode
		m.mode = inputNone
		if mode == inputExportNumber {
			number := strings.TrimSpace(m.numberIn.Value())
			if number == "" {
				m.status = "Enter an application number"
				return m, nil
			}
			m.status = "Exporting ticket " + number + "..."
			return m, m.exportSingleCmd(number)
		}
		m.loadSeq++
		m.loading = true
		m.status = "Filtering..."
		return m, tea.Batch(m.smartFilterCmd(m.loadSeq, m.search.Value(), m.dateIn.Value()), m.spinner.Tick)
	}

	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	return m, cmd
}

func (m *Model) activeInput() *textinput.Model {
	switch m.mode {
	case inputDate:
		return &m.dateIn
	case inputExportNumber:
		return &m.numberIn
	default:
		return &m.search
	}
}

// applyTickets rebuilds the list pane. The full view is grouped by
// calendar day with a divider on each group's first row; the recent
// view keeps the server's order.
func (m *Model) applyTickets(in []ticket.Ticket) {
	m.visible = in
	m.byID = make(map[int64]ticket.Ticket, len(in))

	var items []list.Item
	if m.showAll {
		now := time.Now()
		for _, g := range ticket.GroupByDay(in) {
			label := ticket.FormatDayLabel(g.Day, now)
			for i, tk := range g.Tickets {
				m.byID[tk.ID] = tk
				items = append(items, ticketItem{t: tk, dayLabel: label, groupStart: i == 0})
			}
		}
	} else {
		for _, tk := range in {
			m.byID[tk.ID] = tk
			items = append(items, ticketItem{t: tk})
		}
	}
	m.list.SetItems(items)

	if len(items) == 0 {
		m.selectedID = 0
		if m.filterState.Active {
			m.viewport.SetContent(noResultsText(m.filterState))
		} else {
			m.viewport.SetContent("No tickets.")
		}
		return
	}

	selectIdx := 0
	if m.selectedID != 0 {
		for idx, it := range items {
			if it.(ticketItem).t.ID == m.selectedID {
				selectIdx = idx
				break
			}
		}
	}
	m.list.Select(selectIdx)
	m.selectedID = items[selectIdx].(ticketItem).t.ID
}

func (m *Model) currentSelectedID() int64 {
	item, ok := m.list.SelectedItem().(ticketItem)
	if !ok {
		return 0
	}
	return item.t.ID
}

// selectedDay resolves the calendar day of the selected ticket.
func (m *Model) selectedDay() (ticket.Day, bool) {
	tk, ok := m.byID[m.selectedID]
	if !ok {
		return ticket.Day{}, false
	}
	ts, ok := tk.UpdatedAt()
	if !ok {
		return ticket.Day{}, false
	}
	return ticket.DayOf(ts), true
}

func (m *Model) renderSelected(force bool) tea.Cmd {
	if m.selectedID == 0 {
		return nil
	}
	tk, ok := m.byID[m.selectedID]
	if !ok {
		return nil
	}

	cacheKey := m.renderCacheKey(tk.ID)
	if !force {
		if rendered, ok := m.rendered[cacheKey]; ok {
			m.setViewportFromRendered(cacheKey, rendered, false)
			return nil
		}
	}

	m.renderNonce++
	nonce := m.renderNonce
	wrap := m.viewport.Width - 2
	if wrap < 20 {
		wrap = 20
	}
	md := buildTicketMarkdown(tk)
	id := tk.ID
	return func() tea.Msg {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(config.DefaultGlamourStyle),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return renderMsg{ticketID: id, cacheKey: cacheKey, rendered: md, nonce: nonce}
		}
		rendered := md
		if out, renderErr := r.Render(md); renderErr == nil {
			rendered = out
		}
		return renderMsg{ticketID: id, cacheKey: cacheKey, rendered: rendered, nonce: nonce}
	}
}

// dropRenderCache evicts cached renders for one ticket after its data
// changed.
func (m *Model) dropRenderCache(id int64) {
	prefix := fmt.Sprintf("%d|", id)
	for k := range m.rendered {
		if strings.HasPrefix(k, prefix) {
			delete(m.rendered, k)
		}
	}
	for k := range m.highlighted {
		if strings.HasPrefix(k, prefix) {
			delete(m.highlighted, k)
		}
	}
}

func (m Model) renderCacheKey(id int64) string {
	return fmt.Sprintf("%d|w=%d", id, m.viewport.Width)
}

func (m *Model) setViewportFromRendered(cacheKey, rendered string, gotoTop bool) {
	content := rendered
	if term := m.filterState.SearchTerm; term != "" {
		hKey := cacheKey + "|q=" + term
		res, ok := m.highlighted[hKey]
		if !ok {
			res = highlight.Apply(rendered, term, func(s string) string {
				return searchMatchStyle.Render(s)
			})
			m.highlighted[hKey] = res
		}
		content = res.Text
	}
	m.viewport.SetContent(content)
	if gotoTop {
		m.viewport.GotoTop()
	}
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	left, right := m.paneWidths()

	bodyHeight := m.height - 2
	if bodyHeight < 8 {
		bodyHeight = 8
	}

	m.list.SetSize(left-2, bodyHeight-2)
	m.viewport.Width = right - 2
	m.viewport.Height = bodyHeight - 2

	// Width changed, so cached renders are for the wrong wrap.
	m.rendered = make(map[string]string)
	m.highlighted = make(map[string]highlight.Result)
}

func (m *Model) paneWidths() (int, int) {
	left := m.width / 3
	if left < 34 {
		left = 34
	}
	if left > m.width-30 {
		left = m.width - 30
	}
	if left < 20 {
		left = 20
	}
	right := m.width - left - 1
	if right < 20 {
		right = 20
	}
	return left, right
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Starting..."
	}

	status := m.statusLine()
	left, right := m.paneWidths()
	leftPane := panelStyle(m.focusOnList).Width(left).Height(m.height - 2).Render(m.list.View())
	rightPane := panelStyle(!m.focusOnList).Width(right).Height(m.height - 2).Render(m.viewport.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	bottom := m.help.View(m.keys)
	switch m.mode {
	case inputSearch:
		bottom = m.search.View() + "  " + bottom
	case inputDate:
		bottom = m.dateIn.View() + "  " + bottom
	case inputExportNumber:
		bottom = m.numberIn.View() + "  " + bottom
	default:
		if m.filterState.Active {
			bottom = filterSummary(m.filterState) + "  " + bottom
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, status, body, bottom)
}

func (m Model) statusLine() string {
	status := ""
	if m.loading {
		status = m.spinner.View() + " loading..."
	}
	if tk, ok := m.byID[m.selectedID]; ok {
		badge := "NOK"
		if tk.Resolution.OK() {
			badge = "OK"
		}
		status = fmt.Sprintf("№%s  %s  %s  [%s]",
			orDash(tk.ApplicationNumber), orDash(tk.Engineer), tk.UpdatedTime(), badge)
	}
	if m.showAll {
		status += "  [all]"
	} else {
		status += "  [recent]"
	}
	if m.filterState.Active {
		status += "  [" + m.filterState.Mode.String() + "]"
	}
	if strings.TrimSpace(m.status) != "" {
		status += "  " + shorten(strings.TrimSpace(m.status), 80)
	}
	if m.err != nil {
		status += "  err=" + shorten(m.err.Error(), 60)
	}
	return statusStyle.Render(status)
}

// filterSummary describes the active filter and its result size, naming
// whichever inputs produced it.
func filterSummary(st filter.State) string {
	parts := make([]string, 0, 2)
	if st.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("search %q", st.SearchTerm))
	}
	if !st.SelectedDate.Undated() {
		parts = append(parts, "date "+st.SelectedDate.Key())
	}
	return fmt.Sprintf("%s: %d tickets", strings.Join(parts, " + "), len(st.Results))
}

// noResultsText names the combination that matched nothing, with the
// reset affordance.
func noResultsText(st filter.State) string {
	parts := make([]string, 0, 2)
	if st.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("for %q", st.SearchTerm))
	}
	if !st.SelectedDate.Undated() {
		parts = append(parts, "on "+st.SelectedDate.Key())
	}
	return "No tickets " + strings.Join(parts, " ") + ".\n\nPress esc to clear filters."
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// shorten clamps to n runes; status text is frequently Cyrillic, so a
// byte cut could split a rune.
func shorten(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("24")).
			Padding(0, 1)
	searchMatchStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("16")).
				Background(lipgloss.Color("220"))
)

func panelStyle(active bool) lipgloss.Style {
	border := lipgloss.NormalBorder()
	color := lipgloss.Color("240")
	if active {
		color = lipgloss.Color("39")
	}
	return lipgloss.NewStyle().
		Border(border, true).
		BorderForeground(color).
		Padding(0, 1)
}
