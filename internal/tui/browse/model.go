package browse

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/Paintersrp/scenecat/internal/catalog"
	"github.com/Paintersrp/scenecat/internal/columns"
	"github.com/Paintersrp/scenecat/internal/export"
	"github.com/Paintersrp/scenecat/internal/search"
	"github.com/Paintersrp/scenecat/internal/state"
)

// chromeHeight is the number of lines around the table: title, filter box,
// status and help.
const chromeHeight = 7

type Model struct {
	state   *state.State
	table   table.Model
	input   textinput.Model
	keys    keyMap
	all     []catalog.Record
	visible []catalog.Record
	sort    columns.SortState
	cursor  int
	status  string
	width   int
	height  int

	// statusLine is the last catalog status reported by StatusCmd.
	statusLine string

	copyToClipboard func(string) error
	open            func(string) error
	now             func() time.Time
}

func NewModel(s *state.State) (*Model, error) {
	if s == nil || s.Handler == nil {
		return nil, fmt.Errorf("browse model requires a configured state handler")
	}

	input := textinput.New()
	input.Placeholder = "filter (space separated terms, all must match)"
	input.Prompt = "/ "

	m := &Model{
		state:           s,
		input:           input,
		keys:            newKeyMap(),
		copyToClipboard: clipboard.WriteAll,
		open:            s.Handler.Open,
		now:             time.Now,
		table: table.New(
			table.WithColumns(tableColumns(columns.SortState{})),
			table.WithFocused(true),
			table.WithHeight(10),
			table.WithStyles(tableStyles()),
		),
	}

	if err := m.rescan(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.state.StatusCmd()}
	if m.state.Workspace.Watch {
		if w, err := m.state.Watch(); err != nil {
			log.Warn().Err(err).Msg("catalog watcher disabled")
		} else {
			cmds = append(cmds, w.Start())
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width - 2)
		m.table.SetHeight(max(msg.Height-chromeHeight, 3))
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case state.CatalogChangedMsg:
		if err := m.rescan(); err != nil {
			m.status = fmt.Sprintf("rescan failed: %v", err)
		} else if msg.Name != "" {
			m.status = fmt.Sprintf("changed: %s", msg.Name)
		}
		return m, tea.Batch(m.watch(), m.state.StatusCmd())

	case state.CatalogWatcherErrMsg:
		m.status = fmt.Sprintf("watcher: %v", msg.Err)
		return m, m.watch()

	case state.CatalogStatusMsg:
		m.statusLine = msg.Line
		return m, nil

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateFilter(msg)
		}

		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.filter):
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.clear):
			m.input.SetValue("")
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.nextColumn):
			m.cursor = (m.cursor + 1) % len(columns.Names)
			m.status = fmt.Sprintf("sort column: %s", columns.Names[m.cursor])
			return m, nil
		case key.Matches(msg, m.keys.sort):
			m.sort.Toggle(columns.Names[m.cursor])
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.open):
			return m.handleOpen()
		case key.Matches(msg, m.keys.yank):
			return m.handleYank()
		case key.Matches(msg, m.keys.geo):
			return m.handleGeo()
		case key.Matches(msg, m.keys.rescan):
			if err := m.rescan(); err != nil {
				m.status = fmt.Sprintf("rescan failed: %v", err)
			} else {
				m.status = "rescanned"
			}
			return m, m.state.StatusCmd()
		case key.Matches(msg, m.keys.export):
			return m.handleExport()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.SetValue("")
		m.input.Blur()
		m.refresh()
		return m, nil
	case tea.KeyEnter, tea.KeyTab:
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *Model) View() string {
	title := titleStyle.Render(fmt.Sprintf("scenecat · %s", m.state.WorkspaceName))
	if m.statusLine != "" {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", statusStyle(m.statusLine))
	}

	statuses := []string{fmt.Sprintf("%d of %d folders", len(m.visible), len(m.all))}
	if m.sort.Column != "" {
		statuses = append(statuses, fmt.Sprintf("sorted by %s %s", m.sort.Column, arrow(m.sort.Reverse)))
	}
	if m.status != "" {
		statuses = append(statuses, m.status)
	}

	var help []string
	for _, b := range m.keys.help() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}

	return appStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		inputStyle.Render(m.input.View()),
		m.table.View(),
		statusStyle(strings.Join(statuses, " · ")),
		helpStyle(strings.Join(help, " • ")),
	))
}

// Selected returns the record under the table cursor.
func (m *Model) Selected() (catalog.Record, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return catalog.Record{}, false
	}
	return m.visible[i], true
}

// Visible returns the filtered and sorted records in display order.
func (m *Model) Visible() []catalog.Record {
	return m.visible
}

func (m *Model) watch() tea.Cmd {
	if m.state.Watcher == nil {
		return nil
	}
	return m.state.Watcher.Start()
}

// rescan rebuilds the catalog and carries derived coordinates over to the
// folders that still exist.
func (m *Model) rescan() error {
	records, err := m.state.Catalog()
	if err != nil {
		return err
	}

	known := make(map[string]*catalog.Coordinates, len(m.all))
	for _, r := range m.all {
		if r.Coords != nil {
			known[r.Name] = r.Coords
		}
	}
	for i := range records {
		records[i].Coords = known[records[i].Name]
	}

	m.all = records
	m.refresh()
	return nil
}

func (m *Model) refresh() {
	visible := search.FilterAnd(m.all, m.input.Value())
	sorted, err := m.sort.Apply(visible)
	if err != nil {
		m.status = fmt.Sprintf("sort failed: %v", err)
		sorted = visible
	}
	m.visible = sorted

	rows := make([]table.Row, len(sorted))
	for i, r := range sorted {
		rows[i] = table.Row(columns.Row(r))
	}
	m.table.SetColumns(tableColumns(m.sort))
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m *Model) handleOpen() (tea.Model, tea.Cmd) {
	r, ok := m.Selected()
	if !ok {
		return m, nil
	}
	if err := m.open(r.Name); err != nil {
		m.status = fmt.Sprintf("open failed: %v", err)
	} else {
		m.status = fmt.Sprintf("opened %s", r.Name)
	}
	return m, nil
}

func (m *Model) handleYank() (tea.Model, tea.Cmd) {
	r, ok := m.Selected()
	if !ok {
		return m, nil
	}
	path := m.state.Handler.Path(r.Name)
	if err := m.copyToClipboard(path); err != nil {
		m.status = fmt.Sprintf("copy failed: %v", err)
	} else {
		m.status = fmt.Sprintf("copied %s", path)
	}
	return m, nil
}

// handleGeo derives coordinates for the folders passing the current filter
// and carries them back into the full catalog.
func (m *Model) handleGeo() (tea.Model, tea.Cmd) {
	failures := m.state.Extractor.DeriveAll(m.state.Root, m.visible)

	derived := make(map[string]*catalog.Coordinates, len(m.visible))
	for _, r := range m.visible {
		if r.Coords != nil {
			derived[r.Name] = r.Coords
		}
	}
	for i := range m.all {
		if c, ok := derived[m.all[i].Name]; ok {
			m.all[i].Coords = c
		}
	}

	m.status = fmt.Sprintf("coordinates for %d of %d visible folders", len(derived), len(m.visible))
	if len(failures) > 0 {
		m.status += fmt.Sprintf(", %d unreadable (first: %v)", len(failures), failures[0].Err)
	}
	m.refresh()
	return m, nil
}

func (m *Model) handleExport() (tea.Model, tea.Cmd) {
	path, err := m.exportCSV()
	if err != nil {
		m.status = fmt.Sprintf("export failed: %v", err)
	} else {
		m.status = fmt.Sprintf("exported %d rows to %s", len(m.visible), path)
	}
	return m, nil
}

func (m *Model) exportCSV() (path string, err error) {
	dir := m.state.Workspace.ExportDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path = filepath.Join(dir, fmt.Sprintf("scenecat-%s.csv", m.now().Format("20060102-150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if err := export.WriteCSV(f, m.visible); err != nil {
		return "", err
	}
	return path, nil
}

func tableColumns(sort columns.SortState) []table.Column {
	out := make([]table.Column, len(columns.Names))
	for i, name := range columns.Names {
		title := name
		if name == sort.Column {
			title += " " + arrow(sort.Reverse)
		}
		out[i] = table.Column{Title: title, Width: columns.Width(name)}
	}
	return out
}

func arrow(reverse bool) string {
	if reverse {
		return "▼"
	}
	return "▲"
}
