package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/StreamShelf/internal/browse"
	"github.com/vadimtrunov/StreamShelf/internal/config"
	"github.com/vadimtrunov/StreamShelf/internal/core"
)

// newBrowseCmd returns the "browse" subcommand for the interactive catalog TUI.
func newBrowseCmd() *cobra.Command {
	var shows bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Long: "Browse curated listings in an interactive terminal UI.\n" +
			"tab/shift+tab switch listings, / filters the loaded page, enter in the\n" +
			"filter searches the whole catalog, enter selects, esc clears, q quits.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBrowse(shows)
		},
	}
	cmd.Flags().BoolVar(&shows, "shows", false, "browse TV shows (fixture catalog only)")
	return cmd
}

// runBrowse initializes the catalog source and starts the Bubble Tea browser.
func runBrowse(shows bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal; log output would corrupt it.
	logger := config.SetupLogger(cfg.App.LogLevel, io.Discard)
	src, err := initSource(cfg, shows, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p := tea.NewProgram(newBrowseModel(ctx, browse.NewSession(src, logger)), tea.WithAltScreen())

	// Bridge OS signal cancellation into the Bubble Tea event loop.
	go func() {
		<-ctx.Done()
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browse: %w", err)
	}
	return nil
}

// Messages delivered by asynchronous catalog calls.
type (
	listLoadedMsg struct {
		tab   int
		items []core.CatalogItem
		err   error
	}
	searchDoneMsg struct {
		query string
		items []core.CatalogItem
		err   error
	}
	genresLoadedMsg struct {
		genres []core.Genre
	}
	itemSelectedMsg struct {
		item core.CatalogItem
		err  error
	}
)

// browseModel is the Bubble Tea model for the catalog browser.
type browseModel struct {
	ctx       context.Context
	session   *browse.Session
	tabs      []browse.Category
	tab       int // len(tabs) is the search results tab
	searched  string
	items     []core.CatalogItem
	visible   []core.CatalogItem
	cursor    int
	genres    []core.Genre
	filter    textinput.Model
	filtering bool
	detail    viewport.Model
	spinner   spinner.Model
	loading   bool
	status    string
	width     int
	height    int
	ready     bool
}

// newBrowseModel creates a browseModel positioned on the first listing.
func newBrowseModel(ctx context.Context, s *browse.Session) browseModel {
	ti := textinput.New()
	ti.Placeholder = "filter titles, enter to search the catalog"
	ti.Prompt = "/ "
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleInfo

	return browseModel{
		ctx:     ctx,
		session: s,
		tabs:    browse.Categories(),
		filter:  ti,
		spinner: sp,
		loading: true,
	}
}

// Init loads the first listing and the genre list.
func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.loadTab(m.tab), m.loadGenres(), m.spinner.Tick)
}

// searchTab reports whether the search results tab is active.
func (m browseModel) searchTab() bool {
	return m.tab == len(m.tabs)
}

// Update handles incoming messages and user input.
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg)
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKey(msg)
		}
		return m.handleKey(msg)

	case listLoadedMsg:
		// Results for a tab the user already left are dropped.
		if msg.tab != m.tab {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.setItems(msg.items)
		m.status = ""
		return m, nil

	case searchDoneMsg:
		if errors.Is(msg.err, browse.ErrSuperseded) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.tab = len(m.tabs)
		m.searched = msg.query
		m.setItems(msg.items)
		m.status = fmt.Sprintf("%d results for %q", len(msg.items), msg.query)
		return m, nil

	case genresLoadedMsg:
		m.genres = msg.genres
		m.refreshDetail()
		return m, nil

	case itemSelectedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.status = ""
		m.refreshDetail()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.ready {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleResize adjusts the detail pane on terminal resize.
func (m *browseModel) handleResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	w, h := m.detailSize()
	if !m.ready {
		m.detail = viewport.New(w, h)
		m.detail.KeyMap = viewport.KeyMap{
			PageDown: key.NewBinding(key.WithKeys("pgdown")),
			PageUp:   key.NewBinding(key.WithKeys("pgup")),
		}
		m.ready = true
	} else {
		m.detail.Width = w
		m.detail.Height = h
	}
	m.filter.Width = m.width - 4
	m.refreshDetail()
}

// chromeHeight is the number of lines used by title, tabs, status and help.
const chromeHeight = 6

func (m browseModel) bodyHeight() int {
	return max(m.height-chromeHeight, 1)
}

func (m browseModel) listWidth() int {
	return max(m.width*45/100, 20)
}

func (m browseModel) detailSize() (int, int) {
	return max(m.width-m.listWidth()-3, 10), m.bodyHeight()
}

// handleKey dispatches key events in navigation mode.
func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab", "right", "l":
		if m.searchTab() {
			return m.switchTab(0)
		}
		return m.switchTab((m.tab + 1) % len(m.tabs))
	case "shift+tab", "left", "h":
		if m.searchTab() {
			return m.switchTab(len(m.tabs) - 1)
		}
		return m.switchTab((m.tab + len(m.tabs) - 1) % len(m.tabs))
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
		return m, nil
	case "/":
		m.filtering = true
		m.filter.SetValue("")
		return m, m.filter.Focus()
	case "enter":
		if len(m.visible) == 0 {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.selectItem(m.visible[m.cursor].ID), m.spinner.Tick)
	case "esc":
		m.session.Clear()
		m.visible = m.items
		m.cursor = min(m.cursor, max(len(m.visible)-1, 0))
		m.status = ""
		m.refreshDetail()
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// handleFilterKey handles keys while the filter input is focused.
func (m browseModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.visible = m.items
		m.cursor = 0
		return m, nil
	case "enter":
		query := m.filter.Value()
		m.filtering = false
		m.filter.Blur()
		if _, err := browse.NormalizeQuery(query); err != nil {
			m.visible = m.items
			return m, nil
		}
		m.loading = true
		m.status = fmt.Sprintf("Searching for %q...", strings.TrimSpace(query))
		return m, tea.Batch(m.search(query), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter narrows the loaded page to the current filter text. It leaves
// the session's search state alone, so a remote search in flight survives.
func (m *browseModel) applyFilter() {
	q, err := browse.NormalizeQuery(m.filter.Value())
	if err != nil {
		// Blank filter shows everything.
		m.visible = m.items
	} else {
		m.visible = browse.FilterByQuery(m.items, q)
	}
	m.cursor = 0
}

func (m browseModel) switchTab(tab int) (tea.Model, tea.Cmd) {
	m.tab = tab
	m.loading = true
	m.status = ""
	m.setItems(nil)
	return m, tea.Batch(m.loadTab(tab), m.spinner.Tick)
}

func (m *browseModel) setItems(items []core.CatalogItem) {
	m.items = items
	m.visible = items
	m.cursor = 0
}

func (m *browseModel) refreshDetail() {
	if !m.ready {
		return
	}
	item, ok := m.session.Selected()
	if !ok {
		m.detail.SetContent(styleDim.Render("Select a title with enter to see its details."))
		return
	}
	w, _ := m.detailSize()
	m.detail.SetContent(lipgloss.NewStyle().Width(w).Render(renderDetail(item, m.genres)))
	m.detail.GotoTop()
}

// View renders tabs, the item list, the detail pane and the help line.
func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("5")).
		Render("StreamShelf · " + m.session.Source().Name())

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.listWidth()).Render(m.renderList()),
		"   ",
		m.detail.View(),
	)

	var footer string
	switch {
	case m.filtering:
		footer = m.filter.View()
	case m.loading:
		footer = m.spinner.View() + styleDim.Render(" Loading...")
	case strings.HasPrefix(m.status, "Error"):
		footer = styleError.Render(m.status)
	default:
		footer = styleDim.Render(m.status)
	}

	help := styleDim.Render("tab switch · ↑/↓ move · enter select · / filter · esc clear · q quit")

	return title + "\n" + m.renderTabs() + "\n\n" + body + "\n" + footer + "\n" + help
}

func (m browseModel) renderTabs() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Underline(true)
	labels := make([]string, 0, len(m.tabs)+1)
	for i, c := range m.tabs {
		if i == m.tab {
			labels = append(labels, active.Render(c.Title()))
		} else {
			labels = append(labels, styleDim.Render(c.Title()))
		}
	}
	if m.searchTab() {
		labels = append(labels, active.Render("Search: "+m.searched))
	}
	return strings.Join(labels, "  ")
}

// renderList renders the visible items, scrolled so the cursor stays on screen.
func (m browseModel) renderList() string {
	if len(m.visible) == 0 {
		if m.loading {
			return ""
		}
		return styleDim.Render("No titles.")
	}

	height := m.bodyHeight()
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := min(start+height, len(m.visible))

	selected, hasSelection := m.session.Selected()
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)

	var sb strings.Builder
	for i := start; i < end; i++ {
		item := m.visible[i]
		prefix := "  "
		if hasSelection && selected.ID == item.ID {
			prefix = "• "
		}
		line := fmt.Sprintf("%s%s  %s", prefix, item.Title, styleRating.Render("★ "+item.Rating()))
		if i == m.cursor {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		if i < end-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m browseModel) loadTab(tab int) tea.Cmd {
	if tab >= len(m.tabs) {
		return nil
	}
	category := m.tabs[tab]
	return func() tea.Msg {
		page, err := category.Fetch(m.ctx, m.session.Source(), 1)
		if err != nil {
			return listLoadedMsg{tab: tab, err: err}
		}
		return listLoadedMsg{tab: tab, items: page.Results}
	}
}

func (m browseModel) loadGenres() tea.Cmd {
	return func() tea.Msg {
		genres, err := m.session.Source().Genres(m.ctx)
		if err != nil {
			// Details render without genre names.
			return genresLoadedMsg{}
		}
		return genresLoadedMsg{genres: genres}
	}
}

func (m browseModel) search(query string) tea.Cmd {
	return func() tea.Msg {
		items, err := m.session.Search(m.ctx, query)
		return searchDoneMsg{query: strings.TrimSpace(query), items: items, err: err}
	}
}

func (m browseModel) selectItem(id int) tea.Cmd {
	return func() tea.Msg {
		item, err := m.session.SelectByID(m.ctx, id)
		return itemSelectedMsg{item: item, err: err}
	}
}
