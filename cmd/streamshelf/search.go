package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/StreamShelf/internal/browse"
	"github.com/vadimtrunov/StreamShelf/internal/core"
)

func newSearchCmd() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search the catalog by title",
		Long:  "Run a single free-text search and print one page of results.",
		Example: `  streamshelf search dark knight
  streamshelf search "rogue one" --page 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if page < 1 {
				return fmt.Errorf("--page must be at least 1")
			}
			query, err := browse.NormalizeQuery(strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("search query must not be blank")
			}
			return runSearch(query, page)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	return cmd
}

func runSearch(query string, page int) error {
	src, _, err := setupSource(false)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p := tea.NewProgram(newSearchModel(ctx, src, query, page))
	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("run search: %w", err)
	}

	sm, ok := m.(searchModel)
	if !ok {
		return fmt.Errorf("unexpected model type from tea program")
	}
	if sm.err != nil {
		return sm.err
	}
	return nil
}

// searchResultMsg carries the search result back to the TUI.
type searchResultMsg struct {
	page *core.CatalogPage
	err  error
}

type searchModel struct {
	ctx     context.Context
	source  core.CatalogSource
	query   string
	pageNum int
	spinner spinner.Model
	result  *core.CatalogPage
	err     error
	done    bool
}

func newSearchModel(ctx context.Context, src core.CatalogSource, query string, page int) searchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo
	return searchModel{
		ctx:     ctx,
		source:  src,
		query:   query,
		pageNum: page,
		spinner: s,
	}
}

func (m searchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runQuery())
}

func (m searchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case searchResultMsg:
		m.result = msg.page
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m searchModel) View() string {
	if m.done {
		if m.err != nil {
			return styleError.Render("Error: "+m.err.Error()) + "\n"
		}
		return renderPage(fmt.Sprintf("Results for %q", m.query), m.result)
	}
	return m.spinner.View() + styleDim.Render(" Searching...") + "\n"
}

func (m searchModel) runQuery() tea.Cmd {
	return func() tea.Msg {
		page, err := m.source.Search(m.ctx, m.query, m.pageNum)
		if err != nil {
			err = fmt.Errorf("search %q: %w", m.query, err)
		}
		return searchResultMsg{page: page, err: err}
	}
}
