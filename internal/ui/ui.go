package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fax1015/mosu-cli/internal/models"
	"github.com/fax1015/mosu-cli/internal/repositories"
	"github.com/fax1015/mosu-cli/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LibraryListView ViewState = iota
	DetailView
)

// highlightBarWidth is the rendered width of the detail view's range bar.
const highlightBarWidth = 60

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	repo     *repositories.ItemRepository
	width    int
	height   int
	mapList  list.Model
	items    []*models.Item
	selected *models.Item
	err      error
	help     help.Model
	keys     keyMap
}

type itemsFetchedMsg struct {
	items []*models.Item
	err   error
}

type itemToggledMsg struct {
	item *models.Item
	err  error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, repo *repositories.ItemRepository) *Model {
	return &Model{
		ctx:  ctx,
		view: LibraryListView,
		repo: repo,
		help: help.New(),
		keys: newKeyMap(),
	}
}

// Init initializes the TUI by loading the library.
func (m *Model) Init() tea.Cmd {
	return m.fetchItems()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.mapList.Width() == 0 {
			m.mapList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LibraryListView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case itemsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.items = msg.items
		listItems := make([]list.Item, len(msg.items))
		for i, item := range msg.items {
			listItems[i] = mapListItem{item: item}
		}
		m.mapList = list.New(listItems, list.NewDefaultDelegate(), 0, 0)
		m.mapList.Title = "Beatmap Library"
		m.mapList.SetSize(m.width-4, m.height-8)
		return m, nil

	case itemToggledMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.selected = msg.item
		return m, m.fetchItems()
	}

	var cmd tea.Cmd
	m.mapList, cmd = m.mapList.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LibraryListView:
		return m.renderList()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		if m.mapList.FilterState() != list.Filtering {
			return m, tea.Quit
		}
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.mapList.SelectedItem().(mapListItem); ok {
			m.selected = selected.item
			m.view = DetailView
			return m, nil
		}
	case key.Matches(msg, m.keys.toggle):
		if m.mapList.FilterState() != list.Filtering {
			if selected, ok := m.mapList.SelectedItem().(mapListItem); ok {
				return m, m.toggleDone(selected.item)
			}
		}
	}

	var cmd tea.Cmd
	m.mapList, cmd = m.mapList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = LibraryListView
		m.selected = nil
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		if m.selected != nil {
			return m, m.toggleDone(m.selected)
		}
	}
	return m, nil
}

func (m *Model) fetchItems() tea.Cmd {
	return func() tea.Msg {
		items, err := m.repo.List(nil)
		return itemsFetchedMsg{items: items, err: err}
	}
}

func (m *Model) toggleDone(item *models.Item) tea.Cmd {
	return func() tea.Msg {
		item.SetDone(!item.Done())
		if err := m.repo.Update(item); err != nil {
			return itemToggledMsg{err: err}
		}
		return itemToggledMsg{item: item}
	}
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.toggle, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.mapList.View(), helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return styles.err.Render("No map selected")
	}

	meta := m.selected.Metadata()
	title := styles.title.Render(m.selected.DisplayName())

	status := shared.StatusString(m.selected.Done())
	if m.selected.Done() {
		status = styles.ok.Render(status)
	} else {
		status = styles.warn.Render(status)
	}

	info := fmt.Sprintf(
		"Creator: %s\nMode: %d\nDuration: %s\nStatus: %s\n",
		meta.Creator,
		meta.Mode,
		shared.FormatDuration(m.selected.DurationMS()),
		status,
	)
	if m.selected.Tags() != "" {
		info += fmt.Sprintf("Tags: %s\n", m.selected.Tags())
	}
	if meta.BeatmapSetID != "" && meta.BeatmapSetID != "Unknown" {
		info += fmt.Sprintf("Set: %s\n", meta.BeatmapSetID)
	}

	bar := renderHighlightBar(m.selected.Highlights(), highlightBarWidth)

	helpKeys := []key.Binding{m.keys.back, m.keys.toggle, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, info, bar, helpView)
}
