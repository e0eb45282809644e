package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/homerelay/homerelay/internal/config"
	"github.com/homerelay/homerelay/internal/core"
)

// newBrowseCmd returns the "browse" subcommand for the interactive section browser.
func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse sections interactively",
		Long: "Browse home sections in an interactive terminal UI.\n" +
			"Use arrow keys to navigate, Enter to request the selected item, q to quit.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBrowse()
		},
	}
}

// runBrowse initializes the loader and starts the Bubble Tea browser TUI.
func runBrowse() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger := config.SetupLogger(cfg.App.LogLevel)
	loader := initLoader(cfg, logger)
	if !loader.IsConfigured() {
		fmt.Println(styleDim.Render("No services configured. Set jellyseerr, radarr or sonarr in the config file."))
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p := tea.NewProgram(newBrowseModel(ctx, loader), tea.WithAltScreen())

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

// sectionsLoadedMsg carries the loaded sections back to the TUI.
type sectionsLoadedMsg struct {
	sections []core.Section
}

// requestDoneMsg carries the outcome of a request action back to the TUI.
type requestDoneMsg struct {
	item     core.SectionItem
	accepted bool
}

// browseModel is the Bubble Tea model for the section browser.
type browseModel struct {
	ctx      context.Context
	loader   core.SectionLoader
	spinner  spinner.Model
	sections []core.Section
	secIdx   int
	itemIdx  int
	status   string
	loading  bool
	busy     bool
	width    int
	height   int
}

func newBrowseModel(ctx context.Context, loader core.SectionLoader) browseModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo

	return browseModel{
		ctx:     ctx,
		loader:  loader,
		spinner: s,
		loading: true,
	}
}

// Init starts the spinner and kicks off the initial section load.
func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadSections())
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sectionsLoadedMsg:
		m.loading = false
		m.sections = msg.sections
		m.secIdx = 0
		m.itemIdx = 0
		if len(m.sections) == 0 {
			m.status = "No sections available. Are your services reachable?"
		}
		return m, nil

	case requestDoneMsg:
		m.busy = false
		if msg.accepted {
			m.status = fmt.Sprintf("Requested %s.", msg.item.Name)
			m.markRequested(msg.item)
		} else {
			m.status = fmt.Sprintf("Could not request %s.", msg.item.Name)
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	return m, nil
}

// handleKey processes navigation and request keys.
func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "r":
		if !m.loading && !m.busy {
			m.loading = true
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.loadSections())
		}
	case "left", "h":
		if m.secIdx > 0 {
			m.secIdx--
			m.itemIdx = 0
		}
	case "right", "l", "tab":
		if m.secIdx < len(m.sections)-1 {
			m.secIdx++
			m.itemIdx = 0
		}
	case "up", "k":
		if m.itemIdx > 0 {
			m.itemIdx--
		}
	case "down", "j":
		if sec := m.currentSection(); sec != nil && m.itemIdx < len(sec.Items)-1 {
			m.itemIdx++
		}
	case "enter":
		return m.handleRequest()
	}
	return m, nil
}

// handleRequest submits the selected item when it is requestable.
func (m browseModel) handleRequest() (tea.Model, tea.Cmd) {
	if m.loading || m.busy {
		return m, nil
	}
	item, ok := m.currentItem()
	if !ok {
		return m, nil
	}
	if !item.Requestable {
		m.status = fmt.Sprintf("%s cannot be requested.", item.Name)
		return m, nil
	}
	m.busy = true
	m.status = ""
	return m, tea.Batch(m.spinner.Tick, m.requestItem(item))
}

// markRequested flips the selected item to non-requestable after a successful
// request so Enter cannot submit it twice.
func (m *browseModel) markRequested(item core.SectionItem) {
	for si := range m.sections {
		for ii := range m.sections[si].Items {
			if m.sections[si].Items[ii].ID == item.ID && m.sections[si].Items[ii].MediaType == item.MediaType {
				m.sections[si].Items[ii].Requestable = false
			}
		}
	}
}

func (m browseModel) currentSection() *core.Section {
	if m.secIdx < 0 || m.secIdx >= len(m.sections) {
		return nil
	}
	return &m.sections[m.secIdx]
}

func (m browseModel) currentItem() (core.SectionItem, bool) {
	sec := m.currentSection()
	if sec == nil || m.itemIdx < 0 || m.itemIdx >= len(sec.Items) {
		return core.SectionItem{}, false
	}
	return sec.Items[m.itemIdx], true
}

func (m browseModel) View() string {
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")).Render("HomeRelay"))
	sb.WriteString("\n\n")

	if m.loading {
		sb.WriteString(m.spinner.View())
		sb.WriteString(styleDim.Render(" Loading sections..."))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(m.renderTabs())
	sb.WriteString("\n\n")
	sb.WriteString(m.renderItems())
	sb.WriteString("\n")

	if m.busy {
		sb.WriteString(m.spinner.View())
		sb.WriteString(styleDim.Render(" Submitting request..."))
		sb.WriteString("\n")
	} else if m.status != "" {
		sb.WriteString(styleDim.Render(m.status))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(styleDim.Render("←/→ sections  ↑/↓ items  enter request  r reload  q quit"))
	sb.WriteString("\n")
	return sb.String()
}

// renderTabs renders the section headings with the active one highlighted.
func (m browseModel) renderTabs() string {
	if len(m.sections) == 0 {
		return styleDim.Render("No sections")
	}
	parts := make([]string, 0, len(m.sections))
	for i, sec := range m.sections {
		title := sec.DisplayTitle()
		if i == m.secIdx {
			parts = append(parts, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")).Render(title))
		} else {
			parts = append(parts, styleDim.Render(title))
		}
	}
	return strings.Join(parts, styleDim.Render("  │  "))
}

// renderItems renders the active section's item list with a cursor.
func (m browseModel) renderItems() string {
	sec := m.currentSection()
	if sec == nil || len(sec.Items) == 0 {
		return styleDim.Render("  (empty)")
	}

	var sb strings.Builder
	for i, item := range sec.Items {
		cursor := "  "
		nameStyle := lipgloss.NewStyle()
		if i == m.itemIdx {
			cursor = styleInfo.Render("> ")
			nameStyle = nameStyle.Bold(true)
		}
		sb.WriteString(cursor)
		sb.WriteString(nameStyle.Render(item.Name))
		if item.Year > 0 {
			sb.WriteString(styleDim.Render(fmt.Sprintf(" (%d)", item.Year)))
		}
		if badge := browseBadge(item); badge != "" {
			sb.WriteString("  ")
			sb.WriteString(badge)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// browseBadge returns a short state marker for the item list.
func browseBadge(item core.SectionItem) string {
	switch {
	case item.InLibrary:
		return styleSuccess.Render("✓ in library")
	case item.Requestable:
		return styleInfo.Render("requestable")
	default:
		return styleDim.Render("requested")
	}
}

// loadSections returns a command that loads home sections asynchronously.
func (m browseModel) loadSections() tea.Cmd {
	return func() tea.Msg {
		return sectionsLoadedMsg{sections: m.loader.LoadHomeSections(m.ctx)}
	}
}

// requestItem returns a command that submits a media request asynchronously.
func (m browseModel) requestItem(item core.SectionItem) tea.Cmd {
	return func() tea.Msg {
		return requestDoneMsg{item: item, accepted: m.loader.RequestItem(m.ctx, item)}
	}
}
