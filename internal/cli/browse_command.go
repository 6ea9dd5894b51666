package cli

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"readvideo/internal/config"
	"readvideo/internal/model"
	"readvideo/internal/store"
)

type browseTarget struct {
	Dir     string
	Name    string
	Record  model.StatusRecord
	Catalog model.CatalogSnapshot
	HasCat  bool
	Summary model.BatchSummary
	HasSum  bool
}

type browseModel struct {
	root    string
	targets []browseTarget
	cursor  int
	width   int
	height  int

	filtering bool
	filter    textinput.Model

	statusMessage string
	fatalErr      error
}

func (m browseModel) visibleTargets() []browseTarget {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if query == "" {
		return m.targets
	}
	out := make([]browseTarget, 0, len(m.targets))
	for _, t := range m.targets {
		if strings.Contains(strings.ToLower(t.Name), query) {
			out = append(out, t)
		}
	}
	return out
}

type browseLoadedMsg struct {
	targets []browseTarget
	err     error
}

var (
	browseTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	browseMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	browseErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	browsePanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	browseSelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
)

func runBrowse(args []string) error {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultPath(), "config file path")
	outputDir := fs.String("output", "", "output directory (default from config)")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !stdinIsTTY() {
		return errors.New("browse requires an interactive terminal (TTY)")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	root := cfg.OutputDir
	if strings.TrimSpace(*outputDir) != "" {
		root = strings.TrimSpace(*outputDir)
	}

	filter := textinput.New()
	filter.Placeholder = "filter targets"
	filter.CharLimit = 64
	m := browseModel{root: root, filter: filter}
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "tty") {
			return errors.New("browse requires an interactive terminal (TTY)")
		}
		return err
	}
	if fm, ok := finalModel.(browseModel); ok {
		return fm.fatalErr
	}
	return nil
}

func loadTargetsCmd(root string) tea.Cmd {
	return func() tea.Msg {
		dirs, err := store.ListTargetDirs(root)
		if err != nil {
			return browseLoadedMsg{err: err}
		}
		targets := make([]browseTarget, 0, len(dirs))
		for _, dir := range dirs {
			status, err := store.OpenStatus(dir)
			if err != nil {
				return browseLoadedMsg{err: err}
			}
			t := browseTarget{
				Dir:    dir,
				Name:   filepath.Base(dir),
				Record: status.Record(),
			}
			if cat, err := store.LoadCatalogSnapshot(dir); err == nil {
				t.Catalog = cat
				t.HasCat = true
			}
			if sum, err := store.LoadSummary(dir); err == nil {
				t.Summary = sum
				t.HasSum = true
			}
			targets = append(targets, t)
		}
		return browseLoadedMsg{targets: targets}
	}
}

func (m browseModel) Init() tea.Cmd {
	return loadTargetsCmd(m.root)
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case browseLoadedMsg:
		if msg.err != nil {
			m.fatalErr = msg.err
			return m, tea.Quit
		}
		m.targets = msg.targets
		if visible := m.visibleTargets(); m.cursor > len(visible)-1 {
			m.cursor = maxInt(len(visible)-1, 0)
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filtering {
		switch keyMsg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.filtering = false
			m.filter.SetValue("")
			m.filter.Blur()
			m.cursor = 0
			return m, nil
		case "enter":
			m.filtering = false
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(keyMsg)
		m.cursor = 0
		return m, cmd
	}

	visible := m.visibleTargets()
	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "/":
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink
	case "esc":
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.cursor = 0
		}
	case "r":
		m.statusMessage = "refreshed"
		return m, loadTargetsCmd(m.root)
	}
	return m, nil
}

func (m browseModel) View() string {
	if m.fatalErr != nil {
		return browseErrorStyle.Render("fatal: " + m.fatalErr.Error())
	}
	if m.width <= 0 {
		m.width = 100
	}
	if m.height <= 0 {
		m.height = 30
	}

	header := browseTitleStyle.Render("readvideo browse") + "\n" +
		browseMutedStyle.Render("up/down: move | /: filter | r: refresh | q: quit")
	if m.filtering || m.filter.Value() != "" {
		header += "\n" + m.filter.View()
	}

	if m.width < 90 {
		body := lipgloss.JoinVertical(lipgloss.Left, m.renderListPanel(m.width), m.renderDetailsPanel(m.width))
		return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderStatusLine(m.width))
	}

	leftW := clampInt(m.width/2, 34, 56)
	rightW := m.width - leftW - 1
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderListPanel(leftW), m.renderDetailsPanel(rightW))
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderStatusLine(m.width))
}

func (m browseModel) renderListPanel(width int) string {
	visible := m.visibleTargets()
	total := len(visible)
	maxRows := clampInt(m.height-12, 4, 20)
	start, end := listWindow(total, m.cursor, maxRows)

	lines := make([]string, 0, maxRows+2)
	if total == 0 {
		if len(m.targets) > 0 {
			lines = append(lines, browseMutedStyle.Render("No targets match the filter."))
		} else {
			lines = append(lines, browseMutedStyle.Render("No batch targets yet."))
			lines = append(lines, browseMutedStyle.Render("Run: readvideo channel @somechannel"))
		}
	}
	if start > 0 {
		lines = append(lines, browseMutedStyle.Render("..."))
	}
	for i := start; i < end; i++ {
		t := visible[i]
		line := fmt.Sprintf("%s  %d/%d/%d", t.Name,
			len(t.Record.Completed), len(t.Record.Failed), len(t.Record.Skipped))
		line = truncateRunes(line, maxInt(width-6, 10))
		if i == m.cursor {
			line = browseSelStyle.Width(maxInt(width-4, 6)).Render(line)
		}
		lines = append(lines, line)
	}
	if end < total {
		lines = append(lines, browseMutedStyle.Render("..."))
	}

	return browsePanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m browseModel) renderDetailsPanel(width int) string {
	visible := m.visibleTargets()
	lines := []string{}
	if len(visible) == 0 || m.cursor >= len(visible) {
		lines = append(lines, "No target selected")
	} else {
		t := visible[m.cursor]
		lines = append(lines, "Target Details")
		lines = append(lines, "")
		lines = append(lines, kv("directory", t.Dir))
		lines = append(lines, kv("completed", strconv.Itoa(len(t.Record.Completed))))
		lines = append(lines, kv("failed", strconv.Itoa(len(t.Record.Failed))))
		lines = append(lines, kv("skipped", strconv.Itoa(len(t.Record.Skipped))))
		lines = append(lines, kv("last_update", defaultIfEmpty(t.Record.LastUpdate, "(never)")))
		if t.HasCat {
			lines = append(lines, kv("catalog_items", strconv.Itoa(t.Catalog.TotalItems)))
			lines = append(lines, kv("enumerated_at", t.Catalog.GeneratedAt))
		}
		if t.HasSum {
			lines = append(lines, kv("last_run", t.Summary.RunID))
			lines = append(lines, kv("last_run_finished", t.Summary.FinishedAt))
		}
		if len(t.Record.Failed) > 0 {
			lines = append(lines, "")
			lines = append(lines, "Failed items:")
			show := t.Record.Failed
			if len(show) > 8 {
				show = show[:8]
			}
			for _, id := range show {
				lines = append(lines, "  - "+id)
			}
			if len(t.Record.Failed) > 8 {
				lines = append(lines, browseMutedStyle.Render(fmt.Sprintf("  ... and %d more", len(t.Record.Failed)-8)))
			}
		}
	}

	for i := range lines {
		lines[i] = wrapOrTrim(lines[i], maxInt(width-6, 12))
	}
	return browsePanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m browseModel) renderStatusLine(width int) string {
	msg := strings.TrimSpace(m.statusMessage)
	if msg == "" {
		msg = "Tip: rerun a channel/user command to retry failed items."
	}
	return browseMutedStyle.Width(width).Render(truncateRunes(msg, maxInt(width-2, 10)))
}
