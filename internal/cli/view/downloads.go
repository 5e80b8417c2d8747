// Package view renders download tasks in the terminal with Bubble Tea.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ytget/yt-fetch/internal/model"
)

// Bar sizing
const (
	defaultBarWidth = 40
	maxBarWidth     = 80
	barPadding      = 4
	ellipsis        = "…"
)

// TaskUpdateMsg carries a fresh snapshot of one task
type TaskUpdateMsg struct {
	Task model.DownloadTask
}

// TasksAddedMsg reports the tasks a command enqueued, or why it could not
type TasksAddedMsg struct {
	Tasks []model.DownloadTask
	Err   error
}

// OverallMsg carries the combined progress of running downloads
type OverallMsg struct {
	Value float64
}

// Canceller cancels a running task by id
type Canceller interface {
	CancelTask(id string) error
}

// Counts tallies tasks by state
type Counts struct {
	Idle      int
	Active    int
	Succeeded int
	Canceled  int
	Failed    int
}

// Total returns the number of tasks counted
func (c Counts) Total() int {
	return c.Idle + c.Active + c.Succeeded + c.Canceled + c.Failed
}

// Finished returns the number of tasks whose run has ended
func (c Counts) Finished() int {
	return c.Succeeded + c.Canceled + c.Failed
}

type keyMap struct {
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding { return []key.Binding{k.Quit} }

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{{k.Quit}} }

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "cancel downloads and quit"),
		),
	}
}

// DownloadsModel shows one progress bar per task and quits once every task
// has ended. The first quit key cancels running tasks, a second one leaves
// without waiting.
type DownloadsModel struct {
	canceller Canceller
	keys      keyMap
	help      help.Model
	spinner   spinner.Model
	bar       progress.Model

	heading string
	order   []string
	tasks   map[string]model.DownloadTask
	overall float64
	width   int

	loaded     bool
	cancelling bool
	quitting   bool
	err        error
}

var _ tea.Model = DownloadsModel{}

// NewDownloadsModel creates the view. Tasks arrive through TasksAddedMsg and
// TaskUpdateMsg.
func NewDownloadsModel(heading string, canceller Canceller) DownloadsModel {
	return DownloadsModel{
		canceller: canceller,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(subtleStyle)),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(defaultBarWidth)),
		heading:   heading,
		tasks:     make(map[string]model.DownloadTask),
	}
}

// Init implements tea.Model.
func (m DownloadsModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m DownloadsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m.interrupt()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = barWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.loaded {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case OverallMsg:
		m.overall = msg.Value
		return m, nil

	case TaskUpdateMsg:
		m.track(msg.Task)

	case TasksAddedMsg:
		m.loaded = true
		m.err = msg.Err
		for _, task := range msg.Tasks {
			// updates seen before the list arrived are at least as fresh
			if _, seen := m.tasks[task.ID]; !seen {
				m.track(task)
			}
		}
	}
	return m.finishIfDone()
}

// View implements tea.Model.
func (m DownloadsModel) View() string {
	parts := []string{headerStyle.Render(m.headerText())}

	if !m.loaded {
		parts = append(parts, m.spinner.View()+" "+subtleStyle.Render("Preparing downloads..."))
	}
	for _, id := range m.order {
		parts = append(parts, m.renderTask(m.tasks[id]))
	}
	if m.err != nil {
		parts = append(parts, errorStyle.Render("Error: "+m.err.Error()))
	}

	switch {
	case m.quitting:
		parts = append(parts, footerStyle.Render(m.summaryText()))
	case m.cancelling:
		parts = append(parts, footerStyle.Render(warningStyle.Render("Cancelling downloads...")))
	default:
		parts = append(parts, footerStyle.Render(m.help.View(m.keys)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

// Counts tallies the tracked tasks by state
func (m DownloadsModel) Counts() Counts {
	var c Counts
	for _, task := range m.tasks {
		switch task.State {
		case model.TaskStateSucceeded:
			c.Succeeded++
		case model.TaskStateCanceled:
			c.Canceled++
		case model.TaskStateFailed:
			c.Failed++
		case model.TaskStateActive:
			c.Active++
		default:
			c.Idle++
		}
	}
	return c
}

// Err returns the error reported while enqueueing tasks
func (m DownloadsModel) Err() error { return m.err }

// Tasks returns the latest snapshots in the order they were first seen
func (m DownloadsModel) Tasks() []model.DownloadTask {
	tasks := make([]model.DownloadTask, 0, len(m.order))
	for _, id := range m.order {
		tasks = append(tasks, m.tasks[id])
	}
	return tasks
}

// track stores a snapshot unless an already stored one is newer
func (m *DownloadsModel) track(task model.DownloadTask) {
	current, ok := m.tasks[task.ID]
	if !ok {
		m.order = append(m.order, task.ID)
		m.tasks[task.ID] = task
		return
	}
	if isNewer(current, task) {
		m.tasks[task.ID] = task
	}
}

// isNewer orders snapshots of one task: a later run wins, and within a run a
// finished snapshot is never replaced by an active one
func isNewer(current, next model.DownloadTask) bool {
	if next.Runs != current.Runs {
		return next.Runs > current.Runs
	}
	return !(current.State.IsFinished() && next.State.IsActive())
}

func (m DownloadsModel) interrupt() (tea.Model, tea.Cmd) {
	if !m.loaded || m.cancelling {
		m.quitting = true
		return m, tea.Quit
	}
	m.cancelling = true
	for _, id := range m.order {
		if m.tasks[id].State.IsActive() {
			// the task may end on its own before the request lands
			_ = m.canceller.CancelTask(id)
		}
	}
	return m.finishIfDone()
}

func (m DownloadsModel) finishIfDone() (tea.Model, tea.Cmd) {
	if m.loaded && m.Counts().Active == 0 {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m DownloadsModel) headerText() string {
	c := m.Counts()
	text := fmt.Sprintf("%s  %d/%d done", m.heading, c.Finished(), c.Total())
	if c.Active > 0 && m.overall > 0 {
		text += fmt.Sprintf(" · %d%%", int(m.overall*100))
	}
	return text
}

func (m DownloadsModel) summaryText() string {
	c := m.Counts()
	parts := []string{successStyle.Render(fmt.Sprintf("%d succeeded", c.Succeeded))}
	if c.Canceled > 0 {
		parts = append(parts, warningStyle.Render(fmt.Sprintf("%d canceled", c.Canceled)))
	}
	if c.Failed > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("%d failed", c.Failed)))
	}
	return strings.Join(parts, subtleStyle.Render(", "))
}

func (m DownloadsModel) renderTask(task model.DownloadTask) string {
	title := titleStyle.Render(truncate(task.GetDisplayTitle(), m.titleWidth()))
	status := stateStyle(task.State).Render(stateIcon(task.State) + " " + task.State.String())
	format := subtleStyle.Render(strings.ToUpper(task.Format.String()))

	lines := []string{
		fmt.Sprintf("%s %s %s", status, format, title),
		rowStyle.Render(m.bar.ViewAs(fraction(task))),
	}
	if task.State == model.TaskStateFailed && task.FailReason != "" {
		lines = append(lines, rowStyle.Render(errorStyle.Render(task.FailReason)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m DownloadsModel) titleWidth() int {
	if m.width <= 0 {
		return 0
	}
	return max(m.width-barPadding*6, 10)
}

func barWidth(termWidth int) int {
	return min(max(termWidth-barPadding*2, 10), maxBarWidth)
}

func fraction(task model.DownloadTask) float64 {
	if task.State == model.TaskStateSucceeded {
		return 1
	}
	return min(max(task.Progress, 0), 1)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + ellipsis
}

func stateIcon(state model.TaskState) string {
	switch state {
	case model.TaskStateSucceeded:
		return "✓"
	case model.TaskStateCanceled:
		return "■"
	case model.TaskStateFailed:
		return "✗"
	case model.TaskStateActive:
		return "↓"
	default:
		return "·"
	}
}

func stateStyle(state model.TaskState) lipgloss.Style {
	switch state {
	case model.TaskStateSucceeded:
		return successStyle
	case model.TaskStateCanceled:
		return warningStyle
	case model.TaskStateFailed:
		return errorStyle
	default:
		return subtleStyle
	}
}
