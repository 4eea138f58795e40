package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/auth"
	"taskboard/internal/board"
	"taskboard/internal/models"
	"taskboard/internal/repository"
)

type tasksLoadedMsg struct{}
type boardChangedMsg struct{}

type boardView struct {
	project models.Project
	engine  *board.Engine
	gate    *auth.Gate
	styles  *styles

	colCursor int
	rowCursor int
	width     int
	err       error
	loading   bool
	creating  bool
	deleting  bool
	newTitle  textinput.Model
}

func newBoardView(project models.Project, tasks repository.TaskRepository, gate *auth.Gate) *boardView {
	newTitle := textinput.New()
	newTitle.Placeholder = "Название задачи"
	newTitle.CharLimit = 100

	return &boardView{
		project:  project,
		engine:   board.NewEngine(project.ID, tasks, gate),
		gate:     gate,
		styles:   newStyles(),
		newTitle: newTitle,
		loading:  true,
		width:    96,
	}
}

func (v *boardView) Init() tea.Cmd {
	return v.load
}

func (v *boardView) load() tea.Msg {
	ctx, cancel := opCtx()
	defer cancel()

	if _, err := v.engine.LoadTasks(ctx); err != nil {
		return errMsg{err}
	}
	return tasksLoadedMsg{}
}

func (v *boardView) addTask(title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()

		task := models.Task{
			Title:  title,
			Status: models.StatusTodo,
		}
		if err := v.engine.AddTask(ctx, task); err != nil {
			return errMsg{err}
		}
		return boardChangedMsg{}
	}
}

func (v *boardView) deleteSelected() tea.Cmd {
	task, ok := v.selectedTask()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()

		if err := v.engine.DeleteTask(ctx, task.ID); err != nil {
			return errMsg{err}
		}
		return boardChangedMsg{}
	}
}

// moveAcross переносит выбранную карточку в соседнюю колонку
// на текущую строку курсора.
func (v *boardView) moveAcross(dir int) tea.Cmd {
	task, ok := v.selectedTask()
	if !ok {
		return nil
	}

	cols := models.Statuses()
	destCol := v.colCursor + dir
	if destCol < 0 || destCol >= len(cols) {
		return nil
	}

	from := cols[v.colCursor]
	to := cols[destCol]
	destIndex := min(v.rowCursor, len(v.engine.ColumnTasks(to)))

	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()

		if err := v.engine.MoveTask(ctx, task.ID, from, to, destIndex); err != nil {
			return errMsg{err}
		}
		return boardChangedMsg{}
	}
}

func (v *boardView) moveWithin(dir int) tea.Cmd {
	task, ok := v.selectedTask()
	if !ok {
		return nil
	}

	status := models.Statuses()[v.colCursor]
	destIndex := v.rowCursor + dir
	column := v.engine.ColumnTasks(status)
	if destIndex < 0 || destIndex >= len(column) {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()

		if err := v.engine.MoveTask(ctx, task.ID, status, status, destIndex); err != nil {
			return errMsg{err}
		}
		return boardChangedMsg{}
	}
}

func (v *boardView) selectedTask() (models.Task, bool) {
	column := v.engine.ColumnTasks(models.Statuses()[v.colCursor])
	if v.rowCursor >= len(column) {
		return models.Task{}, false
	}
	return column[v.rowCursor], true
}

func (v *boardView) clampRow() {
	column := v.engine.ColumnTasks(models.Statuses()[v.colCursor])
	if v.rowCursor >= len(column) {
		v.rowCursor = max(len(column)-1, 0)
	}
}

func (v *boardView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		return nil

	case tasksLoadedMsg:
		v.loading = false
		v.err = nil
		v.clampRow()
		return nil

	case boardChangedMsg:
		v.err = nil
		v.clampRow()
		return nil

	case errMsg:
		v.err = msg.err
		v.loading = false
		return nil

	case tea.KeyMsg:
		if v.creating {
			switch msg.String() {
			case "esc":
				v.creating = false
				return nil
			case "enter":
				title := strings.TrimSpace(v.newTitle.Value())
				v.creating = false
				v.newTitle.SetValue("")
				if title == "" {
					return nil
				}
				return v.addTask(title)
			}
			var cmd tea.Cmd
			v.newTitle, cmd = v.newTitle.Update(msg)
			return cmd
		}

		if v.deleting {
			v.deleting = false
			if msg.String() == "y" {
				return v.deleteSelected()
			}
			return nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return tea.Quit
		case "esc":
			return func() tea.Msg { return backToProjectsMsg{} }
		case "left", "h":
			if v.colCursor > 0 {
				v.colCursor--
				v.clampRow()
			}
		case "right", "l":
			if v.colCursor < len(models.Statuses())-1 {
				v.colCursor++
				v.clampRow()
			}
		case "up", "k":
			if v.rowCursor > 0 {
				v.rowCursor--
			}
		case "down", "j":
			column := v.engine.ColumnTasks(models.Statuses()[v.colCursor])
			if v.rowCursor < len(column)-1 {
				v.rowCursor++
			}
		case "H", "shift+left":
			return v.moveAcross(-1)
		case "L", "shift+right":
			return v.moveAcross(1)
		case "K":
			cmd := v.moveWithin(-1)
			if cmd != nil {
				v.rowCursor--
			}
			return cmd
		case "J":
			cmd := v.moveWithin(1)
			if cmd != nil {
				v.rowCursor++
			}
			return cmd
		case "n":
			if !v.gate.Authenticated() {
				v.err = board.ErrReadOnly
				return nil
			}
			v.creating = true
			v.newTitle.Focus()
			return textinput.Blink
		case "x":
			if !v.gate.Authenticated() {
				v.err = board.ErrReadOnly
				return nil
			}
			if _, ok := v.selectedTask(); ok {
				v.deleting = true
			}
		case "r":
			v.loading = true
			return v.load
		}
	}
	return nil
}

var columnTitles = map[models.Status]string{
	models.StatusTodo:       "К выполнению",
	models.StatusInProgress: "В работе",
	models.StatusDone:       "Готово",
}

func (v *boardView) View() string {
	var b strings.Builder

	metrics := v.engine.Metrics(time.Now())
	header := fmt.Sprintf("%s  %s  %d%%  (%d/%d, просрочено: %d)",
		v.styles.Title.Render(v.project.Title),
		statusBadge(metrics, v.styles),
		metrics.Progress,
		metrics.DoneTasks,
		metrics.TotalTasks,
		metrics.OverdueTasks,
	)
	b.WriteString(header + "\n\n")

	if v.loading {
		b.WriteString(v.styles.Subtle.Render("Загрузка...") + "\n")
		return b.String()
	}

	colWidth := max(v.width/3-4, 24)
	now := time.Now()
	columns := make([]string, 0, 3)
	for ci, status := range models.Statuses() {
		columns = append(columns, v.renderColumn(ci, status, colWidth, now))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columns...) + "\n")

	if v.creating {
		b.WriteString("\n" + v.styles.InputLabel.Render("Новая задача:") + " " + v.newTitle.View() + "\n")
	}
	if v.deleting {
		b.WriteString("\n" + v.styles.Warning.Render("Удалить задачу? y/n") + "\n")
	}
	if v.err != nil {
		b.WriteString("\n" + v.styles.Error.Render(v.err.Error()) + "\n")
	}

	b.WriteString("\n" + v.styles.StatusBar.Render("hjkl — навигация · H/L — перенос между колонками · J/K — порядок · n — новая · x — удалить · esc — назад"))
	return b.String()
}

func (v *boardView) renderColumn(ci int, status models.Status, width int, now time.Time) string {
	tasks := v.engine.ColumnTasks(status)

	var b strings.Builder
	b.WriteString(v.styles.ColumnHeader.Render(fmt.Sprintf("%s (%d)", columnTitles[status], len(tasks))) + "\n")

	for ri, t := range tasks {
		line := truncate(t.Title, width-4)

		if done, total := board.SubtaskProgress(t); total > 0 {
			line += v.styles.Subtle.Render(fmt.Sprintf(" [%d/%d]", done, total))
		}
		if t.Deadline != nil && t.Status != models.StatusDone && t.Deadline.Before(now) {
			line += v.styles.Error.Render(" !")
		}
		for _, label := range t.Labels {
			line += " " + v.styles.Subtle.Render("#"+models.LabelName(label))
		}

		if ci == v.colCursor && ri == v.rowCursor {
			b.WriteString(v.styles.CardSelected.Render("> "+line) + "\n")
		} else {
			b.WriteString(v.styles.Card.Render("  "+line) + "\n")
		}
	}

	style := v.styles.Column
	if ci == v.colCursor {
		style = v.styles.ColumnFocused
	}
	return style.Width(width).Render(b.String())
}
