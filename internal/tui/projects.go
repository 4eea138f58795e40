package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/auth"
	"taskboard/internal/board"
	"taskboard/internal/models"
	"taskboard/internal/repository"
)

type projectEntry struct {
	project models.Project
	metrics board.Metrics
}

type projectsLoadedMsg struct{ entries []projectEntry }
type projectCreatedMsg struct{}
type projectDeletedMsg struct{}

type projectsView struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	gate     *auth.Gate
	styles   *styles

	entries  []projectEntry
	cursor   int
	err      error
	loading  bool
	creating bool
	deleting bool
	newTitle textinput.Model
}

func newProjectsView(projects repository.ProjectRepository, tasks repository.TaskRepository, gate *auth.Gate) *projectsView {
	newTitle := textinput.New()
	newTitle.Placeholder = "Название проекта"
	newTitle.CharLimit = 100

	return &projectsView{
		projects: projects,
		tasks:    tasks,
		gate:     gate,
		styles:   newStyles(),
		newTitle: newTitle,
		loading:  true,
	}
}

// load забирает проекты и считает показатели каждой доски той же чистой
// функцией, что и сама доска.
func (v *projectsView) load() tea.Msg {
	ctx, cancel := opCtx()
	defer cancel()

	projects, err := v.projects.GetAll(ctx)
	if err != nil {
		return errMsg{err}
	}

	now := time.Now()
	entries := make([]projectEntry, 0, len(projects))
	for _, p := range projects {
		tasks, err := v.tasks.GetByProject(ctx, p.ID)
		if err != nil {
			return errMsg{err}
		}
		plain := make([]models.Task, len(tasks))
		for i, t := range tasks {
			plain[i] = *t
		}
		entries = append(entries, projectEntry{
			project: *p,
			metrics: board.ComputeMetrics(plain, now),
		})
	}
	return projectsLoadedMsg{entries: entries}
}

func (v *projectsView) createProject(title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()

		project := &models.Project{
			Title:    title,
			Deadline: time.Now().AddDate(0, 0, 7),
			Priority: models.PriorityMedium,
		}
		if err := v.projects.Create(ctx, project); err != nil {
			return errMsg{err}
		}
		return projectCreatedMsg{}
	}
}

func (v *projectsView) deleteProject(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()

		if err := v.projects.Delete(ctx, id); err != nil {
			return errMsg{err}
		}
		return projectDeletedMsg{}
	}
}

func (v *projectsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		v.entries = msg.entries
		v.loading = false
		v.err = nil
		if v.cursor >= len(v.entries) {
			v.cursor = max(len(v.entries)-1, 0)
		}
		return nil

	case projectCreatedMsg, projectDeletedMsg:
		return v.load

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
				return v.createProject(title)
			}
			var cmd tea.Cmd
			v.newTitle, cmd = v.newTitle.Update(msg)
			return cmd
		}

		if v.deleting {
			switch msg.String() {
			case "y":
				v.deleting = false
				if v.cursor < len(v.entries) {
					return v.deleteProject(v.entries[v.cursor].project.ID)
				}
			default:
				v.deleting = false
			}
			return nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return tea.Quit
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.entries)-1 {
				v.cursor++
			}
		case "enter":
			if v.cursor < len(v.entries) {
				project := v.entries[v.cursor].project
				return func() tea.Msg { return openProjectMsg{project: project} }
			}
		case "r":
			v.loading = true
			return v.load
		case "n":
			if v.gate.Authenticated() {
				v.creating = true
				v.newTitle.Focus()
				return textinput.Blink
			}
			v.err = board.ErrReadOnly
		case "x":
			if !v.gate.Authenticated() {
				v.err = board.ErrReadOnly
				return nil
			}
			if v.cursor < len(v.entries) {
				v.deleting = true
			}
		case "L":
			v.gate.Logout()
			return func() tea.Msg { return errMsg{nil} }
		}
	}
	return nil
}

func (v *projectsView) View() string {
	var b strings.Builder

	badge := v.styles.ReadOnlyBadge.Render("только чтение")
	if v.gate.Authenticated() {
		badge = v.styles.WriteableBadge.Render("запись разрешена")
	}
	b.WriteString(v.styles.Title.Render("Проекты") + "  " + badge + "\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Subtle.Render("Загрузка...") + "\n")
	case len(v.entries) == 0:
		b.WriteString(v.styles.Subtle.Render("Проектов пока нет") + "\n")
	default:
		for i, e := range v.entries {
			row := fmt.Sprintf("%-30s  %s  %3d%%  %s",
				truncate(e.project.Title, 30),
				e.project.Deadline.Format("2006-01-02"),
				e.metrics.Progress,
				statusBadge(e.metrics, v.styles),
			)
			if i == v.cursor {
				b.WriteString(v.styles.ProjectRowSel.Render("> "+row) + "\n")
			} else {
				b.WriteString(v.styles.ProjectRow.Render("  "+row) + "\n")
			}
		}
	}

	if v.creating {
		b.WriteString("\n" + v.styles.InputLabel.Render("Новый проект:") + " " + v.newTitle.View() + "\n")
	}
	if v.deleting {
		b.WriteString("\n" + v.styles.Warning.Render("Удалить проект вместе с задачами? y/n") + "\n")
	}
	if v.err != nil {
		b.WriteString("\n" + v.styles.Error.Render(v.err.Error()) + "\n")
	}

	b.WriteString("\n" + v.styles.StatusBar.Render("enter — открыть · n — новый · x — удалить · r — обновить · L — выйти из записи · q — выход"))
	return b.String()
}

func statusBadge(m board.Metrics, s *styles) string {
	switch {
	case m.IsOverdue:
		return s.Error.Render("просрочен")
	case m.IsDone:
		return s.Success.Render("завершён")
	case m.IsOnTrack:
		return s.Warning.Render("в работе")
	default:
		return s.Subtle.Render("пусто")
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
