// Терминальный клиент доски: вход по PIN, список проектов, канбан-доска.
// Все мутации идут через движок доски; без входа клиент работает в режиме
// только для чтения.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/auth"
	"taskboard/internal/models"
	"taskboard/internal/repository"
)

// Текущий экран.
type view int

const (
	viewLogin view = iota
	viewProjects
	viewBoard
)

type App struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	gate     *auth.Gate

	currentView view
	login       *loginView
	projectList *projectsView
	board       *boardView
	width       int
	height      int
}

func NewApp(projects repository.ProjectRepository, tasks repository.TaskRepository, gate *auth.Gate) *App {
	a := &App{
		projects: projects,
		tasks:    tasks,
		gate:     gate,
	}
	a.login = newLoginView(gate)
	a.projectList = newProjectsView(projects, tasks, gate)

	if gate.Authenticated() {
		// состояние входа пережило перезапуск
		a.currentView = viewProjects
	} else {
		a.currentView = viewLogin
	}
	return a
}

func (a *App) Init() tea.Cmd {
	if a.currentView == viewProjects {
		return a.projectList.load
	}
	return a.login.Init()
}

// Сообщения навигации между экранами.
type loggedInMsg struct{}
type skipLoginMsg struct{}
type openProjectMsg struct{ project models.Project }
type backToProjectsMsg struct{}
type errMsg struct{ err error }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case loggedInMsg, skipLoginMsg:
		a.currentView = viewProjects
		return a, a.projectList.load

	case openProjectMsg:
		a.currentView = viewBoard
		a.board = newBoardView(msg.project, a.tasks, a.gate)
		return a, tea.Batch(
			a.board.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)

	case backToProjectsMsg:
		a.currentView = viewProjects
		return a, a.projectList.load
	}

	var cmd tea.Cmd
	switch a.currentView {
	case viewLogin:
		cmd = a.login.Update(msg)
	case viewProjects:
		cmd = a.projectList.Update(msg)
	case viewBoard:
		cmd = a.board.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case viewProjects:
		return a.projectList.View()
	case viewBoard:
		if a.board != nil {
			return a.board.View()
		}
	}
	return a.login.View()
}

// opCtx ограничивает время любой операции адаптера: подвисший запрос не
// должен оставить клиента в вечной загрузке.
func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
