// Клиент доски задач. По умолчанию ходит на API сервера,
// флаг -local переключает на локальные JSON-снимки.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/apiclient"
	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/repository"
	"taskboard/internal/repository/localstore"
	"taskboard/internal/tui"
)

func main() {
	local := flag.Bool("local", false, "работать с локальным хранилищем вместо API")
	flag.Parse()

	// терминал занят интерфейсом, логи сервера здесь ни к чему
	logger.Nop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "конфигурация: %v\n", err)
		os.Exit(1)
	}

	// состояние входа живёт в локальном каталоге в обоих режимах
	store, err := localstore.New(cfg.Client.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "локальное хранилище: %v\n", err)
		os.Exit(1)
	}

	var projects repository.ProjectRepository
	var tasks repository.TaskRepository
	if *local {
		projects = store.Projects()
		tasks = store.Tasks()
	} else {
		client := apiclient.New(cfg.Client.APIURL)
		projects = client.Projects()
		tasks = client.Tasks()
	}

	gate := auth.NewGate(cfg.Board.Pin, store)

	app := tui.NewApp(projects, tasks, gate)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "клиент доски: %v\n", err)
		os.Exit(1)
	}
}
