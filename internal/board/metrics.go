package board

import (
	"math"
	"time"

	"taskboard/internal/models"
)

// Производные показатели доски. Никогда не кэшируются: пересчёт от текущего
// списка задач на каждое обращение.
type Metrics struct {
	TotalTasks   int
	DoneTasks    int
	OverdueTasks int
	Progress     int // проценты, 0..100

	IsOverdue bool
	IsDone    bool
	IsOnTrack bool
}

// ComputeMetrics считает показатели доски на момент now.
// Просроченной считается незакрытая задача с прошедшим дедлайном.
func ComputeMetrics(tasks []models.Task, now time.Time) Metrics {
	m := Metrics{TotalTasks: len(tasks)}

	for _, t := range tasks {
		if t.Status == models.StatusDone {
			m.DoneTasks++
			continue
		}
		if t.Deadline != nil && t.Deadline.Before(now) {
			m.OverdueTasks++
		}
	}

	if m.TotalTasks > 0 {
		m.Progress = int(math.Round(float64(m.DoneTasks) / float64(m.TotalTasks) * 100))
	}

	m.IsOverdue = m.OverdueTasks > 0
	m.IsDone = m.TotalTasks > 0 && m.DoneTasks == m.TotalTasks
	m.IsOnTrack = !m.IsOverdue && !m.IsDone && m.TotalTasks > 0

	return m
}

// SubtaskProgress возвращает счётчики выполненных подзадач карточки.
func SubtaskProgress(task models.Task) (completed, total int) {
	total = len(task.Subtasks)
	for _, s := range task.Subtasks {
		if s.Completed {
			completed++
		}
	}
	return completed, total
}

// Column выбирает задачи одной колонки, сохраняя их взаимный порядок.
func Column(tasks []models.Task, status models.Status) []models.Task {
	col := []models.Task{}
	for _, t := range tasks {
		if t.Status == status {
			col = append(col, t)
		}
	}
	return col
}
