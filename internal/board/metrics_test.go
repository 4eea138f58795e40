package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskboard/internal/models"
)

func taskWith(status models.Status, deadline *time.Time) models.Task {
	return models.Task{
		ID:       "t-" + string(status),
		Status:   status,
		Deadline: deadline,
	}
}

func TestComputeMetricsEmptyBoard(t *testing.T) {
	m := ComputeMetrics(nil, time.Now())

	assert.Equal(t, 0, m.TotalTasks)
	assert.Equal(t, 0, m.Progress)
	assert.False(t, m.IsOverdue)
	assert.False(t, m.IsDone)
	assert.False(t, m.IsOnTrack)
}

func TestComputeMetricsProgressRounding(t *testing.T) {
	// 1 из 3 это 33%, округление математическое
	tasks := []models.Task{
		taskWith(models.StatusDone, nil),
		taskWith(models.StatusTodo, nil),
		taskWith(models.StatusInProgress, nil),
	}

	m := ComputeMetrics(tasks, time.Now())

	assert.Equal(t, 3, m.TotalTasks)
	assert.Equal(t, 1, m.DoneTasks)
	assert.Equal(t, 33, m.Progress)
	assert.True(t, m.IsOnTrack)
}

func TestComputeMetricsDoneTaskNeverOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)

	// закрытая задача с прошедшим дедлайном просроченной не считается
	tasks := []models.Task{
		taskWith(models.StatusDone, &past),
	}

	m := ComputeMetrics(tasks, now)

	assert.Equal(t, 0, m.OverdueTasks)
	assert.False(t, m.IsOverdue)
	assert.True(t, m.IsDone)
	assert.Equal(t, 100, m.Progress)
}

func TestComputeMetricsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tasks := []models.Task{
		taskWith(models.StatusTodo, &past),
		taskWith(models.StatusInProgress, &future),
		taskWith(models.StatusDone, nil),
	}

	m := ComputeMetrics(tasks, now)

	assert.Equal(t, 1, m.OverdueTasks)
	assert.True(t, m.IsOverdue)
	assert.False(t, m.IsDone)
	assert.False(t, m.IsOnTrack)
}

// дедлайн проекта прошёл, но у самих задач дедлайнов нет
func TestComputeMetricsDoneAndTodoWithoutDeadlines(t *testing.T) {
	now := time.Now()

	tasks := []models.Task{
		taskWith(models.StatusDone, nil),
		taskWith(models.StatusTodo, nil),
	}

	m := ComputeMetrics(tasks, now)

	assert.Equal(t, 0, m.OverdueTasks)
	assert.Equal(t, 50, m.Progress)
	assert.False(t, m.IsOverdue)
	assert.False(t, m.IsDone)
	assert.True(t, m.IsOnTrack)
}

func TestComputeMetricsStatusFlagsMutuallyExclusive(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)

	cases := []struct {
		name  string
		tasks []models.Task
	}{
		{"пустая доска", nil},
		{"всё готово", []models.Task{taskWith(models.StatusDone, nil)}},
		{"есть просрочка", []models.Task{taskWith(models.StatusTodo, &past)}},
		{"в работе", []models.Task{taskWith(models.StatusTodo, nil)}},
		{"просрочка и готовые", []models.Task{
			taskWith(models.StatusTodo, &past),
			taskWith(models.StatusDone, nil),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := ComputeMetrics(tc.tasks, now)

			flags := 0
			for _, f := range []bool{m.IsOverdue, m.IsDone, m.IsOnTrack} {
				if f {
					flags++
				}
			}
			assert.LessOrEqual(t, flags, 1)
			assert.GreaterOrEqual(t, m.Progress, 0)
			assert.LessOrEqual(t, m.Progress, 100)
		})
	}
}

func TestSubtaskProgress(t *testing.T) {
	task := models.Task{
		Subtasks: []models.Subtask{
			{ID: "s1", Title: "first", Completed: true},
			{ID: "s2", Title: "second"},
			{ID: "s3", Title: "third", Completed: true},
		},
	}

	completed, total := SubtaskProgress(task)
	assert.Equal(t, 2, completed)
	assert.Equal(t, 3, total)

	completed, total = SubtaskProgress(models.Task{})
	assert.Equal(t, 0, completed)
	assert.Equal(t, 0, total)
}

func TestColumnKeepsRelativeOrder(t *testing.T) {
	tasks := []models.Task{
		{ID: "a", Status: models.StatusTodo},
		{ID: "b", Status: models.StatusDone},
		{ID: "c", Status: models.StatusTodo},
		{ID: "d", Status: models.StatusInProgress},
		{ID: "e", Status: models.StatusTodo},
	}

	col := Column(tasks, models.StatusTodo)

	assert.Len(t, col, 3)
	assert.Equal(t, "a", col[0].ID)
	assert.Equal(t, "c", col[1].ID)
	assert.Equal(t, "e", col[2].ID)
}
