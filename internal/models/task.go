package models

import "time"

type Task struct {
	ID          string     `json:"id" db:"id"`
	ProjectID   string     `json:"projectId" db:"project_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description,omitempty" db:"description"`
	Status      Status     `json:"status" db:"status"`
	Deadline    *time.Time `json:"deadline,omitempty" db:"deadline"`
	Subtasks    []Subtask  `json:"subtasks" db:"subtasks"`
	Labels      []string   `json:"labels" db:"labels"`
	Position    int        `json:"position" db:"position"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// Subtask живёт только внутри своей задачи, отдельного хранилища у него нет.
type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Status string

const StatusTodo Status = "todo"
const StatusInProgress Status = "in-progress"
const StatusDone Status = "done"

func (s Status) Valid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// Колонки доски в фиксированном порядке.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// Clone возвращает глубокую копию задачи: движок доски хранит снимки
// для отката, делиться слайсами с ними нельзя.
func (t Task) Clone() Task {
	c := t
	if t.Subtasks != nil {
		c.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(c.Subtasks, t.Subtasks)
	}
	if t.Labels != nil {
		c.Labels = make([]string, len(t.Labels))
		copy(c.Labels, t.Labels)
	}
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	if t.UpdatedAt != nil {
		u := *t.UpdatedAt
		c.UpdatedAt = &u
	}
	return c
}
