package models

// Фиксированный каталог меток задач: идентификатор, отображаемое имя и цвет.
type Label struct {
	Value string
	Name  string
	Color string
}

var TaskLabels = []Label{
	// Разработка
	{Value: "bug", Name: "Bug", Color: "#ef4444"},
	{Value: "feature", Name: "Feature", Color: "#3b82f6"},
	{Value: "enhancement", Name: "Enhancement", Color: "#22c55e"},
	{Value: "refactor", Name: "Refactor", Color: "#a855f7"},
	{Value: "documentation", Name: "Documentation", Color: "#eab308"},
	{Value: "testing", Name: "Testing", Color: "#6366f1"},

	// Дизайн
	{Value: "ui-ux", Name: "UI/UX", Color: "#ec4899"},
	{Value: "design", Name: "Design", Color: "#f97316"},
	{Value: "responsive", Name: "Responsive", Color: "#14b8a6"},
	{Value: "accessibility", Name: "Accessibility", Color: "#06b6d4"},

	// Приоритет и состояние
	{Value: "high-priority", Name: "High Priority", Color: "#dc2626"},
	{Value: "low-priority", Name: "Low Priority", Color: "#6b7280"},
	{Value: "blocked", Name: "Blocked", Color: "#b91c1c"},
	{Value: "in-review", Name: "In Review", Color: "#ca8a04"},

	// Управление проектом
	{Value: "planning", Name: "Planning", Color: "#2563eb"},
	{Value: "research", Name: "Research", Color: "#9333ea"},
	{Value: "deployment", Name: "Deployment", Color: "#16a34a"},
	{Value: "maintenance", Name: "Maintenance", Color: "#4b5563"},
}

const defaultLabelColor = "#6b7280"

func LabelName(value string) string {
	for _, l := range TaskLabels {
		if l.Value == value {
			return l.Name
		}
	}
	return value
}

func LabelColor(value string) string {
	for _, l := range TaskLabels {
		if l.Value == value {
			return l.Color
		}
	}
	return defaultLabelColor
}
