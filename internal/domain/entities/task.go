package entities

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the workflow status of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// TaskCreationSourceAuto tags tasks created from extracted action items
const TaskCreationSourceAuto = "auto"

// Task is a follow-up on a client account
type Task struct {
	ID             uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ClientID       uuid.UUID    `json:"client_id" gorm:"type:uuid;not null;index"`
	Title          string       `json:"title" gorm:"type:text;not null"`
	Status         TaskStatus   `json:"status" gorm:"type:varchar(50);not null;default:'todo'"`
	Priority       TaskPriority `json:"priority" gorm:"type:varchar(20);not null;default:'medium'"`
	AssigneeID     *uuid.UUID   `json:"assignee_id,omitempty" gorm:"type:uuid;index"`
	DueDate        *time.Time   `json:"due_date,omitempty" gorm:"type:timestamp"`
	IntelligenceID *uuid.UUID   `json:"intelligence_id,omitempty" gorm:"type:uuid;index"`
	CreationSource string       `json:"creation_source" gorm:"type:varchar(20);not null;default:'manual'"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewAutoTask creates a todo task from an extracted action item
func NewAutoTask(clientID, intelligenceID uuid.UUID, title string, assigneeID *uuid.UUID, due *time.Time) *Task {
	now := time.Now()
	return &Task{
		ID:             uuid.New(),
		ClientID:       clientID,
		Title:          title,
		Status:         TaskStatusTodo,
		Priority:       TaskPriorityMedium,
		AssigneeID:     assigneeID,
		DueDate:        due,
		IntelligenceID: &intelligenceID,
		CreationSource: TaskCreationSourceAuto,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// TableName specifies the table name for GORM
func (Task) TableName() string {
	return "tasks"
}
