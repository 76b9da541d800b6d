package models

import "time"

// TaskStatus defines the possible statuses for a follow-up task.
type TaskStatus string

const (
	TaskStatusOpen      TaskStatus = "open"
	TaskStatusDone      TaskStatus = "done"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// TaskEntity names the pipeline record a task is attached to.
type TaskEntity string

const (
	TaskEntityLead        TaskEntity = "lead"
	TaskEntityReservation TaskEntity = "reservation"
)

// Task is a follow-up reminder an advisor attaches to a lead or a
// reservation (call back, collect an overdue installment, and so on).
type Task struct {
	ID          int64      `json:"id"`
	CreatorID   int64      `json:"creator_id"`
	AssigneeID  int64      `json:"assignee_id"`
	EntityID    int64      `json:"entity_id"`
	EntityType  TaskEntity `json:"entity_type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskFilter defines the available parameters for filtering tasks.
type TaskFilter struct {
	AssigneeID *int64
	EntityID   *int64
	EntityType *TaskEntity
	Status     *TaskStatus
}
