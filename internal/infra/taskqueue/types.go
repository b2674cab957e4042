package taskqueue

import "time"

type TaskKind string

const (
	TaskKindReminder TaskKind = "reminder"
	TaskKindSyncWake TaskKind = "sync_wake"
)

// Task is one scheduled callback. Fields tagged "-" control delivery and are
// not part of the payload.
type Task struct {
	ID         string    `json:"-"`
	ScheduleAt time.Time `json:"-"`
	TargetURL  string    `json:"-"`

	Kind  TaskKind  `json:"kind"`
	Title string    `json:"title,omitempty"`
	Body  string    `json:"body,omitempty"`
	DueAt time.Time `json:"due_at"`
}

type TaskResponse struct {
	Name         string    `json:"name"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreateTime   time.Time `json:"create_time"`
}

type PrimindTaskRequest struct {
	Task PrimindTask `json:"task"`
}

type PrimindTask struct {
	Name         string             `json:"name,omitempty"`
	HTTPRequest  PrimindHTTPRequest `json:"httpRequest"`
	ScheduleTime string             `json:"scheduleTime,omitempty"`
}

type PrimindHTTPRequest struct {
	URL     string            `json:"url,omitempty"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type PrimindTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}
