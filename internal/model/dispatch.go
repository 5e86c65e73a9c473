package model

import "context"

// Task is a unit of deferred work such as a mail delivery.
type Task func(ctx context.Context) error

// Dispatcher runs tasks after the caller has returned. Each task is
// attempted at most once and its outcome is never reported back.
type Dispatcher interface {
	Dispatch(name string, task Task)
}
