package testutil

import (
	"context"
	"sync"

	"github.com/dtroode/quidalert-auth/internal/model"
)

// SyncDispatcher runs tasks inline and records their names.
type SyncDispatcher struct {
	mu    sync.Mutex
	Names []string
}

func (d *SyncDispatcher) Dispatch(name string, task model.Task) {
	d.mu.Lock()
	d.Names = append(d.Names, name)
	d.mu.Unlock()
	_ = task(context.Background())
}

// Mailer records every message it is asked to send.
type Mailer struct {
	mu   sync.Mutex
	sent []model.Mail
}

func (m *Mailer) Send(_ context.Context, mail model.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, mail)
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *Mailer) Sent() []model.Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Mail(nil), m.sent...)
}

// Last returns the most recent message, or a zero Mail.
func (m *Mailer) Last() model.Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return model.Mail{}
	}
	return m.sent[len(m.sent)-1]
}

// Events records published security events.
type Events struct {
	mu        sync.Mutex
	published []model.SecurityEvent
}

func (e *Events) Publish(_ context.Context, event model.SecurityEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.published = append(e.published, event)
	return nil
}

// Types returns the types of the recorded events in order.
func (e *Events) Types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	types := make([]string, 0, len(e.published))
	for _, ev := range e.published {
		types = append(types, ev.Type)
	}
	return types
}
