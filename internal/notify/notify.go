// Package notify defines the lifecycle event notification contract the
// engine publishes store_file/delete_file events through, and a no-op
// default so notification stays optional the same way Compressor, Encryptor,
// and Cache are.
package notify

import (
	"context"
	"time"

	"chunkvault/internal/chunkid"
)

// EventKind names the kind of lifecycle event.
type EventKind string

const (
	EventStored  EventKind = "stored"
	EventDeleted EventKind = "deleted"
)

// Event is a single file lifecycle notification.
type Event struct {
	Kind EventKind      `json:"kind"`
	ID   chunkid.FileID `json:"id"`
	Name string         `json:"name,omitempty"`
	At   time.Time      `json:"at"`
}

// Notifier publishes lifecycle events. Publish errors are logged by the
// engine and swallowed — notification is best-effort and never fails a
// store_file/delete_file call.
type Notifier interface {
	Publish(ctx context.Context, evt Event) error
}

// Noop is a Notifier that discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
