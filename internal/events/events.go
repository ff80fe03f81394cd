// Package events carries the side effects of provider calls: a call record for
// the write-behind log and an event for interested subscribers.
//
// Everything here is fire-and-forget. Producers hand items to a Queue, which
// never blocks them; a worker goroutine delivers in the background and only
// logs delivery failures.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types published after a provider call
const (
	TypeRequestSucceeded = "provider.request.succeeded"
	TypeRequestFailed    = "provider.request.failed"
)

// CallRecord is the outcome of one dispatched call
type CallRecord struct {
	ID         string        `json:"id"`
	ConfigID   string        `json:"configId"`
	ConfigName string        `json:"configName"`
	Method     string        `json:"method"`
	URL        string        `json:"url"`
	Path       string        `json:"path"`
	StatusCode int           `json:"statusCode,omitempty"`
	ErrorCode  string        `json:"errorCode,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// NewCallRecord returns a record with a fresh id and timestamp
func NewCallRecord() CallRecord {
	return CallRecord{ID: uuid.New().String(), CreatedAt: time.Now().UTC()}
}

// Failed reports whether the call ended in an error of any kind
func (r CallRecord) Failed() bool {
	return r.Error != ""
}

// Event is published for every dispatched call
type Event struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Record     CallRecord `json:"record"`
	OccurredAt time.Time  `json:"occurredAt"`
}

// NewEvent wraps rec in an event typed by its outcome
func NewEvent(rec CallRecord) Event {
	typ := TypeRequestSucceeded
	if rec.Failed() {
		typ = TypeRequestFailed
	}
	return Event{
		ID:         uuid.New().String(),
		Type:       typ,
		Record:     rec,
		OccurredAt: time.Now().UTC(),
	}
}
