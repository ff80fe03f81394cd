package events

import (
	"context"

	"github.com/quocvuong92/ai-apps/internal/logging"
)

// CallLogWriter persists call records
type CallLogWriter interface {
	InsertCallLog(ctx context.Context, rec CallRecord) error
}

// AsyncRecorder writes call records behind the caller's back
type AsyncRecorder struct {
	queue *Queue[CallRecord]
}

// NewAsyncRecorder starts a recorder writing to w
func NewAsyncRecorder(w CallLogWriter, size int, logger *logging.Logger) *AsyncRecorder {
	return &AsyncRecorder{
		queue: NewQueue[CallRecord]("call-log", size, w.InsertCallLog, logger),
	}
}

// Record enqueues rec; it never blocks
func (r *AsyncRecorder) Record(rec CallRecord) {
	r.queue.Offer(rec)
}

// Close flushes pending records
func (r *AsyncRecorder) Close(ctx context.Context) error {
	return r.queue.Close(ctx)
}
