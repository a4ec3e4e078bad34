// Package sync mirrors local cart mutations to the remote cart_items copy.
//
// Every mutation on an authenticated cart produces a write intent. Intents
// are applied asynchronously by a single worker; each outcome is recorded in
// a per-user journal so failed mirror writes are visible instead of silently
// swallowed. Failed intents are never retried automatically.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thiago536/v0-gabycommerce-structure/internal/cart/repository"
)

// Op identifies the mirror operation an intent performs.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Intent statuses.
const (
	StatusPending = "pending"
	StatusApplied = "applied"
	StatusFailed  = "failed"
)

// Intent is one outbound mirror write.
type Intent struct {
	ID         string    `json:"id"`
	Op         Op        `json:"op"`
	UserID     string    `json:"user_id"`
	ProductID  string    `json:"product_id"`
	VariantID  string    `json:"variant_id,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Result is the recorded outcome of an intent.
type Result struct {
	Intent
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	AppliedAt time.Time `json:"applied_at,omitempty"`
}

// NewIntent builds an intent with a generated ID and current timestamp.
func NewIntent(op Op, userID, productID, variantID string, quantity int) Intent {
	return Intent{
		ID:         uuid.New().String(),
		Op:         op,
		UserID:     userID,
		ProductID:  productID,
		VariantID:  variantID,
		Quantity:   quantity,
		EnqueuedAt: time.Now().UTC(),
	}
}

// journalCap bounds the number of results retained per user.
const journalCap = 50

// Journal keeps the most recent intent outcomes per user.
type Journal struct {
	mu      sync.RWMutex
	results map[string][]Result
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{results: make(map[string][]Result)}
}

// Record appends a result for the intent's user, evicting the oldest entry
// once the per-user cap is reached.
func (j *Journal) Record(res Result) {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries := append(j.results[res.UserID], res)
	if len(entries) > journalCap {
		entries = entries[len(entries)-journalCap:]
	}
	j.results[res.UserID] = entries
}

// Results returns a copy of the recorded outcomes for a user, oldest first.
func (j *Journal) Results(userID string) []Result {
	j.mu.RLock()
	defer j.mu.RUnlock()

	entries := j.results[userID]
	out := make([]Result, len(entries))
	copy(out, entries)
	return out
}

// Failures returns only the failed outcomes for a user.
func (j *Journal) Failures(userID string) []Result {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var out []Result
	for _, res := range j.results[userID] {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// Worker applies intents against the mirror, one at a time, recording each
// outcome in the journal.
type Worker struct {
	mirror  repository.Mirror
	journal *Journal
	logger  *slog.Logger
	timeout time.Duration

	ch   chan Intent
	done chan struct{}
}

// NewWorker creates a mirror worker with the given queue capacity and
// per-intent timeout.
func NewWorker(mirror repository.Mirror, journal *Journal, logger *slog.Logger, buffer int, timeout time.Duration) *Worker {
	if buffer <= 0 {
		buffer = 256
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Worker{
		mirror:  mirror,
		journal: journal,
		logger:  logger,
		timeout: timeout,
		ch:      make(chan Intent, buffer),
		done:    make(chan struct{}),
	}
}

// Start launches the worker goroutine. It runs until Close is called and
// the queue drains.
func (w *Worker) Start() {
	go func() {
		defer close(w.done)
		for intent := range w.ch {
			w.apply(intent)
		}
	}()
}

// Enqueue queues an intent for asynchronous application. When the queue is
// full the intent is dropped and recorded as failed, the same degrade-to-
// local-only semantics as a mirror write error.
func (w *Worker) Enqueue(intent Intent) {
	select {
	case w.ch <- intent:
	default:
		w.logger.Warn("cart sync queue full, dropping intent",
			slog.String("intent_id", intent.ID),
			slog.String("op", string(intent.Op)),
			slog.String("user_id", intent.UserID),
		)
		w.journal.Record(Result{
			Intent: intent,
			Status: StatusFailed,
			Error:  "sync queue full",
		})
	}
}

// Close stops accepting intents and waits for the queue to drain.
func (w *Worker) Close() {
	close(w.ch)
	<-w.done
}

// apply executes a single intent with its own timeout. The originating HTTP
// request has already returned, so the intent cannot inherit its context.
func (w *Worker) apply(intent Intent) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	var err error
	switch intent.Op {
	case OpInsert:
		err = w.mirror.Insert(ctx, intent.UserID, intent.ProductID, intent.VariantID, intent.Quantity)
	case OpUpdate:
		err = w.mirror.UpdateQuantity(ctx, intent.UserID, intent.ProductID, intent.VariantID, intent.Quantity)
	case OpDelete:
		err = w.mirror.Delete(ctx, intent.UserID, intent.ProductID, intent.VariantID)
	default:
		err = fmt.Errorf("unknown op %q", intent.Op)
	}

	res := Result{
		Intent:    intent,
		Status:    StatusApplied,
		AppliedAt: time.Now().UTC(),
	}
	if err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
		w.logger.Error("cart mirror write failed",
			slog.String("intent_id", intent.ID),
			slog.String("op", string(intent.Op)),
			slog.String("user_id", intent.UserID),
			slog.String("product_id", intent.ProductID),
			slog.String("error", err.Error()),
		)
	}

	w.journal.Record(res)
}
