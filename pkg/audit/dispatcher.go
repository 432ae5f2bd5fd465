package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DispatcherOptions tunes the best-effort write path. The defaults suit
// typical request-path audit volume.
type DispatcherOptions struct {
	BufferSize     int           // entries queued in memory before drops start
	BatchSize      int           // target entries per storage batch
	FlushInterval  time.Duration // max time a partial batch waits in memory
	StorageTimeout time.Duration // per-batch storage timeout
}

func (o *DispatcherOptions) applyDefaults() {
	if o.BufferSize <= 0 {
		o.BufferSize = 1000
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 100
	}
	if o.FlushInterval <= 0 {
		o.FlushInterval = 100 * time.Millisecond
	}
	if o.StorageTimeout <= 0 {
		o.StorageTimeout = 5 * time.Second
	}
}

// dispatcher is the supervised sink for best-effort entries: a buffered
// channel drained by one worker that batches writes. Storage failures are
// logged and never propagate; a full buffer drops the entry with a warning.
// This is fire-and-forget by contract, but never unobserved.
type dispatcher struct {
	storage Storage
	log     *slog.Logger
	entries chan Entry
	done    chan struct{}
	wg      sync.WaitGroup
	opts    DispatcherOptions

	closeOnce sync.Once
}

func newDispatcher(storage Storage, log *slog.Logger, opts DispatcherOptions) *dispatcher {
	opts.applyDefaults()

	d := &dispatcher{
		storage: storage,
		log:     log,
		entries: make(chan Entry, opts.BufferSize),
		done:    make(chan struct{}),
		opts:    opts,
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *dispatcher) isClosed() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// enqueue hands an entry to the worker without blocking. Returns false when
// the entry was dropped (buffer full or dispatcher closed).
func (d *dispatcher) enqueue(entry Entry) bool {
	select {
	case <-d.done:
		return false
	default:
	}

	select {
	case d.entries <- entry:
		return true
	default:
		return false
	}
}

func (d *dispatcher) worker() {
	defer d.wg.Done()

	batch := make([]Entry, 0, d.opts.BatchSize)
	ticker := time.NewTicker(d.opts.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case entry := <-d.entries:
			batch = append(batch, entry)
			if len(batch) >= d.opts.BatchSize {
				batch = d.flush(batch)
			}

		case <-ticker.C:
			batch = d.flush(batch)

		case <-d.done:
			// Drain whatever is already buffered, then flush once.
			for {
				select {
				case entry := <-d.entries:
					batch = append(batch, entry)
				default:
					d.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes the batch on a background context so client request
// timeouts never cascade into the storage write. Failures are logged for
// operational diagnosis and otherwise swallowed.
func (d *dispatcher) flush(batch []Entry) []Entry {
	if len(batch) == 0 {
		return batch
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.opts.StorageTimeout)
	defer cancel()

	if err := d.storage.StoreBatch(ctx, batch); err != nil {
		d.log.Error("best-effort audit write failed",
			slog.Int("entries", len(batch)),
			slog.Any("error", err),
		)
	}

	clear(batch)
	return batch[:0]
}

// close stops accepting entries and waits for the worker to drain, bounded
// by the context.
func (d *dispatcher) close(ctx context.Context) error {
	d.closeOnce.Do(func() { close(d.done) })

	finished := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
