// Package batch orchestrates barcode generation over an ordered sequence of
// input lines: it assigns stable sequence numbers, runs the
// validate-encode-render pipeline per item on a bounded worker pool, and
// aggregates per-item outcomes without ever aborting the batch. Key
// properties:
//   - Sequence numbers are assigned in one sequential pass before any worker
//     starts and are never reused or reordered.
//   - A rejection at any stage terminates only that item.
//   - Cancellation is honored between items; in-flight items finish.
package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"batchme/internal/logging"
	"batchme/internal/render"
	"batchme/internal/upc"
)

// ErrNilWriter is returned by New when no blob writer is supplied.
var ErrNilWriter = errors.New("blob writer cannot be nil")

// BlobWriter is the injected write capability. A Write either persists the
// full blob under the given name or nothing at all.
type BlobWriter interface {
	Write(ctx context.Context, name string, data []byte) error
}

// Orchestrator runs batches of raw input lines through the barcode pipeline.
type Orchestrator struct {
	writer     BlobWriter
	renderOpts render.Options
	workers    int
	onProgress ProgressCallback
}

// New creates an orchestrator writing blobs through writer. workers bounds
// the worker pool; values below one are raised to one.
func New(writer BlobWriter, renderOpts render.Options, workers int) (*Orchestrator, error) {
	if writer == nil {
		return nil, ErrNilWriter
	}
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		writer:     writer,
		renderOpts: renderOpts,
		workers:    workers,
	}, nil
}

// WithProgressCallback sets a callback invoked after each item reaches a
// terminal state. The callback may run concurrently from worker goroutines
// but never twice for the same item.
func (o *Orchestrator) WithProgressCallback(callback ProgressCallback) *Orchestrator {
	o.onProgress = callback
	return o
}

// Report is the outcome of one batch run: the full ordered item list plus
// aggregate counts for the caller's summary.
type Report struct {
	// RunID identifies this run in log output.
	RunID string

	// Items holds every sequenced item in input order.
	Items []*Item

	// Validated is the count of items that passed checksum validation.
	Validated int

	// Written is the count of items whose image blob was persisted.
	Written int

	// Rejected maps rejection reason labels to counts.
	Rejected map[string]int

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Empty reports the empty-batch condition: no non-blank input lines were
// supplied. This is the only whole-run condition a caller needs to special
// case; it is not an error.
func (r *Report) Empty() bool {
	return len(r.Items) == 0
}

// RejectedTotal returns the total number of rejected items.
func (r *Report) RejectedTotal() int {
	total := 0
	for _, n := range r.Rejected {
		total += n
	}
	return total
}

// BlobName returns the output naming contract for an item: zero-padded
// 4-digit sequence number, underscore, the raw code, ".png". Four digits is
// a minimum width: sequence numbers past 9999 widen to five digits instead
// of truncating, so names stay unique but sort differently lexically.
func BlobName(seq int, raw string) string {
	return fmt.Sprintf("%04d_%s.png", seq, raw)
}

// Run processes lines and returns the per-item report. Blank lines are
// skipped without consuming a sequence number. The batch always completes a
// full pass over the dispatched items: no per-item failure is escalated.
// When ctx is canceled, no further items are dispatched and undispatched
// items remain pending in the report.
func (o *Orchestrator) Run(ctx context.Context, lines []string) *Report {
	runID := ulid.Make().String()
	log := logging.ComponentLogger(logging.FromContext(ctx), "batch").
		With().Str("run_id", runID).Logger()

	items := sequence(lines)

	report := &Report{
		RunID:    runID,
		Items:    items,
		Rejected: make(map[string]int),
	}

	if len(items) == 0 {
		log.Info().Str("operation", "run").Msg("empty batch: no non-blank input lines")
		return report
	}

	log.Info().
		Str("operation", "run").
		Int("items", len(items)).
		Int("workers", o.workers).
		Msg("starting batch")

	start := time.Now()
	progress := NewProgress(len(items))

	var g errgroup.Group
	g.SetLimit(o.workers)

dispatch:
	for _, item := range items {
		// Cancellation is only honored between items, never mid-encode.
		select {
		case <-ctx.Done():
			log.Warn().
				Str("operation", "run").
				Int("dispatched", item.Seq-1).
				Msg("batch canceled, undispatched items remain pending")
			break dispatch
		default:
		}

		it := item
		g.Go(func() error {
			o.processItem(ctx, log, it)
			progress.recordOutcome(it.Written())
			if o.onProgress != nil {
				o.onProgress(progress, it)
			}
			return nil
		})
	}

	// Workers never return errors; per-item failures live on the items.
	_ = g.Wait()

	report.Elapsed = time.Since(start)
	for _, it := range items {
		if it.Validated() {
			report.Validated++
		}
		switch {
		case it.Written():
			report.Written++
		case it.Rejected():
			report.Rejected[Reason(it.Err)]++
		}
	}

	log.Info().
		Str("operation", "run").
		Int("written", report.Written).
		Int("rejected", report.RejectedTotal()).
		Dur("elapsed", report.Elapsed).
		Msg("batch complete")

	return report
}

// processItem drives one item through the pipeline to a terminal state.
func (o *Orchestrator) processItem(ctx context.Context, log zerolog.Logger, it *Item) {
	if err := ctx.Err(); err != nil {
		it.reject(err)
		return
	}

	it.State = StateValidating
	code, err := upc.Validate(it.Raw)
	if err != nil {
		log.Debug().
			Str("operation", "validate").
			Int("seq", it.Seq).
			Str("raw", it.Raw).
			Err(err).
			Msg("input rejected")
		it.reject(err)
		return
	}

	it.State = StateEncoding
	seq, err := upc.Encode(code)
	if err != nil {
		// Unreachable for validator-approved codes; a hit here is a
		// defect, so it gets full context at error level. The item is
		// failed but the batch continues.
		log.Error().
			Str("operation", "encode").
			Int("seq", it.Seq).
			Str("code", code.String()).
			Err(err).
			Msg("encoding invariant violation")
		it.reject(err)
		return
	}

	it.State = StateRendering
	barcode := render.Render(seq, code.String(), o.renderOpts)
	data, err := barcode.EncodePNG()
	if err != nil {
		log.Error().
			Str("operation", "render").
			Int("seq", it.Seq).
			Str("code", code.String()).
			Err(err).
			Msg("raster encoding failed")
		it.reject(err)
		return
	}

	name := BlobName(it.Seq, it.Raw)
	if err := o.writer.Write(ctx, name, data); err != nil {
		log.Warn().
			Str("operation", "write").
			Int("seq", it.Seq).
			Str("blob", name).
			Err(err).
			Msg("blob write failed")
		it.reject(fmt.Errorf("%w: %v", ErrWriteFailure, err))
		return
	}

	it.markWritten(name)
	log.Debug().
		Str("operation", "write").
		Int("seq", it.Seq).
		Str("blob", name).
		Msg("item written")
}

// sequence trims lines, skips blanks, and assigns 1-based contiguous
// sequence numbers in input order. This single sequential pass completes
// before any parallel work starts.
func sequence(lines []string) []*Item {
	items := make([]*Item, 0, len(lines))
	seq := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		seq++
		items = append(items, &Item{Seq: seq, Raw: trimmed, State: StatePending})
	}
	return items
}
