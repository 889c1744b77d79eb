package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/traceyourstack/tys-go/internal/model"
	"github.com/traceyourstack/tys-go/internal/pkg/observability"
	"github.com/traceyourstack/tys-go/internal/repo"
)

type stagingSlot interface {
	TakeStaged() *model.Report
}

type reportQueue interface {
	Insert(ctx context.Context, report *model.Report) error
	MarkFlushed(ctx context.Context, uid string) error
	ListUnflushed(ctx context.Context) ([]*model.Report, error)
}

type deliverer interface {
	Deliver(ctx context.Context, report *model.Report) model.DeliveryOutcome
}

// Flusher drains the staging slot into the durable queue and then attempts
// delivery of every unflushed report, strictly one after another. Callers
// must not start a second run while one is outstanding; the flusher provides
// no internal mutual exclusion beyond the queue's single shared connection.
type Flusher struct {
	staging   stagingSlot
	queue     reportQueue
	deliverer deliverer
}

func NewFlusher(staging *Staging, queue *repo.Report, deliverer *Deliverer) *Flusher {
	return &Flusher{
		staging:   staging,
		queue:     queue,
		deliverer: deliverer,
	}
}

// FlushPending performs one flush run and always returns a structured
// outcome: faults anywhere in the run normalize to FlushUnknownError, never
// a raw error. Partial progress is preserved; reports flushed before a
// failure stay flushed, the rest stay queued for a future run.
func (f *Flusher) FlushPending(ctx context.Context) (outcome model.FlushOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("recovered", r).Msg("flush run panicked")
			outcome = model.FlushUnknownError
		}
		observability.FlushRuns.WithLabelValues(outcome.String()).Inc()
	}()

	// The staged entry, if any, is queued and attempted before the backlog.
	// When its delivery does not succeed the run stops here and the report
	// stays in the queue, unflushed.
	if staged := f.staging.TakeStaged(); staged != nil {
		if err := f.queue.Insert(ctx, staged); err != nil {
			log.Warn().Err(err).Msg("failed to queue staged report")
			return model.FlushUnknownError
		}

		if o := f.deliverer.Deliver(ctx, staged); o != model.DeliverySuccess {
			return model.FlushOutcomeOf(o)
		}
		if err := f.queue.MarkFlushed(ctx, staged.Uid); err != nil {
			log.Warn().Err(err).Str("uid", staged.Uid).Msg("failed to mark staged report as flushed")
			return model.FlushUnknownError
		}

		if ctx.Err() != nil {
			return model.FlushOperationCanceled
		}
	}

	pending, err := f.queue.ListUnflushed(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to list pending reports")
		return model.FlushUnknownError
	}
	observability.QueueDepth.Set(float64(len(pending)))

	for _, report := range pending {
		// cancellation is observed only at attempt boundaries; an in-flight
		// delivery always runs to completion or transport failure
		if ctx.Err() != nil {
			return model.FlushOperationCanceled
		}

		if o := f.deliverer.Deliver(ctx, report); o != model.DeliverySuccess {
			return model.FlushOutcomeOf(o)
		}
		if err := f.queue.MarkFlushed(ctx, report.Uid); err != nil {
			log.Warn().Err(err).Str("uid", report.Uid).Msg("failed to mark report as flushed")
			return model.FlushUnknownError
		}
	}

	return model.FlushSuccess
}
