package timetable

import (
	"context"
	"math/rand"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ProgressFunc is invoked after each request is resolved, with the number of
// requests processed so far, the batch total and a label for the request that
// just finished.
type ProgressFunc func(processed, total int, label string)

// Result aggregates one run: every valid input request ends up in exactly one
// of Sessions (by request id) or Unscheduled.
type Result struct {
	Sessions    []Session
	Unscheduled []models.ClassRequest
}

// Runner drives the placement engine over a full batch. Placements are
// strictly sequential: each one observes the sessions and room usage
// committed by its predecessors.
type Runner struct {
	engine   *Engine
	rng      *rand.Rand
	progress ProgressFunc
}

// NewRunner builds a runner. The random source shuffles submission order so
// batch position does not decide who wins scarce slots; progress may be nil.
func NewRunner(engine *Engine, rng *rand.Rand, progress ProgressFunc) *Runner {
	return &Runner{engine: engine, rng: rng, progress: progress}
}

// Run places every request in the batch, best effort. Requests that cannot
// be placed land in Result.Unscheduled; this is not an error. A cancelled
// context stops the loop between requests and reports the remaining requests
// as unscheduled alongside the context error.
func (r *Runner) Run(ctx context.Context, requests []models.ClassRequest) (*Result, error) {
	if len(requests) == 0 {
		return nil, ErrEmptyBatch
	}

	batch := make([]models.ClassRequest, len(requests))
	copy(batch, requests)
	r.rng.Shuffle(len(batch), func(i, j int) { batch[i], batch[j] = batch[j], batch[i] })

	usage := make(map[string]int, len(r.engine.rooms.All()))
	for _, room := range r.engine.rooms.All() {
		usage[room.ID] = 0
	}

	result := &Result{}
	placed := make([]Session, 0, len(batch))

	for i, req := range batch {
		if err := ctx.Err(); err != nil {
			result.Unscheduled = append(result.Unscheduled, batch[i:]...)
			result.Sessions = placed
			return result, err
		}

		session, ok := r.engine.Place(req, placed, usage)
		if ok {
			placed = append(placed, session)
		} else {
			result.Unscheduled = append(result.Unscheduled, req)
		}
		if r.progress != nil {
			r.progress(i+1, len(batch), req.Subject)
		}
	}

	result.Sessions = placed
	return result, nil
}
