// Package worker runs the routing core behind a single cooperative
// goroutine: one request in flight at a time, FIFO order, one Response per
// CalculateRequest. Callers submit over a buffered channel and block for
// their reply; the worker goroutine drains the queue serially so the
// routing core never has two searches running concurrently.
package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/commutesg/routecore/internal/graphdata"
	"github.com/commutesg/routecore/internal/models"
	"github.com/commutesg/routecore/internal/routing"
)

// job is one queued CalculateRequest awaiting processing, paired with the
// channel its Response is delivered on.
type job struct {
	ctx     context.Context
	request models.CalculateRequest
	reply   chan models.Response
}

// Worker owns the routing core's read path: a *graphdata.Store plus the
// alternative generator, leg compactor, segment builder, and ranker chain
// that turn a CalculateRequest into ranked RouteCandidates.
type Worker struct {
	store     *graphdata.Store
	generator *routing.AlternativeGenerator
	ranker    routing.RouteRanker
	queue     chan job
}

// New returns a Worker reading from store, with queueDepth buffered
// requests before Submit blocks.
func New(store *graphdata.Store, queueDepth int) *Worker {
	classifier := routing.NewServiceClassifier()
	pathfinder := routing.NewPathfinder(store, classifier)

	return &Worker{
		store:     store,
		generator: routing.NewAlternativeGenerator(pathfinder),
		ranker:    routing.NewRouteRanker(),
		queue:     make(chan job, queueDepth),
	}
}

// Run drains the queue strictly in arrival order until ctx is cancelled.
// Call it once, from a single goroutine; Run never returns until ctx is
// done.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-w.queue:
			j.reply <- w.process(j.ctx, j.request)
		}
	}
}

// Submit enqueues request and blocks until the worker replies or ctx is
// cancelled first. FIFO order is the queue's arrival order, not the caller's
// goroutine scheduling.
func (w *Worker) Submit(ctx context.Context, request models.CalculateRequest) (models.Response, error) {
	reply := make(chan models.Response, 1)
	j := job{ctx: ctx, request: request, reply: reply}

	select {
	case w.queue <- j:
	case <-ctx.Done():
		return models.Response{}, ctx.Err()
	}

	select {
	case resp := <-reply:
		return resp, nil
	case <-ctx.Done():
		return models.Response{}, ctx.Err()
	}
}

// process computes, compacts, and ranks every alternative for one request.
// Panics inside the routing core are recovered here, matching Fiber's
// recover middleware at the HTTP edge (see cmd/server), and surfaced as a
// generic error response rather than killing the worker goroutine.
func (w *Worker) process(ctx context.Context, request models.CalculateRequest) (resp models.Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("worker: recovered panic processing request: %v", r)
			resp = errorResponse(fmt.Errorf("worker: internal error"))
		}
	}()

	candidates, err := w.generator.Generate(ctx, request.Start, request.End, request.ExcludedModes)
	if err != nil {
		return errorResponse(err)
	}

	meta := w.store.AllMetadata()
	legs := routing.NewLegCompactor(meta)
	segments := routing.NewSegmentBuilder(meta)

	ranked := make([]routing.RankedRoute, 0, len(candidates))
	for _, candidate := range candidates {
		ranked = append(ranked, routing.RankedRoute{
			Candidate: candidate,
			Legs:      legs.Compact(candidate.Path),
			Segments:  segments.Build(candidate.Path),
		})
	}

	sortBy := request.Sort
	if sortBy == "" {
		sortBy = models.SortFastest
	}
	ranked = w.ranker.FilterAndSort(ranked, sortBy, request.ExcludedModes)

	routes := make([]models.RouteCandidate, len(ranked))
	for i, r := range ranked {
		routes[i] = r.Candidate
		for j := range routes[i].Path {
			step := &routes[i].Path[j]
			if step.From == models.StartSentinel {
				step.From = models.CurrentLocationLabel
			}
			if step.To == models.EndSentinel {
				step.To = models.DestinationLabel
			}
		}
	}

	return models.Response{Result: &models.CalculateResult{Routes: routes}}
}

func errorResponse(err error) models.Response {
	return models.Response{Error: err.Error(), ErrKind: err}
}
