// Package pipeline filters a stream of candidate patterns down to unique,
// fully enumerated records.
package pipeline

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pipeline turns a candidate source into a lazy stream of records.
// Rejections never end the stream; it ends when the consumer stops, the
// context is done, the source runs dry, or the consecutive-reject guard
// trips.
type Pipeline struct {
	*Validator
	source iter.Seq[string]
	dedup  *Deduper

	mu    sync.Mutex
	stats Stats
	err   error
}

// New builds a pipeline over source.
func New(source iter.Seq[string], opts ...Option) (*Pipeline, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: source is nil", ErrInvalidOptions)
	}
	v, err := NewValidator(opts...)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		Validator: v,
		source:    source,
		dedup:     NewDeduper(v.cfg.expectedItems, v.cfg.fpRate),
		stats:     Stats{Rejected: make(map[Reason]int64)},
	}, nil
}

// Err returns the reason the last stream ended early, if any.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Stats returns a snapshot of the counters.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.Rejected = maps.Clone(p.stats.Rejected)
	return s
}

// Records yields validated records. With more than one worker, candidates
// are validated concurrently and emitted in completion order.
func (p *Pipeline) Records(ctx context.Context) iter.Seq[Record] {
	if p.cfg.workers > 1 {
		return p.parallel(ctx)
	}
	return p.sequential(ctx)
}

type outcome struct {
	rec    Record
	reason Reason
}

func (p *Pipeline) sequential(ctx context.Context) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		p.cfg.logger.Section("validation")
		g := p.newGate()
		for candidate := range p.source {
			if err := ctx.Err(); err != nil {
				p.fail(err)
				return
			}
			rec, reason := p.Validate(ctx, candidate)
			if err := ctx.Err(); err != nil {
				p.fail(err)
				return
			}
			if !g.admit(yield, outcome{rec: rec, reason: reason}) {
				return
			}
		}
	}
}

func (p *Pipeline) parallel(ctx context.Context) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		p.cfg.logger.Section(fmt.Sprintf("validation (%d workers)", p.cfg.workers))

		ctx, cancel := context.WithCancel(ctx)
		grp, gctx := errgroup.WithContext(ctx)
		candidates := make(chan string)
		results := make(chan outcome)

		grp.Go(func() error {
			defer close(candidates)
			for c := range p.source {
				select {
				case candidates <- c:
				case <-gctx.Done():
					return nil
				}
			}
			return nil
		})

		var workers sync.WaitGroup
		for i := 0; i < p.cfg.workers; i++ {
			workers.Add(1)
			grp.Go(func() error {
				defer workers.Done()
				for c := range candidates {
					rec, reason := p.Validate(gctx, c)
					select {
					case results <- outcome{rec: rec, reason: reason}:
					case <-gctx.Done():
						return nil
					}
				}
				return nil
			})
		}
		go func() {
			workers.Wait()
			close(results)
		}()

		defer func() {
			cancel()
			_ = grp.Wait()
		}()

		g := p.newGate()
		for out := range results {
			if err := ctx.Err(); err != nil {
				p.fail(err)
				return
			}
			if !g.admit(yield, out) {
				return
			}
		}
		if err := ctx.Err(); err != nil {
			p.fail(err)
		}
	}
}

// gate is the single writer of the dedup filter and the stream counters.
type gate struct {
	p       *Pipeline
	rejects int
}

func (p *Pipeline) newGate() *gate {
	p.mu.Lock()
	p.err = nil
	p.mu.Unlock()
	return &gate{p: p}
}

// admit applies dedup, records the outcome and yields accepted records.
// It returns false when the stream must end.
func (g *gate) admit(yield func(Record) bool, out outcome) bool {
	p := g.p
	p.count(func(s *Stats) { s.Candidates++ })
	p.metrics.candidates.Inc()

	reason := out.reason
	if reason == Accepted && p.dedup.Seen(out.rec.Regex) {
		reason = Duplicate
	}

	if reason != Accepted {
		p.reject(out.rec.Regex, reason)
		g.rejects++
		if limit := p.cfg.maxRejects; limit > 0 && g.rejects >= limit {
			p.cfg.logger.Warningf("giving up after %d consecutive rejections", g.rejects)
			p.fail(fmt.Errorf("%w: %d consecutive rejections", ErrExhausted, g.rejects))
			return false
		}
		return true
	}

	g.rejects = 0
	p.count(func(s *Stats) { s.Emitted++ })
	p.metrics.records.Inc()
	p.cfg.logger.Log("accepted %q (complexity %d)", out.rec.Regex, out.rec.Complexity)
	return yield(out.rec)
}

func (p *Pipeline) reject(candidate string, reason Reason) {
	p.count(func(s *Stats) { s.Rejected[reason]++ })
	p.metrics.rejections.WithLabelValues(reason.String()).Inc()
	p.cfg.logger.Log("rejected %q: %s", candidate, reason)
	if p.cfg.onReject != nil {
		p.cfg.onReject(candidate, reason)
	}
}

func (p *Pipeline) count(fn func(*Stats)) {
	p.mu.Lock()
	fn(&p.stats)
	p.mu.Unlock()
}

func (p *Pipeline) fail(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}
