package views

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/Iron-Ham/fintrack/internal/logging"
)

// LoadFunc performs a view's fetches. It reads no view state and may run on
// any goroutine.
type LoadFunc[D any] func(ctx context.Context) (D, error)

// Ticket identifies one started load. Only the newest ticket of a view
// may apply; older results are dropped.
type Ticket uint64

// fetchAll runs fetches in parallel and waits for all of them. The first
// failure cancels the rest and is returned.
func fetchAll(ctx context.Context, fetches ...func(context.Context) error) error {
	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()
	for _, fetch := range fetches {
		p.Go(fetch)
	}
	return p.Wait()
}

// loadState tracks one view's data. A failed load leaves the previous data
// in place.
type loadState[D any] struct {
	logger  *logging.Logger
	gen     Ticket
	loading bool
	loaded  bool
	data    D
}

func (s *loadState[D]) begin() Ticket {
	s.gen++
	s.loading = true
	return s.gen
}

// stale reports whether a newer load has started since t.
func (s *loadState[D]) stale(t Ticket) bool {
	return t != s.gen
}

func (s *loadState[D]) apply(t Ticket, data D, err error) error {
	if s.stale(t) {
		s.logger.Debug("dropped stale load", "ticket", uint64(t), "current", uint64(s.gen))
		return nil
	}
	s.loading = false
	if err != nil {
		s.logger.Error("load failed", "error", err.Error())
		return err
	}
	s.data = data
	s.loaded = true
	return nil
}

func runLoad[D any](ctx context.Context, start func() (Ticket, LoadFunc[D]), apply func(Ticket, D, error) error) error {
	t, run := start()
	data, err := run(ctx)
	return apply(t, data, err)
}
