package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/looplab/fsm"
	"github.com/poiesic/pharmainspect/core"
)

// Search view states.
const (
	StateIdle      = "idle"
	StateSearching = "searching"
	StateShowing   = "showing"
)

const (
	eventSubmit  = "submit"
	eventSucceed = "succeed"
	eventFail    = "fail"
	eventReset   = "reset"
)

// RecordSearcher runs a search on the remote record store.
// Params are keyed by wire names, see WireKeys.
type RecordSearcher interface {
	SearchRecords(ctx context.Context, params map[string]string) ([]*core.Record, error)
}

// Orchestrator runs remote searches and keeps the last successful result set.
// Client-only criteria are applied afterwards with Visible.
type Orchestrator struct {
	searcher RecordSearcher
	monitor  SearchMonitor
	logger   *slog.Logger

	mu         sync.Mutex
	machine    *fsm.FSM
	results    []*core.Record
	hasResults bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithMonitor installs a monitor that observes every search.
func WithMonitor(monitor SearchMonitor) Option {
	return func(o *Orchestrator) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		o.monitor = monitor
		return nil
	}
}

// NewOrchestrator creates a new orchestrator in the idle state.
func NewOrchestrator(searcher RecordSearcher, opts ...Option) (*Orchestrator, error) {
	if searcher == nil {
		return nil, ErrRecordSearcherRequired
	}

	o := &Orchestrator{
		searcher: searcher,
		monitor:  &noopMonitor{},
		logger:   slog.Default(),
		machine: fsm.NewFSM(
			StateIdle,
			fsm.Events{
				{Name: eventSubmit, Src: []string{StateIdle, StateShowing}, Dst: StateSearching},
				{Name: eventSucceed, Src: []string{StateSearching}, Dst: StateShowing},
				{Name: eventFail, Src: []string{StateSearching}, Dst: StateIdle},
				{Name: eventReset, Src: []string{StateShowing}, Dst: StateIdle},
			},
			fsm.Callbacks{},
		),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// State returns the current search view state.
func (o *Orchestrator) State() string {
	return o.machine.Current()
}

// Search sends the remotely searchable criteria to the record store and
// caches the returned records verbatim.
//
// On failure the error wraps ErrSearchFailed and the previous results stay in
// place. A second call while one is running returns ErrSearchInProgress.
func (o *Orchestrator) Search(ctx context.Context, criteria core.Criteria) ([]*core.Record, error) {
	params := WireParams(criteria)

	o.mu.Lock()
	if !o.machine.Can(eventSubmit) {
		o.mu.Unlock()
		return nil, ErrSearchInProgress
	}
	if err := o.machine.Event(ctx, eventSubmit); err != nil {
		o.mu.Unlock()
		return nil, fmt.Errorf("starting search: %w", err)
	}
	o.mu.Unlock()

	o.monitor.Start(params)
	o.logger.Debug("searching records", "params", params)

	records, err := o.searcher.SearchRecords(ctx, params)

	o.mu.Lock()
	defer o.mu.Unlock()

	// Transitions must complete even when ctx was cancelled mid-search.
	stateCtx := context.WithoutCancel(ctx)

	if err != nil {
		o.logger.Error("remote search failed", "err", err)
		if ferr := o.machine.Event(stateCtx, eventFail); ferr != nil {
			o.logger.Warn("search state transition failed", "event", eventFail, "err", ferr)
		}
		o.monitor.Failed(err)
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	o.results = records
	o.hasResults = true
	if serr := o.machine.Event(stateCtx, eventSucceed); serr != nil {
		o.logger.Warn("search state transition failed", "event", eventSucceed, "err", serr)
	}
	o.monitor.AfterRemoteSearch(records)
	o.logger.Debug("search complete", "count", len(records))

	return records, nil
}

// Reset drops the cached results and returns to the idle state.
// It has no effect on a search that is still running.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.machine.Is(StateSearching) {
		return
	}
	o.results = nil
	o.hasResults = false
	if o.machine.Can(eventReset) {
		if err := o.machine.Event(context.Background(), eventReset); err != nil {
			o.logger.Warn("search state transition failed", "event", eventReset, "err", err)
		}
	}
	o.monitor.Reset()
}

// Results returns the cached remote results and whether there are any.
func (o *Orchestrator) Results() ([]*core.Record, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.results, o.hasResults
}

// Base returns the collection local filters apply to: the cached remote
// results when a search has succeeded, otherwise all.
func (o *Orchestrator) Base(all []*core.Record) []*core.Record {
	if results, ok := o.Results(); ok {
		return results
	}
	return all
}

// Visible applies every criterion locally on top of Base.
func (o *Orchestrator) Visible(all []*core.Record, criteria core.Criteria, user *core.User, myRecords bool) []*core.Record {
	return Filter(o.Base(all), criteria, user, myRecords)
}

// Forget removes a record from the cached results, typically after it was
// deleted remotely.
func (o *Orchestrator) Forget(id core.ID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.hasResults {
		return
	}
	o.results = slices.DeleteFunc(slices.Clone(o.results), func(r *core.Record) bool {
		return r != nil && r.ID == id
	})
}
