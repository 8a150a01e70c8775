package search

import "github.com/poiesic/pharmainspect/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track remote searches and their outcome.
type SearchMonitor interface {
	Start(params map[string]string)
	AfterRemoteSearch(records []*core.Record)
	Failed(err error)
	Reset()
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ map[string]string)          {}
func (n *noopMonitor) AfterRemoteSearch(_ []*core.Record) {}
func (n *noopMonitor) Failed(_ error)                     {}
func (n *noopMonitor) Reset()                             {}
