package pipeline

import (
	"github.com/poiesic/homematch/core"
	"github.com/poiesic/homematch/prefs"
)

// Monitor provides hooks to observe a match run.
// Implement this interface to track intermediate stages and results.
type Monitor interface {
	Start(input prefs.RawInput)
	AfterNormalize(query string, preferences *core.UserPreferences)
	AfterRetrieval(candidates []*core.Listing)
	AfterRerank(shortlist []core.ScoredListing)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ prefs.RawInput)                                {}
func (n *noopMonitor) AfterNormalize(_ string, _ *core.UserPreferences)      {}
func (n *noopMonitor) AfterRetrieval(_ []*core.Listing)                      {}
func (n *noopMonitor) AfterRerank(_ []core.ScoredListing)                    {}
func (n *noopMonitor) Finish(_ *Result)                                      {}
