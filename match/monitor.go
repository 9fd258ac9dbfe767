package match

import "github.com/renovelt/catalog/core"

// ResolveMonitor provides hooks to observe the resolution process.
// Implement this interface to track intermediate steps during resolution.
type ResolveMonitor interface {
	Start(text string)
	CacheHit(result core.ResolutionResult)
	AfterLexical(candidates []core.MatchCandidate)
	SemanticSkipped(topScore float32)
	SemanticDegraded(err error)
	AfterSemantic(candidates []core.MatchCandidate)
	AfterCombine(candidates []core.MatchCandidate)
	Finish(result core.ResolutionResult)
}

// noopMonitor is a no-op implementation of ResolveMonitor
type noopMonitor struct{}

var _ ResolveMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                        {}
func (n *noopMonitor) CacheHit(_ core.ResolutionResult)      {}
func (n *noopMonitor) AfterLexical(_ []core.MatchCandidate)  {}
func (n *noopMonitor) SemanticSkipped(_ float32)             {}
func (n *noopMonitor) SemanticDegraded(_ error)              {}
func (n *noopMonitor) AfterSemantic(_ []core.MatchCandidate) {}
func (n *noopMonitor) AfterCombine(_ []core.MatchCandidate)  {}
func (n *noopMonitor) Finish(_ core.ResolutionResult)        {}
