package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent_Deterministic(t *testing.T) {
	id1 := IDFromContent("subfloor replacement")
	id2 := IDFromContent("subfloor replacement")
	assert.Equal(t, id1, id2, "same content must produce same ID")
}

func TestIDFromContent_DifferentContent(t *testing.T) {
	id1 := IDFromContent("subfloor replacement")
	id2 := IDFromContent("drywall repair")
	assert.NotEqual(t, id1, id2)
}

func TestCandidateSource_String(t *testing.T) {
	assert.Equal(t, "lexical", SourceLexical.String())
	assert.Equal(t, "vector", SourceVector.String())
	assert.Equal(t, "fallback", SourceFallback.String())
	assert.Equal(t, "unknown", CandidateSource(0).String())
}

func TestResolutionKind_String(t *testing.T) {
	assert.Equal(t, "match", KindMatch.String())
	assert.Equal(t, "review", KindReview.String())
	assert.Equal(t, "create", KindCreate.String())
	assert.Equal(t, "unknown", ResolutionKind(99).String())
}

func TestJobStatus_Terminal(t *testing.T) {
	assert.False(t, JobQueued.Terminal())
	assert.False(t, JobRunning.Terminal())
	assert.True(t, JobCompleted.Terminal())
	assert.True(t, JobFailed.Terminal())
}
