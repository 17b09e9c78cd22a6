package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zee-editor/zee/internal/buffer"
)

func TestAcceptRejectsStaleResult(t *testing.T) {
	current := buffer.ParseState{Version: 5}
	result := Result{PostVer: 3}

	_, ok := Accept(current, result, 5)
	assert.False(t, ok, "a result older than current must be rejected")
}

func TestAcceptRejectsWhenBufferMovedOn(t *testing.T) {
	current := buffer.ParseState{Version: 1}
	result := Result{PostVer: 2, Spans: []buffer.Span{{Start: 0, End: 3, Name: "keyword"}}}

	_, ok := Accept(current, result, 3) // live version is now 3, not 2
	assert.False(t, ok)
}

func TestAcceptAppliesMatchingResult(t *testing.T) {
	current := buffer.ParseState{Version: 1}
	result := Result{PostVer: 2, Spans: []buffer.Span{
		{Start: 5, End: 8, Name: "string"},
		{Start: 0, End: 3, Name: "keyword"},
	}}

	next, ok := Accept(current, result, 2)
	assert.True(t, ok)
	assert.Equal(t, 2, next.Version)
	// spans must come out sorted by start, per spec.md §8 scenario 6.
	assert.Equal(t, 0, next.Spans[0].Start)
	assert.Equal(t, 5, next.Spans[1].Start)
}

func TestSpansInRangeBinarySearch(t *testing.T) {
	spans := []buffer.Span{
		{Start: 0, End: 5, Name: "keyword"},
		{Start: 5, End: 10, Name: "string"},
		{Start: 20, End: 25, Name: "comment"},
	}
	got := SpansInRange(spans, 6, 21)
	assert.Len(t, got, 2)
	assert.Equal(t, "string", got[0].Name)
	assert.Equal(t, "comment", got[1].Name)
}
