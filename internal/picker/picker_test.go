package picker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreRejectsNonSubsequence(t *testing.T) {
	assert.Equal(t, -1, Score("xyz", "hello"))
}

func TestScorePrefersWordBoundaryAndConsecutive(t *testing.T) {
	prefix := Score("ed", "editor.go")
	scattered := Score("ed", "builder.go")
	assert.Greater(t, prefix, scattered)
}

func TestPickerFeedAndResultsRespectTopN(t *testing.T) {
	p := New(KindFile, 2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := make(chan Candidate, 4)
	src <- Candidate{Text: "alpha.go"}
	src <- Candidate{Text: "alphabet.go"}
	src <- Candidate{Text: "beta.go"}
	close(src)

	done := make(chan struct{})
	go func() {
		p.Feed(ctx, src)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("feed did not drain")
	}

	p.SetQuery("alpha")
	results := p.Results()
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Contains(t, r.Text, "alpha")
	}
}

func TestSetQueryRescoresWithoutLosingCandidates(t *testing.T) {
	p := New(KindBuffer, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := make(chan Candidate, 2)
	src <- Candidate{Text: "scratch"}
	src <- Candidate{Text: "main.go"}
	close(src)
	p.Feed(ctx, src)

	p.SetQuery("main")
	got := p.Results()
	require.Len(t, got, 1)
	assert.Equal(t, "main.go", got[0].Text)

	p.SetQuery("")
	assert.Len(t, p.Results(), 2)
}
