package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitDeliversResult(t *testing.T) {
	s := New()
	defer s.Close()

	key := Key{Kind: KindRead, ID: "a"}
	s.Submit(key, func(ctx context.Context) (any, error) {
		return "ok", nil
	})

	select {
	case r := <-s.Results:
		assert.Equal(t, key, r.Key)
		assert.Equal(t, "ok", r.Value)
		require.NoError(t, r.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for job result")
	}
}

func TestSameKeySupersedes(t *testing.T) {
	s := New()
	defer s.Close()

	key := Key{Kind: KindParse, ID: "buf-1"}
	started := make(chan struct{})
	blockUntilCancelled := make(chan struct{})

	s.Submit(key, func(ctx context.Context) (any, error) {
		close(started)
		<-ctx.Done()
		close(blockUntilCancelled)
		return nil, ctx.Err()
	})
	<-started

	s.Submit(key, func(ctx context.Context) (any, error) {
		return "second", nil
	})

	select {
	case <-blockUntilCancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("first job was never cancelled")
	}

	seen := map[any]bool{}
	for i := 0; i < 2; i++ {
		select {
		case r := <-s.Results:
			seen[r.Value] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for results")
		}
	}
	assert.True(t, seen["second"])
}
