package clipboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zee-editor/zee/internal/scheduler"
)

// The system clipboard may be unavailable in a headless test environment,
// so these only check that a job is dispatched and a result eventually
// arrives on the scheduler, not that the clipboard round-trips.
func TestCopyDispatchesAJob(t *testing.T) {
	sched := scheduler.New()
	defer sched.Close()

	Copy(sched, "hello")
	select {
	case r := <-sched.Results:
		require.Equal(t, scheduler.KindClipboard, r.Key.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("clipboard copy job never completed")
	}
}

func TestPasteDispatchesAJob(t *testing.T) {
	sched := scheduler.New()
	defer sched.Close()

	Paste(sched)
	select {
	case r := <-sched.Results:
		require.Equal(t, scheduler.KindClipboard, r.Key.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("clipboard paste job never completed")
	}
}
