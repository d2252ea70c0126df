package lifecycle_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notehublifecycle "github.com/aretw0/notehub/pkg/adapters/lifecycle"
	"github.com/aretw0/notehub/pkg/core"
)

func TestEvent_Format(t *testing.T) {
	created := notehublifecycle.Event{Event: core.Event{Type: core.EventCreate, ID: "7", Timestamp: 1767225600}}
	assert.Equal(t, "note 7 created", created.String())
	assert.Equal(t, []any{"action", "create", "id", "7", "at", "2026-01-01T00:00:00Z"}, created.Attrs())

	deleted := notehublifecycle.Event{Event: core.Event{Type: core.EventDelete, ID: "9"}}
	assert.Equal(t, "note 9 deleted", deleted.String())
	assert.Equal(t, []any{"action", "delete", "id", "9"}, deleted.Attrs())
}

func TestSource_ForwardsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 2)
	src := notehublifecycle.NewSource(in)
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventCreate, ID: "7"}
	in <- core.Event{Type: core.EventDelete, ID: "7"}

	for _, want := range []string{"note 7 created", "note 7 deleted"} {
		select {
		case e := <-src.Events():
			assert.Equal(t, want, e.String())
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
	assert.Equal(t, uint64(2), src.Forwarded())
}

func TestSource_ClosesWhenInputCloses(t *testing.T) {
	in := make(chan core.Event)
	src := notehublifecycle.NewSource(in)
	require.NoError(t, src.Start(context.Background()))

	close(in)

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("output channel not closed")
	}
}

func TestSource_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := notehublifecycle.NewSource(make(chan core.Event))
	require.NoError(t, src.Start(ctx))

	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("output channel not closed after cancel")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestAudit_LogsMutations(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	logger := slog.New(slog.NewTextHandler(&out, nil))

	in := make(chan core.Event, 1)
	src, err := notehublifecycle.Audit(ctx, in, logger)
	require.NoError(t, err)

	in <- core.Event{Type: core.EventDelete, ID: "42"}

	require.Eventually(t, func() bool { return src.Forwarded() == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "action=delete id=42")
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, out.String(), `msg="note 42 deleted"`)
}
