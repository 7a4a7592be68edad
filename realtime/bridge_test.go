package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *captureNotifier) Broadcast(code string, event string, _ any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, code+"/"+event)
}

func (n *captureNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

func TestBridge_RelaysAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)

	clientA := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	clientB := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer clientA.Close()
	defer clientB.Close()

	localA := &captureNotifier{}
	localB := &captureNotifier{}
	bridgeA := NewBridge(clientA, localA)
	bridgeB := NewBridge(clientB, localB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bridgeA.Run(ctx)
	go bridgeB.Run(ctx)

	// Give both subscriptions time to attach.
	time.Sleep(50 * time.Millisecond)

	bridgeA.Broadcast("X7K2M9", "session_started", map[string]any{"ok": true})

	// Local delivery is synchronous.
	require.Equal(t, []string{"X7K2M9/session_started"}, localA.Events())

	// Remote delivery arrives through pub/sub.
	require.Eventually(t, func() bool {
		return len(localB.Events()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"X7K2M9/session_started"}, localB.Events())

	// The publishing instance must not hear its own echo.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"X7K2M9/session_started"}, localA.Events())
}
