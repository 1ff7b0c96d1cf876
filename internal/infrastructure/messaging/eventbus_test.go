package messaging

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/masy43/Student-Management-System/internal/domain/shared"
	"github.com/masy43/Student-Management-System/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSyncBus_DeliversInOrder(t *testing.T) {
	bus := NewInMemoryEventBus(DefaultInMemoryEventBusConfig())
	defer bus.Close()

	var got []string
	require.NoError(t, bus.Subscribe(shared.EventStudentAdded, func(e shared.Event) error {
		got = append(got, "added:"+e.AggregateID())
		return nil
	}))
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		got = append(got, "all:"+string(e.EventType()))
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewStudentAddedEvent("1", "Alice", 90, "Physics", "passed")))
	require.NoError(t, bus.Publish(shared.NewStudentRemovedEvent("1", "Alice")))

	assert.Equal(t, []string{
		"added:1",
		"all:roster.student_added",
		"all:roster.student_removed",
	}, got)

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(2), snap.TotalPublished)
	assert.Equal(t, int64(3), snap.TotalHandlerExecs)
}

func TestSyncBus_HandlerErrorsAreLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	cfg := DefaultInMemoryEventBusConfig()
	cfg.Logger = logger.NewFromZap(zap.New(core))
	bus := NewInMemoryEventBus(cfg)
	defer bus.Close()

	calls := 0
	_ = bus.SubscribeAll(func(shared.Event) error { return errors.New("boom") })
	_ = bus.SubscribeAll(func(shared.Event) error { panic("kaboom") })
	_ = bus.SubscribeAll(func(shared.Event) error { calls++; return nil })

	require.NoError(t, bus.Publish(shared.NewStudentRemovedEvent("1", "A")))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, logs.Len())
	assert.Contains(t, logs.All()[1].ContextMap()["error"], ErrHandlerPanic.Error())
	assert.Equal(t, int64(2), bus.Metrics().Snapshot().HandlerFailures)
}

func TestAsyncBus_CloseWaitsForHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: true, WorkerPoolSize: 2})

	var delivered atomic.Int32
	_ = bus.Subscribe(shared.EventStudentAdded, func(shared.Event) error {
		delivered.Add(1)
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(shared.NewStudentAddedEvent("x", "X", 50, "Physics", "average"))
		}()
	}
	wg.Wait()

	require.NoError(t, bus.Close())
	assert.Equal(t, int32(20), delivered.Load())
}

func TestClosedBus(t *testing.T) {
	bus := NewInMemoryEventBus(DefaultInMemoryEventBusConfig())
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(shared.NewStudentRemovedEvent("1", "A")), ErrEventBusClosed)
	assert.ErrorIs(t, bus.Subscribe(shared.EventStudentAdded, func(shared.Event) error { return nil }), ErrEventBusClosed)
}

func TestInvalidArguments(t *testing.T) {
	bus := NewInMemoryEventBus(DefaultInMemoryEventBusConfig())
	defer bus.Close()

	assert.Error(t, bus.Subscribe(shared.EventStudentAdded, nil))
	assert.Error(t, bus.SubscribeAll(nil))
	assert.Error(t, bus.Publish(nil))
}
