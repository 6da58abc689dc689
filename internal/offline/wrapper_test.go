package offline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunchline/core/internal/connectivity"
	"github.com/lunchline/core/internal/db"
	"github.com/lunchline/core/internal/queue"
)

// recordingNotifier captures notifications.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	kinds    []NotifyKind
}

func (n *recordingNotifier) Notify(message string, kind NotifyKind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	n.kinds = append(n.kinds, kind)
}

type fixture struct {
	store    *queue.Store
	manager  *queue.Manager
	signal   *connectivity.Static
	notifier *recordingNotifier
	wrapper  *Wrapper
	closeDB  func() error
}

func newFixture(t *testing.T, online bool) *fixture {
	t.Helper()

	handle, err := db.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { handle.Close() })

	store := queue.NewStore(handle.DB)
	t.Cleanup(func() { store.Close() })

	manager := queue.NewManager(store, func(ctx context.Context, req queue.Request) error {
		return nil
	})

	signal := connectivity.NewStatic(online)
	notifier := &recordingNotifier{}

	return &fixture{
		store:    store,
		manager:  manager,
		signal:   signal,
		notifier: notifier,
		wrapper:  NewWrapper(manager, signal, notifier),
		closeDB:  handle.Close,
	}
}

// signalCounter tracks which of the three outcome signals fired.
type signalCounter struct {
	success int
	failure int
}

func (c *signalCounter) mutation(endpoint string, run func(ctx context.Context, variables any) (any, error)) *Mutation {
	return &Mutation{
		Endpoint:      endpoint,
		Method:        "POST",
		Run:           run,
		Serialize:     func(variables any) (any, error) { return variables, nil },
		OnSuccess:     func(result any) { c.success++ },
		OnError:       func(err error) { c.failure++ },
		QueuedMessage: "Saved for later.",
	}
}

func TestMutateOnlineSuccess(t *testing.T) {
	f := newFixture(t, true)
	counter := &signalCounter{}
	ctx := context.Background()

	m := counter.mutation("feedback/", func(ctx context.Context, variables any) (any, error) {
		return "created", nil
	})

	result, err := f.wrapper.Mutate(ctx, m, map[string]any{"rating": 5})
	require.NoError(t, err)
	assert.Equal(t, "created", result)

	// Exactly one signal: success.
	assert.Equal(t, 1, counter.success)
	assert.Zero(t, counter.failure)
	assert.Empty(t, f.notifier.messages)

	// Online calls never touch the store.
	pending, err := f.store.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMutateOnlineFailure(t *testing.T) {
	f := newFixture(t, true)
	counter := &signalCounter{}
	ctx := context.Background()

	boom := errors.New("server said no")
	m := counter.mutation("feedback/", func(ctx context.Context, variables any) (any, error) {
		return nil, boom
	})

	result, err := f.wrapper.Mutate(ctx, m, nil)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, boom, "online failure propagates to the caller")

	// Exactly one signal: error.
	assert.Zero(t, counter.success)
	assert.Equal(t, 1, counter.failure)
	assert.Empty(t, f.notifier.messages)

	pending, lerr := f.store.ListPending(ctx)
	require.NoError(t, lerr)
	assert.Empty(t, pending)
}

func TestMutateOfflineQueues(t *testing.T) {
	f := newFixture(t, false)
	counter := &signalCounter{}
	ctx := context.Background()

	ranImmediate := false
	m := counter.mutation("feedback/", func(ctx context.Context, variables any) (any, error) {
		ranImmediate = true
		return nil, nil
	})

	result, err := f.wrapper.Mutate(ctx, m, map[string]any{"rating": 5})
	require.NoError(t, err)
	assert.Nil(t, result, "offline acceptance returns a nil result")
	assert.False(t, ranImmediate, "immediate path must not run while offline")

	// Exactly one signal: the queued notification.
	assert.Zero(t, counter.success)
	assert.Zero(t, counter.failure)
	require.Len(t, f.notifier.messages, 1)
	assert.Equal(t, "Saved for later.", f.notifier.messages[0])
	assert.Equal(t, NotifyInfo, f.notifier.kinds[0])

	pending, err := f.store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "feedback/", pending[0].Endpoint)
	assert.Equal(t, "POST", pending[0].Method)
}

func TestMutateOfflineDefaultQueuedMessage(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	m := &Mutation{
		Endpoint: "menu-qc/",
		Method:   "POST",
		Run: func(ctx context.Context, variables any) (any, error) {
			return nil, nil
		},
	}

	_, err := f.wrapper.Mutate(ctx, m, nil)
	require.NoError(t, err)

	require.Len(t, f.notifier.messages, 1, "a queued call always notifies")
	assert.NotEmpty(t, f.notifier.messages[0])
}

func TestMutateOfflineSerializeFailure(t *testing.T) {
	f := newFixture(t, false)
	counter := &signalCounter{}
	ctx := context.Background()

	m := counter.mutation("feedback/", nil)
	m.Serialize = func(variables any) (any, error) {
		return nil, errors.New("unserializable")
	}

	result, err := f.wrapper.Mutate(ctx, m, nil)
	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, 1, counter.failure)
	assert.Empty(t, f.notifier.messages)
}

func TestMutateOfflineEnqueueFailureSurfaces(t *testing.T) {
	f := newFixture(t, false)
	counter := &signalCounter{}
	ctx := context.Background()

	// Close the database underneath the queue so the durable write fails.
	require.NoError(t, f.closeDB())

	m := counter.mutation("feedback/", nil)
	result, err := f.wrapper.Mutate(ctx, m, map[string]any{"rating": 1})

	assert.Nil(t, result)
	assert.Error(t, err, "a mutation neither performed nor queued is a hard error")
	assert.Equal(t, 1, counter.failure)
	assert.Zero(t, counter.success)
	assert.Empty(t, f.notifier.messages, "no queued notification on enqueue failure")
}
