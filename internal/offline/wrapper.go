package offline

import (
	"context"

	"github.com/lunchline/core/internal/connectivity"
	"github.com/lunchline/core/internal/queue"
)

// Mutation describes one mutating API call the wrapper can route.
type Mutation struct {
	// Endpoint and Method identify the call for the queued form.
	Endpoint string
	Method   string

	// Run performs the call immediately against the live API and returns
	// its typed result. Used only when online.
	Run func(ctx context.Context, variables any) (any, error)

	// Serialize converts the caller's variables into the body stored for
	// replay. Nil means the mutation carries no body.
	Serialize func(variables any) (any, error)

	// Headers are extra request headers stored alongside the queued form.
	Headers map[string]string

	// OnSuccess fires with the result of a completed online call.
	OnSuccess func(result any)

	// OnError fires when the online call or the durable enqueue fails.
	OnError func(err error)

	// QueuedMessage is surfaced to the user when the mutation is queued.
	// A generic message is used when empty.
	QueuedMessage string
}

// Wrapper presents a single call surface that is agnostic to connectivity.
type Wrapper struct {
	queue    *queue.Manager
	signal   connectivity.Signal
	notifier Notifier
}

// NewWrapper creates a Wrapper.
func NewWrapper(q *queue.Manager, signal connectivity.Signal, notifier Notifier) *Wrapper {
	return &Wrapper{
		queue:    q,
		signal:   signal,
		notifier: notifier,
	}
}

// Mutate executes m now when online, or durably queues it when offline.
//
// Online: the result of Run is returned and OnSuccess fires; on failure
// OnError fires and the error is returned. Offline: the serialized form is
// enqueued, the queued message is surfaced, and (nil, nil) is returned —
// callers treat a nil result as "accepted but not yet confirmed".
// Exactly one of OnSuccess, OnError, or the queued notification fires per
// call.
func (w *Wrapper) Mutate(ctx context.Context, m *Mutation, variables any) (any, error) {
	if w.signal.IsOnline() {
		result, err := m.Run(ctx, variables)
		if err != nil {
			if m.OnError != nil {
				m.OnError(err)
			}
			return nil, err
		}
		if m.OnSuccess != nil {
			m.OnSuccess(result)
		}
		return result, nil
	}

	var body any
	if m.Serialize != nil {
		serialized, err := m.Serialize(variables)
		if err != nil {
			if m.OnError != nil {
				m.OnError(err)
			}
			return nil, err
		}
		body = serialized
	}

	if err := w.queue.Enqueue(ctx, m.Endpoint, m.Method, body, m.Headers); err != nil {
		// The mutation was neither performed nor queued; this must surface
		// as a hard error, not be silently swallowed.
		if m.OnError != nil {
			m.OnError(err)
		}
		return nil, err
	}

	message := m.QueuedMessage
	if message == "" {
		message = "Saved. Your change will be sent when you're back online."
	}
	w.notifier.Notify(message, NotifyInfo)
	return nil, nil
}
