// Package changefeed provides in-process pub/sub over timetable changes.
// The TUI subscribes to invalidate cached layout when the store mutates;
// the change log command reads the persisted side of the feed.
package changefeed

import (
	"context"
	"sync"

	"github.com/hmelgaard/rota/internal/models"
)

// Handler is invoked for every change matching a subscription's filter.
type Handler func(change *models.Change)

// Appender persists published changes. *db.ChangeRepository satisfies it.
type Appender interface {
	Append(ctx context.Context, change *models.Change) error
}

// Filter narrows a subscription to particular changes.
type Filter struct {
	// Ops filters by operation (nil = all ops).
	Ops []models.ChangeOp

	// EntityTypes filters by entity type (nil = all entities).
	EntityTypes []models.EntityType

	// EntityID filters to a single entity (empty = all).
	EntityID string
}

// Matches reports whether the change passes the filter.
func (f *Filter) Matches(change *models.Change) bool {
	if change == nil {
		return false
	}

	if len(f.Ops) > 0 {
		matched := false
		for _, op := range f.Ops {
			if change.Op == op {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.EntityTypes) > 0 {
		matched := false
		for _, t := range f.EntityTypes {
			if change.EntityType == t {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.EntityID != "" && change.EntityID != f.EntityID {
		return false
	}

	return true
}

type subscription struct {
	id      string
	filter  Filter
	handler Handler
}

// Publisher is the interface the store and CLI publish through.
type Publisher interface {
	// Publish delivers a change to all matching subscribers.
	Publish(ctx context.Context, change *models.Change)

	// Subscribe registers a handler under an ID for later removal.
	Subscribe(id string, filter Filter, handler Handler) error

	// Unsubscribe removes a subscription by ID.
	Unsubscribe(id string) error

	// SubscriberCount returns the number of active subscribers.
	SubscriberCount() int
}

// Feed implements Publisher with in-process fan-out and optional
// persistence of every published change.
type Feed struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	appender      Appender
}

// Option configures a Feed.
type Option func(*Feed)

// WithAppender persists every published change before fan-out.
func WithAppender(appender Appender) Option {
	return func(f *Feed) {
		f.appender = appender
	}
}

// New creates an empty Feed.
func New(opts ...Option) *Feed {
	f := &Feed{
		subscriptions: make(map[string]*subscription),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Publish delivers a change to all matching subscribers. Persistence is
// best effort; a failed append never blocks delivery.
func (f *Feed) Publish(ctx context.Context, change *models.Change) {
	if change == nil {
		return
	}

	if f.appender != nil {
		_ = f.appender.Append(ctx, change)
	}

	f.mu.RLock()
	var handlers []Handler
	for _, sub := range f.subscriptions {
		if sub.filter.Matches(change) {
			handlers = append(handlers, sub.handler)
		}
	}
	f.mu.RUnlock()

	// Handlers run outside the lock so they may subscribe or unsubscribe.
	for _, handler := range handlers {
		handler(change)
	}
}

// Subscribe registers a handler to receive matching changes.
func (f *Feed) Subscribe(id string, filter Filter, handler Handler) error {
	if id == "" {
		return ErrInvalidSubscriptionID
	}
	if handler == nil {
		return ErrNilHandler
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.subscriptions[id]; exists {
		return ErrSubscriptionExists
	}

	f.subscriptions[id] = &subscription{
		id:      id,
		filter:  filter,
		handler: handler,
	}

	return nil
}

// Unsubscribe removes a subscription by ID.
func (f *Feed) Unsubscribe(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.subscriptions[id]; !exists {
		return ErrSubscriptionNotFound
	}

	delete(f.subscriptions, id)
	return nil
}

// SubscriberCount returns the number of active subscribers.
func (f *Feed) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscriptions)
}

// Close removes all subscriptions.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscriptions = make(map[string]*subscription)
}

// Errors for feed operations.
var (
	ErrInvalidSubscriptionID = &FeedError{Message: "subscription ID is required"}
	ErrNilHandler            = &FeedError{Message: "handler cannot be nil"}
	ErrSubscriptionExists    = &FeedError{Message: "subscription with this ID already exists"}
	ErrSubscriptionNotFound  = &FeedError{Message: "subscription not found"}
)

// FeedError represents an error from feed operations.
type FeedError struct {
	Message string
}

func (e *FeedError) Error() string {
	return e.Message
}
