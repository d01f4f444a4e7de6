package changefeed

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hmelgaard/rota/internal/models"
)

func TestFilterMatches(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		change *models.Change
		want   bool
	}{
		{
			name:   "empty filter matches any change",
			filter: Filter{},
			change: &models.Change{Op: models.ChangeEventCreated, EntityType: models.EntityEvent, EntityID: "e1"},
			want:   true,
		},
		{
			name:   "nil change returns false",
			filter: Filter{},
			change: nil,
			want:   false,
		},
		{
			name:   "op filter matches",
			filter: Filter{Ops: []models.ChangeOp{models.ChangeEventCreated}},
			change: &models.Change{Op: models.ChangeEventCreated, EntityType: models.EntityEvent, EntityID: "e1"},
			want:   true,
		},
		{
			name:   "op filter rejects non-matching",
			filter: Filter{Ops: []models.ChangeOp{models.ChangeEventCreated}},
			change: &models.Change{Op: models.ChangeEventDeleted, EntityType: models.EntityEvent, EntityID: "e1"},
			want:   false,
		},
		{
			name: "multiple ops match any",
			filter: Filter{Ops: []models.ChangeOp{
				models.ChangeTaskToggled,
				models.ChangeTaskReordered,
			}},
			change: &models.Change{Op: models.ChangeTaskReordered, EntityType: models.EntityTask, EntityID: "t1"},
			want:   true,
		},
		{
			name:   "entity type filter matches",
			filter: Filter{EntityTypes: []models.EntityType{models.EntityTask}},
			change: &models.Change{Op: models.ChangeTaskToggled, EntityType: models.EntityTask, EntityID: "t1"},
			want:   true,
		},
		{
			name:   "entity type filter rejects non-matching",
			filter: Filter{EntityTypes: []models.EntityType{models.EntityTask}},
			change: &models.Change{Op: models.ChangeEventUpdated, EntityType: models.EntityEvent, EntityID: "e1"},
			want:   false,
		},
		{
			name:   "entity ID filter matches",
			filter: Filter{EntityID: "e1"},
			change: &models.Change{Op: models.ChangeEventUpdated, EntityType: models.EntityEvent, EntityID: "e1"},
			want:   true,
		},
		{
			name:   "entity ID filter rejects other entities",
			filter: Filter{EntityID: "e1"},
			change: &models.Change{Op: models.ChangeEventUpdated, EntityType: models.EntityEvent, EntityID: "e2"},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.change); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFeedPublishAndSubscribe(t *testing.T) {
	feed := New()
	defer feed.Close()

	var received []*models.Change
	err := feed.Subscribe("tui", Filter{EntityTypes: []models.EntityType{models.EntityEvent}}, func(c *models.Change) {
		received = append(received, c)
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	feed.Publish(context.Background(), &models.Change{Op: models.ChangeEventCreated, EntityType: models.EntityEvent, EntityID: "e1"})
	feed.Publish(context.Background(), &models.Change{Op: models.ChangeTaskToggled, EntityType: models.EntityTask, EntityID: "t1"})

	if len(received) != 1 {
		t.Fatalf("expected 1 delivered change, got %d", len(received))
	}
	if received[0].EntityID != "e1" {
		t.Fatalf("unexpected change delivered: %+v", received[0])
	}
}

func TestFeedSubscribeValidation(t *testing.T) {
	feed := New()
	defer feed.Close()

	if err := feed.Subscribe("", Filter{}, func(*models.Change) {}); !errors.Is(err, ErrInvalidSubscriptionID) {
		t.Fatalf("expected ErrInvalidSubscriptionID, got %v", err)
	}
	if err := feed.Subscribe("x", Filter{}, nil); !errors.Is(err, ErrNilHandler) {
		t.Fatalf("expected ErrNilHandler, got %v", err)
	}
	if err := feed.Subscribe("x", Filter{}, func(*models.Change) {}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := feed.Subscribe("x", Filter{}, func(*models.Change) {}); !errors.Is(err, ErrSubscriptionExists) {
		t.Fatalf("expected ErrSubscriptionExists, got %v", err)
	}
	if feed.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", feed.SubscriberCount())
	}
}

func TestFeedUnsubscribe(t *testing.T) {
	feed := New()
	defer feed.Close()

	if err := feed.Unsubscribe("missing"); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
	}

	delivered := 0
	if err := feed.Subscribe("x", Filter{}, func(*models.Change) { delivered++ }); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := feed.Unsubscribe("x"); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}

	feed.Publish(context.Background(), &models.Change{Op: models.ChangeEventCreated, EntityType: models.EntityEvent})
	if delivered != 0 {
		t.Fatalf("expected no delivery after unsubscribe, got %d", delivered)
	}
}

type recordingAppender struct {
	mu      sync.Mutex
	changes []*models.Change
}

func (a *recordingAppender) Append(_ context.Context, change *models.Change) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.changes = append(a.changes, change)
	return nil
}

func TestFeedPersistsThroughAppender(t *testing.T) {
	appender := &recordingAppender{}
	feed := New(WithAppender(appender))
	defer feed.Close()

	feed.Publish(context.Background(), &models.Change{Op: models.ChangeZoomCommitted, EntityType: models.EntitySettings})
	feed.Publish(context.Background(), nil)

	if len(appender.changes) != 1 {
		t.Fatalf("expected 1 persisted change, got %d", len(appender.changes))
	}
	if appender.changes[0].Op != models.ChangeZoomCommitted {
		t.Fatalf("unexpected persisted change: %+v", appender.changes[0])
	}
}

func TestFeedHandlerMayUnsubscribeDuringPublish(t *testing.T) {
	feed := New()
	defer feed.Close()

	if err := feed.Subscribe("once", Filter{}, func(*models.Change) {
		_ = feed.Unsubscribe("once")
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	feed.Publish(context.Background(), &models.Change{Op: models.ChangeEventCreated, EntityType: models.EntityEvent})
	if feed.SubscriberCount() != 0 {
		t.Fatalf("expected handler to remove itself, got %d subscribers", feed.SubscriberCount())
	}
}
