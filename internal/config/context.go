package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hmelgaard/rota/internal/models"
)

// Context is the current CLI selection: which day and event the short
// commands (`rota tasks list`, `rota tasks add`) operate on when no flag
// says otherwise.
type Context struct {
	// Day is the selected day name, lowercase ("monday"). Empty when unset.
	Day string `yaml:"day,omitempty"`
	// EventID is the currently selected event.
	EventID string `yaml:"event,omitempty"`
	// EventTitle is the event's title at selection time (for display).
	EventTitle string `yaml:"event_title,omitempty"`
	// UpdatedAt is when the context was last modified.
	UpdatedAt time.Time `yaml:"updated_at,omitempty"`
}

// IsEmpty returns true if no context is set.
func (c *Context) IsEmpty() bool {
	return c.Day == "" && c.EventID == ""
}

// HasDay returns true if a day is selected.
func (c *Context) HasDay() bool {
	return c.Day != ""
}

// HasEvent returns true if an event is selected.
func (c *Context) HasEvent() bool {
	return c.EventID != ""
}

// DayOrdinal resolves the selected day name to its 0=Sunday ordinal.
func (c *Context) DayOrdinal() (int, error) {
	return ParseDayName(c.Day)
}

// ParseDayName resolves a day name (any case, full name) to its ordinal.
func ParseDayName(name string) (int, error) {
	for i, n := range models.DayNames {
		if strings.EqualFold(n, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", name)
}

// Clear removes all context.
func (c *Context) Clear() {
	c.Day = ""
	c.EventID = ""
	c.EventTitle = ""
	c.UpdatedAt = time.Now()
}

// SetDay sets the day context. Changing the day drops the event selection;
// an event belongs to one day.
func (c *Context) SetDay(day int) {
	if day >= models.Sunday && day <= models.Saturday {
		c.Day = strings.ToLower(models.DayNames[day])
	}
	c.EventID = ""
	c.EventTitle = ""
	c.UpdatedAt = time.Now()
}

// SetEvent sets the event context.
func (c *Context) SetEvent(id, title string) {
	c.EventID = id
	c.EventTitle = title
	c.UpdatedAt = time.Now()
}

// String returns a human-readable representation of the context.
func (c *Context) String() string {
	if c.IsEmpty() {
		return "(no context set)"
	}
	var parts []string
	if c.HasDay() {
		parts = append(parts, fmt.Sprintf("day:%s", c.Day))
	}
	if c.HasEvent() {
		name := c.EventTitle
		if name == "" {
			name = shortID(c.EventID)
		}
		parts = append(parts, fmt.Sprintf("event:%s", name))
	}
	return strings.Join(parts, " ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ContextStore manages loading and saving context.
type ContextStore struct {
	path string
	mu   sync.RWMutex
}

// NewContextStore creates a new context store.
// If path is empty, uses the default path (~/.config/rota/context.yaml).
func NewContextStore(path string) *ContextStore {
	if path == "" {
		homeDir, _ := os.UserHomeDir()
		path = filepath.Join(homeDir, ".config", "rota", "context.yaml")
	}
	return &ContextStore{path: path}
}

// DefaultContextStore returns a context store using the default path.
func DefaultContextStore() *ContextStore {
	return NewContextStore("")
}

// Path returns the context file path.
func (s *ContextStore) Path() string {
	return s.path
}

// Load reads the context from disk.
// Returns an empty context if the file doesn't exist.
func (s *ContextStore) Load() (*Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := &Context{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ctx, nil
		}
		return nil, fmt.Errorf("failed to read context file: %w", err)
	}

	if err := yaml.Unmarshal(data, ctx); err != nil {
		return nil, fmt.Errorf("failed to parse context file: %w", err)
	}

	return ctx, nil
}

// Save writes the context to disk.
func (s *ContextStore) Save(ctx *Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create context directory: %w", err)
	}

	data, err := yaml.Marshal(ctx)
	if err != nil {
		return fmt.Errorf("failed to serialize context: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write context file: %w", err)
	}

	return nil
}

// Clear removes the context file.
func (s *ContextStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove context file: %w", err)
	}
	return nil
}
