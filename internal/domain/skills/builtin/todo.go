package builtin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"mars-assistant-go/internal/domain/skills"
	platformerrors "mars-assistant-go/internal/platform/errors"
)

// TodoItem is one entry on the persistent to-do list.
type TodoItem struct {
	ID        string `gorm:"primaryKey"`
	Text      string `gorm:"not null"`
	Done      bool   `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoStore persists the to-do list in SQLite.
type TodoStore struct {
	db *gorm.DB
}

// NewTodoStore opens (and migrates) the database at dsn.
func NewTodoStore(dsn string) (*TodoStore, error) {
	if dir := filepath.Dir(dsn); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindStorage, "todo.open",
				"creating data directory", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, "todo.open",
			"opening todo database", err)
	}
	if err := db.AutoMigrate(&TodoItem{}); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, "todo.open",
			"migrating todo schema", err)
	}

	return &TodoStore{db: db}, nil
}

// Add inserts a new item and returns it.
func (s *TodoStore) Add(ctx context.Context, text string) (*TodoItem, error) {
	item := &TodoItem{ID: uuid.NewString(), Text: text}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, "todo.add",
			"inserting todo item", err)
	}
	return item, nil
}

// Pending lists items not yet done, oldest first.
func (s *TodoStore) Pending(ctx context.Context) ([]TodoItem, error) {
	var items []TodoItem
	err := s.db.WithContext(ctx).
		Where("done = ?", false).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, "todo.list",
			"listing todo items", err)
	}
	return items, nil
}

// Complete marks the first pending item whose text contains the given
// fragment, case-insensitively. Returns the completed item, or nil when
// nothing matched.
func (s *TodoStore) Complete(ctx context.Context, fragment string) (*TodoItem, error) {
	items, err := s.Pending(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(fragment)
	for i := range items {
		if strings.Contains(strings.ToLower(items[i].Text), needle) {
			items[i].Done = true
			if err := s.db.WithContext(ctx).Save(&items[i]).Error; err != nil {
				return nil, platformerrors.Wrap(platformerrors.KindStorage, "todo.complete",
					"updating todo item", err)
			}
			return &items[i], nil
		}
	}
	return nil, nil
}

// TodoSkills exposes the store as add/list/complete tools.
func TodoSkills(store *TodoStore) []skills.Skill {
	return []skills.Skill{
		{
			Name:        "add_todo",
			Description: "Add an item to the user's to-do list.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{
						"type":        "string",
						"description": "The task to remember.",
					},
				},
				"required": []string{"text"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				text, _ := args["text"].(string)
				if strings.TrimSpace(text) == "" {
					return "I need to know what to add to the list.", nil
				}
				if _, err := store.Add(ctx, text); err != nil {
					return "", err
				}
				return fmt.Sprintf("Added %q to the to-do list.", text), nil
			},
		},
		{
			Name:        "list_todos",
			Description: "List the pending items on the user's to-do list.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
			Handler: func(ctx context.Context, _ map[string]any) (string, error) {
				items, err := store.Pending(ctx)
				if err != nil {
					return "", err
				}
				if len(items) == 0 {
					return "The to-do list is empty.", nil
				}
				lines := make([]string, 0, len(items))
				for i, item := range items {
					lines = append(lines, fmt.Sprintf("%d. %s", i+1, item.Text))
				}
				return "Pending items: " + strings.Join(lines, "; "), nil
			},
		},
		{
			Name:        "complete_todo",
			Description: "Mark a to-do item as done. Matches by a fragment of the item text.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{
						"type":        "string",
						"description": "Part of the item text to mark as done.",
					},
				},
				"required": []string{"text"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				fragment, _ := args["text"].(string)
				if strings.TrimSpace(fragment) == "" {
					return "I need to know which item to complete.", nil
				}
				item, err := store.Complete(ctx, fragment)
				if err != nil {
					return "", err
				}
				if item == nil {
					return fmt.Sprintf("No pending item matches %q.", fragment), nil
				}
				return fmt.Sprintf("Marked %q as done.", item.Text), nil
			},
		},
	}
}
