// Package memory keeps the rolling conversation history the dispatch
// engine replays to the model on every turn.
package memory

import (
	"sync"

	"mars-assistant-go/internal/domain/llm"
)

// Conversation is a bounded, concurrency-safe message history. When the
// history exceeds the configured limit the oldest turns are dropped
// first, so recent context always survives.
type Conversation struct {
	mu       sync.Mutex
	messages []llm.Message
	limit    int
}

// New creates a history bounded to limit messages. A non-positive limit
// means unbounded.
func New(limit int) *Conversation {
	return &Conversation{limit: limit}
}

// Add appends one turn and trims from the front if over the limit.
func (c *Conversation) Add(message llm.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, message)
	if c.limit > 0 && len(c.messages) > c.limit {
		c.messages = c.messages[len(c.messages)-c.limit:]
	}
}

// AddUser appends a user turn.
func (c *Conversation) AddUser(content string) {
	c.Add(llm.Message{Role: llm.RoleUser, Content: content})
}

// AddAssistant appends an assistant turn.
func (c *Conversation) AddAssistant(content string) {
	c.Add(llm.Message{Role: llm.RoleAssistant, Content: content})
}

// Messages returns a copy of the history; callers may append to it
// freely without racing the next turn.
func (c *Conversation) Messages() []llm.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]llm.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len reports the number of retained turns.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Clear drops the whole history.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}
