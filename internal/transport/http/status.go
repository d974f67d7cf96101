package httptransport

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"mars-assistant-go/internal/domain/events"
	"mars-assistant-go/internal/domain/skills"
)

const historyLimit = 50

// Interaction is one completed command/reply exchange.
type Interaction struct {
	Command string    `json:"command"`
	Reply   string    `json:"reply"`
	At      time.Time `json:"at"`
}

// Tracker mirrors the assistant's progress off the event bus so the API
// never reaches into the pipeline itself.
type Tracker struct {
	mu           sync.RWMutex
	state        string
	startedAt    time.Time
	wakeCount    int
	commandCount int
	rejectCount  int
	history      []Interaction
}

// NewTracker subscribes to the pipeline topics.
func NewTracker(bus *events.Bus) (*Tracker, error) {
	t := &Tracker{state: "STARTING", startedAt: time.Now()}

	if err := bus.Subscribe(events.TopicState, t.onState); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(events.TopicWakeDetect, t.onWake); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(events.TopicVerified, t.onVerified); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(events.TopicReply, t.onReply); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *Tracker) onState(state string) {
	t.mu.Lock()
	t.state = state
	t.mu.Unlock()
}

func (t *Tracker) onWake() {
	t.mu.Lock()
	t.wakeCount++
	t.mu.Unlock()
}

func (t *Tracker) onVerified(accepted bool) {
	if accepted {
		return
	}
	t.mu.Lock()
	t.rejectCount++
	t.mu.Unlock()
}

func (t *Tracker) onReply(command, reply string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.commandCount++
	t.history = append(t.history, Interaction{Command: command, Reply: reply, At: time.Now()})
	if len(t.history) > historyLimit {
		t.history = t.history[len(t.history)-historyLimit:]
	}
}

// StatusService serves the read-only assistant state.
type StatusService struct {
	tracker  *Tracker
	registry *skills.Registry
}

// NewStatusService builds the service over a tracker and the skill
// registry.
func NewStatusService(tracker *Tracker, registry *skills.Registry) *StatusService {
	return &StatusService{tracker: tracker, registry: registry}
}

// Register mounts the routes on the API group.
func (s *StatusService) Register(api *gin.RouterGroup) {
	api.GET("/status", s.handleStatus)
	api.GET("/history", s.handleHistory)
	api.GET("/skills", s.handleSkills)
}

func (s *StatusService) handleStatus(c *gin.Context) {
	s.tracker.mu.RLock()
	defer s.tracker.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"state":          s.tracker.state,
		"uptime_seconds": int(time.Since(s.tracker.startedAt).Seconds()),
		"wake_count":     s.tracker.wakeCount,
		"command_count":  s.tracker.commandCount,
		"reject_count":   s.tracker.rejectCount,
	})
}

func (s *StatusService) handleHistory(c *gin.Context) {
	s.tracker.mu.RLock()
	history := make([]Interaction, len(s.tracker.history))
	copy(history, s.tracker.history)
	s.tracker.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{"interactions": history})
}

func (s *StatusService) handleSkills(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"skills": s.registry.Names()})
}
