// Package chat runs the multi-turn conversation about the active route.
package chat

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appevents "pathfinder-backend/application/events"
	"pathfinder-backend/application/ports"
	"pathfinder-backend/application/route"
	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/domain/events"
	pkgerrors "pathfinder-backend/pkg/errors"
)

const noRouteReply = "Find a route first, then ask me about it. I can only discuss a route that is currently on the map."

const recommendationsQuery = "What is worth seeing along this route? Give me a few recommendations for stops."

// Session is a conversation bound to the active route. Each outbound query
// carries the full current path as explicit context; the collaborator holds
// no session state of its own.
type Session struct {
	mu       sync.Mutex
	messages []entities.ChatMessage
	turn     uint64
	awaiting map[uint64]string // in-flight turn -> pending placeholder ID

	intel  ports.RouteIntelligence
	active *route.ActiveRoute
	errs   *appevents.ErrorChannel
	bus    *appevents.Bus
	logger *zap.Logger
}

// NewSession creates an empty conversation
func NewSession(intel ports.RouteIntelligence, active *route.ActiveRoute, errs *appevents.ErrorChannel, bus *appevents.Bus, logger *zap.Logger) *Session {
	return &Session{
		awaiting: make(map[uint64]string),
		intel:    intel,
		active:   active,
		errs:     errs,
		bus:      bus,
		logger:   logger,
	}
}

// SendMessage submits a user turn. Without an active route the session
// answers locally with a single guidance message and performs no network
// call. Otherwise the user message and a pending placeholder are appended
// immediately and the collaborator response is resolved asynchronously.
func (s *Session) SendMessage(ctx context.Context, text string) {
	current := s.active.Current()

	s.mu.Lock()
	s.messages = append(s.messages, entities.ChatMessage{
		ID:      uuid.NewString(),
		Role:    entities.RoleUser,
		Content: text,
	})

	if current == nil {
		s.messages = append(s.messages, entities.ChatMessage{
			ID:      uuid.NewString(),
			Role:    entities.RoleAssistant,
			Content: noRouteReply,
		})
		s.mu.Unlock()
		s.publishState(ctx)
		return
	}

	s.turn++
	turn := s.turn
	pendingID := uuid.NewString()
	s.awaiting[turn] = pendingID
	s.messages = append(s.messages, entities.ChatMessage{
		ID:   pendingID,
		Role: entities.RolePending,
	})
	s.mu.Unlock()

	s.publishState(ctx)

	go s.complete(context.WithoutCancel(ctx), turn, text, current)
}

// AskForRecommendations submits the canned stop-recommendation query. It is
// an ordinary turn; the same pending and staleness rules apply.
func (s *Session) AskForRecommendations(ctx context.Context) {
	s.SendMessage(ctx, recommendationsQuery)
}

// complete resolves one in-flight turn. A response whose turn was
// superseded by a newer send only removes its own placeholder; its content
// never reaches the history.
func (s *Session) complete(ctx context.Context, turn uint64, text string, current *entities.Path) {
	reply, err := s.intel.Query(ctx, text, current)

	s.mu.Lock()
	pendingID, live := s.awaiting[turn]
	delete(s.awaiting, turn)
	stale := live && turn < s.turn

	if !live {
		s.mu.Unlock()
		return
	}

	if stale {
		s.removePendingLocked(pendingID)
		s.mu.Unlock()
		s.logger.Debug("Discarded superseded chat response", zap.Uint64("turn", turn))
		s.publishState(ctx)
		return
	}

	if err != nil {
		s.replacePendingLocked(pendingID, failedTurnReply(err))
		s.mu.Unlock()
		s.publishState(ctx)
		s.errs.Report(ctx, "chat", err)
		return
	}

	s.replacePendingLocked(pendingID, reply.Text)
	s.mu.Unlock()

	s.publishState(ctx)

	// A route update replaces the active path after the history is settled
	// so observers see the reply and the new route in that order.
	if reply.Kind == ports.ReplyRouteUpdate && reply.Path != nil {
		s.active.Set(ctx, *reply.Path)
	}
}

// failedTurnReply renders a collaborator failure as assistant text so the
// turn stays visible in the history.
func failedTurnReply(err error) string {
	return "Sorry, I could not answer that: " + pkgerrors.UserMessage(err)
}

// removePendingLocked deletes the placeholder with the given ID
func (s *Session) removePendingLocked(id string) {
	for i, m := range s.messages {
		if m.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return
		}
	}
}

// replacePendingLocked swaps the placeholder for the assistant reply in
// place, preserving its position in the history
func (s *Session) replacePendingLocked(id, content string) {
	for i, m := range s.messages {
		if m.ID == id {
			s.messages[i] = entities.ChatMessage{
				ID:      uuid.NewString(),
				Role:    entities.RoleAssistant,
				Content: content,
			}
			return
		}
	}
}

// Messages returns a copy of the conversation history
func (s *Session) Messages() []entities.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entities.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// IsAwaiting reports whether any turn is still in flight
func (s *Session) IsAwaiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.awaiting) > 0
}

func (s *Session) publishState(ctx context.Context) {
	s.bus.Publish(ctx, events.NewChatUpdated(s.Messages(), s.IsAwaiting()))
}
