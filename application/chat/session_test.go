package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pathfinder-backend/application/chat"
	appevents "pathfinder-backend/application/events"
	"pathfinder-backend/application/ports"
	"pathfinder-backend/application/route"
	"pathfinder-backend/domain/core/entities"
	pkgerrors "pathfinder-backend/pkg/errors"
	"pathfinder-backend/tests/fixtures"
	"pathfinder-backend/tests/mocks"
)

type sessionDeps struct {
	session *chat.Session
	intel   *mocks.MockRouteIntelligence
	active  *route.ActiveRoute
	errs    *appevents.ErrorChannel
}

func newSessionDeps(t *testing.T) sessionDeps {
	t.Helper()

	logger := zap.NewNop()
	bus := appevents.NewBus(logger)
	errs := appevents.NewErrorChannel(bus, logger)
	intel := new(mocks.MockRouteIntelligence)
	active := route.NewActiveRoute(bus, logger)

	return sessionDeps{
		session: chat.NewSession(intel, active, errs, bus, logger),
		intel:   intel,
		active:  active,
		errs:    errs,
	}
}

func waitForSettled(t *testing.T, s *chat.Session) {
	t.Helper()
	require.Eventually(t, func() bool { return !s.IsAwaiting() }, time.Second, 5*time.Millisecond)
}

func TestSession_NoActiveRouteAnswersLocally(t *testing.T) {
	// Arrange
	deps := newSessionDeps(t)

	// Act
	deps.session.SendMessage(context.Background(), "how long is the trip?")

	// Assert: user turn plus one local guidance reply, no collaborator call
	msgs := deps.session.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, entities.RoleUser, msgs[0].Role)
	assert.Equal(t, entities.RoleAssistant, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "route")
	assert.False(t, deps.session.IsAwaiting())
	deps.intel.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_PendingPlaceholderReplacedByReply(t *testing.T) {
	// Arrange
	deps := newSessionDeps(t)
	deps.active.Set(context.Background(), fixtures.NewPathBuilder().
		WithNodes("Oradea", "Zerind").
		WithDistance(71).
		Build())
	deps.intel.On("Query", mock.Anything, "how long is the trip?", mock.Anything).
		Return(ports.IntelReply{Kind: ports.ReplyAnswer, Text: "About an hour."}, nil).Once()

	// Act
	deps.session.SendMessage(context.Background(), "how long is the trip?")
	waitForSettled(t, deps.session)

	// Assert: the reply takes the placeholder's position in the history
	msgs := deps.session.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, entities.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "About an hour.", msgs[1].Content)
}

func TestSession_QueryCarriesActiveRoute(t *testing.T) {
	// Arrange
	deps := newSessionDeps(t)
	path := fixtures.NewPathBuilder().
		WithNodes("Oradea", "Zerind", "Arad").
		WithDistance(146).
		Build()
	deps.active.Set(context.Background(), path)

	deps.intel.On("Query", mock.Anything, "where does it pass?",
		mock.MatchedBy(func(p *entities.Path) bool {
			return p != nil && len(p.NodeSequence) == 3 && p.NodeSequence[0] == "Oradea"
		})).
		Return(ports.IntelReply{Kind: ports.ReplyAnswer, Text: "Through Zerind."}, nil).Once()

	// Act
	deps.session.SendMessage(context.Background(), "where does it pass?")
	waitForSettled(t, deps.session)

	// Assert
	deps.intel.AssertExpectations(t)
}

func TestSession_FailureLeavesAssistantErrorMessage(t *testing.T) {
	// Arrange
	deps := newSessionDeps(t)
	deps.active.Set(context.Background(), fixtures.NewPathBuilder().
		WithNodes("Oradea", "Zerind").
		WithDistance(71).
		Build())
	deps.intel.On("Query", mock.Anything, mock.Anything, mock.Anything).
		Return(ports.IntelReply{}, pkgerrors.NewTransient("service unavailable", nil)).Once()

	// Act
	deps.session.SendMessage(context.Background(), "tell me about the route")
	waitForSettled(t, deps.session)

	// Assert: the placeholder becomes exactly one assistant message
	// carrying the failure text, and the error is reported as well
	msgs := deps.session.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, entities.RoleUser, msgs[0].Role)
	assert.Equal(t, entities.RoleAssistant, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "service unavailable")

	visible := deps.errs.Current()
	require.NotNil(t, visible)
	assert.Equal(t, "chat", visible.Source)
}

func TestSession_InternalFailureMasksDetail(t *testing.T) {
	// Arrange
	deps := newSessionDeps(t)
	deps.active.Set(context.Background(), fixtures.NewPathBuilder().
		WithNodes("Oradea", "Zerind").
		WithDistance(71).
		Build())
	deps.intel.On("Query", mock.Anything, mock.Anything, mock.Anything).
		Return(ports.IntelReply{}, pkgerrors.NewInternal("token leaked in payload", nil)).Once()

	// Act
	deps.session.SendMessage(context.Background(), "tell me about the route")
	waitForSettled(t, deps.session)

	// Assert: internal detail never reaches the history
	msgs := deps.session.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, entities.RoleAssistant, msgs[1].Role)
	assert.NotContains(t, msgs[1].Content, "token leaked")
	assert.Contains(t, msgs[1].Content, "unexpected error")
}

func TestSession_StaleReplyDiscardedSilently(t *testing.T) {
	// Arrange: the first query blocks until released, the second resolves
	// immediately, so the first response arrives after its turn was
	// superseded.
	deps := newSessionDeps(t)
	deps.active.Set(context.Background(), fixtures.NewPathBuilder().
		WithNodes("Oradea", "Zerind").
		WithDistance(71).
		Build())

	release := make(chan time.Time)
	deps.intel.On("Query", mock.Anything, "first", mock.Anything).
		WaitUntil(release).
		Return(ports.IntelReply{Kind: ports.ReplyAnswer, Text: "stale answer"}, nil).Once()
	deps.intel.On("Query", mock.Anything, "second", mock.Anything).
		Return(ports.IntelReply{Kind: ports.ReplyAnswer, Text: "fresh answer"}, nil).Once()

	// Act
	deps.session.SendMessage(context.Background(), "first")
	deps.session.SendMessage(context.Background(), "second")
	close(release)
	waitForSettled(t, deps.session)

	// Assert: the superseded content never reaches the history and no
	// error is surfaced
	msgs := deps.session.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
	assert.Equal(t, "fresh answer", msgs[2].Content)
	for _, m := range msgs {
		assert.NotEqual(t, "stale answer", m.Content)
	}
	assert.Nil(t, deps.errs.Current())
}

func TestSession_RouteUpdateReplySwapsActivePath(t *testing.T) {
	// Arrange
	deps := newSessionDeps(t)
	deps.active.Set(context.Background(), fixtures.NewPathBuilder().
		WithNodes("Oradea", "Zerind").
		WithDistance(71).
		Build())

	updated := fixtures.NewPathBuilder().
		WithNodes("Oradea", "Sibiu").
		WithDistance(151).
		Build()
	deps.intel.On("Query", mock.Anything, mock.Anything, mock.Anything).
		Return(ports.IntelReply{
			Kind: ports.ReplyRouteUpdate,
			Text: "Rerouted through Sibiu.",
			Path: &updated,
		}, nil).Once()

	// Act
	deps.session.SendMessage(context.Background(), "avoid Zerind")
	waitForSettled(t, deps.session)

	// Assert
	current := deps.active.Current()
	require.NotNil(t, current)
	assert.Equal(t, []string{"Oradea", "Sibiu"}, current.NodeSequence)
}

func TestSession_RecommendationsAreOrdinaryTurns(t *testing.T) {
	// Arrange
	deps := newSessionDeps(t)
	deps.active.Set(context.Background(), fixtures.NewPathBuilder().
		WithNodes("Oradea", "Zerind").
		WithDistance(71).
		Build())
	deps.intel.On("Query", mock.Anything, mock.MatchedBy(func(q string) bool {
		return q != ""
	}), mock.Anything).
		Return(ports.IntelReply{Kind: ports.ReplyAnswer, Text: "Visit the fortress."}, nil).Once()

	// Act
	deps.session.AskForRecommendations(context.Background())
	waitForSettled(t, deps.session)

	// Assert
	msgs := deps.session.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, entities.RoleUser, msgs[0].Role)
	assert.Equal(t, "Visit the fortress.", msgs[1].Content)
}
