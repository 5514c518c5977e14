package events_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appevents "pathfinder-backend/application/events"
	"pathfinder-backend/domain/events"
	pkgerrors "pathfinder-backend/pkg/errors"
)

func recordingHandler(name string, priority int, order *[]string) *appevents.HandlerFunc {
	return appevents.NewHandlerFunc(name, priority, func(ctx context.Context, event events.DomainEvent) error {
		*order = append(*order, name)
		return nil
	})
}

func TestBus_DispatchesInPriorityOrder(t *testing.T) {
	// Arrange
	bus := appevents.NewBus(zap.NewNop())
	var order []string
	require.NoError(t, bus.Register([]string{events.TypeNodeDeleted}, recordingHandler("late", 300, &order)))
	require.NoError(t, bus.Register([]string{events.TypeNodeDeleted}, recordingHandler("early", 10, &order)))
	require.NoError(t, bus.Register([]string{events.TypeNodeDeleted}, recordingHandler("middle", 100, &order)))

	// Act
	bus.Publish(context.Background(), events.NewNodeDeleted("Arad"))

	// Assert
	assert.Equal(t, []string{"early", "middle", "late"}, order)
}

func TestBus_WildcardReceivesEveryEvent(t *testing.T) {
	// Arrange
	bus := appevents.NewBus(zap.NewNop())
	var order []string
	require.NoError(t, bus.Register([]string{appevents.WildcardEventType}, recordingHandler("all", 0, &order)))

	// Act
	bus.Publish(context.Background(), events.NewNodeDeleted("Arad"))
	bus.Publish(context.Background(), events.NewEdgeDeleted("e1"))

	// Assert
	assert.Len(t, order, 2)
}

func TestBus_HandlerErrorDoesNotStopDispatch(t *testing.T) {
	// Arrange
	bus := appevents.NewBus(zap.NewNop())
	var order []string
	failing := appevents.NewHandlerFunc("failing", 0, func(ctx context.Context, event events.DomainEvent) error {
		return pkgerrors.NewInternal("handler broke", nil)
	})
	require.NoError(t, bus.Register([]string{events.TypeNodeDeleted}, failing))
	require.NoError(t, bus.Register([]string{events.TypeNodeDeleted}, recordingHandler("after", 10, &order)))

	// Act
	bus.Publish(context.Background(), events.NewNodeDeleted("Arad"))

	// Assert
	assert.Equal(t, []string{"after"}, order)
}

func TestBus_RejectsNilHandlerAndEmptyType(t *testing.T) {
	bus := appevents.NewBus(zap.NewNop())

	assert.Error(t, bus.Register([]string{events.TypeNodeDeleted}, nil))
	var order []string
	assert.Error(t, bus.Register([]string{""}, recordingHandler("h", 0, &order)))
}

func TestErrorChannel_SingleVisibleError(t *testing.T) {
	// Arrange
	logger := zap.NewNop()
	bus := appevents.NewBus(logger)
	errs := appevents.NewErrorChannel(bus, logger)

	// Act: a second report replaces the first
	errs.Report(context.Background(), "route", pkgerrors.NewTransient("first failure", nil))
	errs.Report(context.Background(), "chat", pkgerrors.NewTransient("second failure", nil))

	// Assert
	visible := errs.Current()
	require.NotNil(t, visible)
	assert.Equal(t, "chat", visible.Source)

	errs.Dismiss(context.Background())
	assert.Nil(t, errs.Current())
}
