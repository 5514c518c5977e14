package sync_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appevents "pathfinder-backend/application/events"
	"pathfinder-backend/application/store"
	"pathfinder-backend/application/sync"
	"pathfinder-backend/domain/core/entities"
	pkgerrors "pathfinder-backend/pkg/errors"
	"pathfinder-backend/tests/mocks"
)

const testQuiescence = 25 * time.Millisecond

func newTestEngine(t *testing.T, initial int) (*sync.Engine, *mocks.MockGraphService, *appevents.ErrorChannel) {
	t.Helper()

	logger := zap.NewNop()
	bus := appevents.NewBus(logger)
	errs := appevents.NewErrorChannel(bus, logger)
	svc := new(mocks.MockGraphService)
	st := store.NewGraphStore(svc, bus, logger)

	engine := sync.NewEngine(initial, testQuiescence, svc, st, errs, bus, logger)
	t.Cleanup(engine.Stop)
	return engine, svc, errs
}

func TestEngine_BurstYieldsSingleCall(t *testing.T) {
	// Arrange
	engine, svc, _ := newTestEngine(t, 1)
	svc.On("UpdateRouteDensity", mock.Anything, 5).Return(5, nil).Once()
	svc.On("ListEdges", mock.Anything).Return([]entities.Edge{}, nil)

	// Act
	require.NoError(t, engine.SetDesired(3))
	require.NoError(t, engine.SetDesired(7))
	require.NoError(t, engine.SetDesired(5))

	// Assert
	assert.Equal(t, 5, engine.Desired())
	assert.Equal(t, 1, engine.Committed())

	require.Eventually(t, func() bool {
		return engine.Committed() == 5 && !engine.IsSyncing()
	}, time.Second, 5*time.Millisecond)

	svc.AssertNumberOfCalls(t, "UpdateRouteDensity", 1)
}

func TestEngine_RollbackOnRejection(t *testing.T) {
	// Arrange
	engine, svc, errs := newTestEngine(t, 2)
	svc.On("UpdateRouteDensity", mock.Anything, 9).
		Return(0, pkgerrors.NewTransient("service unavailable", nil)).Once()

	// Act
	require.NoError(t, engine.SetDesired(9))

	// Assert
	require.Eventually(t, func() bool {
		return !engine.IsSyncing() && engine.Desired() == 2
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 2, engine.Committed())

	visible := errs.Current()
	require.NotNil(t, visible)
	assert.Equal(t, "route-density", visible.Source)
}

func TestEngine_IdempotentValueSkipsNetwork(t *testing.T) {
	// Arrange
	engine, svc, _ := newTestEngine(t, 4)

	// Act
	require.NoError(t, engine.SetDesired(4))
	time.Sleep(4 * testQuiescence)

	// Assert
	svc.AssertNotCalled(t, "UpdateRouteDensity", mock.Anything, mock.Anything)
	assert.Equal(t, 4, engine.Committed())
}

func TestEngine_RejectsOutOfRangeValues(t *testing.T) {
	engine, svc, _ := newTestEngine(t, 1)

	assert.True(t, pkgerrors.IsValidation(engine.SetDesired(0)))
	assert.True(t, pkgerrors.IsValidation(engine.SetDesired(11)))
	svc.AssertNotCalled(t, "UpdateRouteDensity", mock.Anything, mock.Anything)
}

func TestEngine_SupersededResponseIsDiscarded(t *testing.T) {
	// Arrange: the first update blocks until released, so its response
	// arrives after a later debounce cycle has already committed.
	engine, svc, errs := newTestEngine(t, 1)
	release := make(chan time.Time)
	svc.On("UpdateRouteDensity", mock.Anything, 3).
		WaitUntil(release).
		Return(3, nil).Once()
	svc.On("UpdateRouteDensity", mock.Anything, 5).Return(5, nil).Once()
	svc.On("ListEdges", mock.Anything).Return([]entities.Edge{}, nil)

	// Act: start the first send, then supersede it while it is in flight
	require.NoError(t, engine.SetDesired(3))
	require.Eventually(t, func() bool { return engine.IsSyncing() }, time.Second, 5*time.Millisecond)
	require.NoError(t, engine.SetDesired(5))
	require.Eventually(t, func() bool {
		return engine.Committed() == 5 && !engine.IsSyncing()
	}, time.Second, 5*time.Millisecond)

	close(release)

	// Assert: the late response never clobbers the newer committed state
	time.Sleep(4 * testQuiescence)
	assert.Equal(t, 5, engine.Committed())
	assert.Equal(t, 5, engine.Desired())
	assert.False(t, engine.IsSyncing())
	assert.Nil(t, errs.Current())
	svc.AssertNumberOfCalls(t, "UpdateRouteDensity", 2)
}

func TestEngine_ServerAdjustedValueIsCommitted(t *testing.T) {
	// The service may clamp the value; the committed state reflects what it
	// actually accepted.
	engine, svc, _ := newTestEngine(t, 1)
	svc.On("UpdateRouteDensity", mock.Anything, 8).Return(6, nil).Once()
	svc.On("ListEdges", mock.Anything).Return([]entities.Edge{}, nil)

	require.NoError(t, engine.SetDesired(8))

	require.Eventually(t, func() bool {
		return engine.Committed() == 6 && engine.Desired() == 6
	}, time.Second, 5*time.Millisecond)
}
