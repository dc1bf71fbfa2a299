package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/tablesession-api/events"
	"github.com/yeremiapane/tablesession-api/models"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

func TestEventRelayPublishesAndMarks(t *testing.T) {
	db := setupTestDB(t)
	acme := seedTenant(t, db, "acme")
	seedTable(t, db, acme.Company.ID, 5)
	svc := newServices(db)

	session, err := svc.sessions.OpenSession(ctx, acme.Frontdesk, 5)
	require.NoError(t, err)

	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, session.ID, mock.MatchedBy(func(e events.Envelope) bool {
		return e.Type == models.EventSessionOpened && e.CompanyID == acme.Company.ID && len(e.Payload) > 0
	})).Return(nil).Once()

	relay := NewEventRelay(db, pub)
	n, err := relay.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	pub.AssertExpectations(t)

	var pending int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Where("processed = ?", false).Count(&pending).Error)
	assert.Zero(t, pending)

	// nothing left to send
	n, err = relay.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEventRelayKeepsFailedEvents(t *testing.T) {
	db := setupTestDB(t)
	acme := seedTenant(t, db, "acme")
	seedTable(t, db, acme.Company.ID, 5)
	svc := newServices(db)

	session, err := svc.sessions.OpenSession(ctx, acme.Frontdesk, 5)
	require.NoError(t, err)
	_, err = svc.sessions.CloseSession(ctx, acme.Frontdesk, session.ID)
	require.NoError(t, err)

	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, session.ID, mock.Anything).Return(errors.New("broker down")).Once()

	relay := NewEventRelay(db, pub)
	n, err := relay.ProcessBatch(ctx)
	assert.ErrorContains(t, err, "broker down")
	assert.Zero(t, n)
	pub.AssertNumberOfCalls(t, "Publish", 1)

	var pending int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Where("processed = ?", false).Count(&pending).Error)
	assert.Equal(t, int64(2), pending)
}

func TestEventRelayStartStop(t *testing.T) {
	db := setupTestDB(t)
	acme := seedTenant(t, db, "acme")
	seedTable(t, db, acme.Company.ID, 5)
	svc := newServices(db)

	_, err := svc.sessions.OpenSession(ctx, acme.Frontdesk, 5)
	require.NoError(t, err)

	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	relay := NewEventRelay(db, pub)
	relay.Interval = 10 * time.Millisecond
	relay.Start()

	assert.Eventually(t, func() bool {
		var pending int64
		db.Model(&models.OutboxEvent{}).Where("processed = ?", false).Count(&pending)
		return pending == 0
	}, time.Second, 10*time.Millisecond)

	relay.Stop()
	relay.Stop()
}

func TestEventRelayStopWithoutStart(t *testing.T) {
	relay := NewEventRelay(nil, new(MockPublisher))
	relay.Stop()
}

func TestEventRelayZeroSettingsFallBackToDefaults(t *testing.T) {
	db := setupTestDB(t)
	acme := seedTenant(t, db, "acme")
	seedTable(t, db, acme.Company.ID, 5)
	pizza := seedMenuItem(t, db, acme.Company.ID, "Margherita", "12.99", true)
	svc := newServices(db)

	session, err := svc.sessions.OpenSession(ctx, acme.Frontdesk, 5)
	require.NoError(t, err)
	order, err := svc.orders.AddOrder(ctx, acme.Frontdesk, session.ID, AddOrderInput{MenuItemID: pizza.ID, Quantity: 1})
	require.NoError(t, err)

	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, session.ID, mock.Anything).Return(nil).Once()
	pub.On("Publish", mock.Anything, order.ID, mock.MatchedBy(func(e events.Envelope) bool {
		return e.Type == models.EventOrderAdded
	})).Return(nil).Once()

	relay := NewEventRelay(db, pub)
	relay.BatchSize = 0
	n, err := relay.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	pub.AssertExpectations(t)
}

func TestEventRelayStartWithZeroInterval(t *testing.T) {
	db := setupTestDB(t)
	relay := NewEventRelay(db, new(MockPublisher))
	relay.Interval = 0

	assert.NotPanics(t, relay.Start)
	relay.Stop()
}
