package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/tablesession-api/models"
)

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	start, end := DayBounds(time.Date(2026, 3, 14, 15, 30, 0, 0, loc))

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, 3, 14, 23, 59, 59, 999000000, loc), end)
}

func TestDailySummary(t *testing.T) {
	db := setupTestDB(t)
	acme := seedTenant(t, db, "acme")
	globex := seedTenant(t, db, "globex")
	for n := 1; n <= 3; n++ {
		seedTable(t, db, acme.Company.ID, n)
	}
	seedTable(t, db, globex.Company.ID, 1)
	pizza := seedMenuItem(t, db, acme.Company.ID, "Margherita", "12.99", true)
	soda := seedMenuItem(t, db, acme.Company.ID, "Soda", "3.50", true)
	burger := seedMenuItem(t, db, globex.Company.ID, "Burger", "9.00", true)
	svc := newServices(db)

	add := func(actor Actor, sessionID, itemID string, qty int) *models.Order {
		o, err := svc.orders.AddOrder(ctx, actor, sessionID, AddOrderInput{MenuItemID: itemID, Quantity: qty})
		require.NoError(t, err)
		return o
	}

	// closed: 25.98 + 3.50
	s1, err := svc.sessions.OpenSession(ctx, acme.Frontdesk, 1)
	require.NoError(t, err)
	add(acme.Frontdesk, s1.ID, pizza.ID, 2)
	o := add(acme.Frontdesk, s1.ID, soda.ID, 1)
	_, err = svc.orders.UpdateOrderStatus(ctx, acme.Backoffice, o.ID, models.OrderServed)
	require.NoError(t, err)
	_, err = svc.sessions.CloseSession(ctx, acme.Frontdesk, s1.ID)
	require.NoError(t, err)

	// still open: orders count, revenue does not
	s2, err := svc.sessions.OpenSession(ctx, acme.Frontdesk, 2)
	require.NoError(t, err)
	add(acme.Frontdesk, s2.ID, soda.ID, 2)

	// created yesterday, outside the window
	s3, err := svc.sessions.OpenSession(ctx, acme.Frontdesk, 3)
	require.NoError(t, err)
	add(acme.Frontdesk, s3.ID, pizza.ID, 1)
	_, err = svc.sessions.CloseSession(ctx, acme.Frontdesk, s3.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.TableSession{}).Where("id = ?", s3.ID).
		UpdateColumn("created_at", time.Now().AddDate(0, 0, -1)).Error)

	// other tenant
	g1, err := svc.sessions.OpenSession(ctx, globex.Frontdesk, 1)
	require.NoError(t, err)
	add(globex.Frontdesk, g1.ID, burger.ID, 1)
	_, err = svc.sessions.CloseSession(ctx, globex.Frontdesk, g1.ID)
	require.NoError(t, err)

	summary, err := svc.reports.DailySummary(ctx, acme.Admin, time.Now())
	require.NoError(t, err)

	assert.Equal(t, time.Now().Format("2006-01-02"), summary.Date)
	assert.Equal(t, 2, summary.TotalSessions)
	assert.Equal(t, 3, summary.TotalOrders)
	assert.Equal(t, "29.48", summary.TotalRevenue.StringFixed(2))
	assert.Equal(t, "9.83", summary.AverageOrderValue.StringFixed(2))
	assert.Equal(t, map[models.OrderStatus]int{
		models.OrderPending:   2,
		models.OrderPreparing: 0,
		models.OrderReady:     0,
		models.OrderServed:    1,
	}, summary.OrdersByStatus)
}

func TestDailySummaryEmptyDay(t *testing.T) {
	db := setupTestDB(t)
	acme := seedTenant(t, db, "acme")
	svc := newServices(db)

	summary, err := svc.reports.DailySummary(ctx, acme.Admin, time.Now())
	require.NoError(t, err)

	assert.Zero(t, summary.TotalSessions)
	assert.Zero(t, summary.TotalOrders)
	assert.True(t, summary.TotalRevenue.IsZero())
	assert.True(t, summary.AverageOrderValue.IsZero())
	assert.Len(t, summary.OrdersByStatus, 4)

	_, err = svc.reports.DailySummary(ctx, acme.Frontdesk, time.Now())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListOrders(t *testing.T) {
	db := setupTestDB(t)
	acme := seedTenant(t, db, "acme")
	globex := seedTenant(t, db, "globex")
	seedTable(t, db, acme.Company.ID, 1)
	seedTable(t, db, acme.Company.ID, 2)
	seedTable(t, db, globex.Company.ID, 1)
	pizza := seedMenuItem(t, db, acme.Company.ID, "Margherita", "12.99", true)
	svc := newServices(db)

	recent, err := svc.sessions.OpenSession(ctx, acme.Frontdesk, 1)
	require.NoError(t, err)
	_, err = svc.orders.AddOrder(ctx, acme.Frontdesk, recent.ID, AddOrderInput{MenuItemID: pizza.ID, Quantity: 1})
	require.NoError(t, err)
	old, err := svc.sessions.OpenSession(ctx, acme.Frontdesk, 2)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.TableSession{}).Where("id = ?", old.ID).
		UpdateColumn("created_at", time.Now().AddDate(0, 0, -10)).Error)
	_, err = svc.sessions.OpenSession(ctx, globex.Frontdesk, 1)
	require.NoError(t, err)

	all, err := svc.reports.ListOrders(ctx, acme.Admin, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, old.ID, all[0].ID, "oldest first")

	start := time.Now().AddDate(0, 0, -1)
	end := time.Now().Add(time.Hour)
	ranged, err := svc.reports.ListOrders(ctx, acme.Admin, &start, &end)
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, recent.ID, ranged[0].ID)
	require.Len(t, ranged[0].Orders, 1)

	// a single bound is ignored
	onlyStart, err := svc.reports.ListOrders(ctx, acme.Admin, &start, nil)
	require.NoError(t, err)
	assert.Len(t, onlyStart, 2)

	_, err = svc.reports.ListOrders(ctx, acme.Admin, &end, &start)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListOrdersBoundsInOtherZone(t *testing.T) {
	db := setupTestDB(t)
	acme := seedTenant(t, db, "acme")
	seedTable(t, db, acme.Company.ID, 1)
	svc := newServices(db)

	session, err := svc.sessions.OpenSession(ctx, acme.Frontdesk, 1)
	require.NoError(t, err)
	created := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC).In(time.Local)
	require.NoError(t, db.Model(&models.TableSession{}).Where("id = ?", session.ID).
		UpdateColumn("created_at", created).Error)

	jakarta := time.FixedZone("UTC+7", 7*3600)
	start := time.Date(2026, 10, 18, 0, 0, 0, 0, jakarta)
	end := time.Date(2026, 10, 18, 23, 59, 59, 0, jakarta)
	require.True(t, !created.Before(start) && !created.After(end))

	sessions, err := svc.reports.ListOrders(ctx, acme.Admin, &start, &end)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, session.ID, sessions[0].ID)

	summary, err := svc.reports.DailySummary(ctx, acme.Admin, start.Add(12*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "2026-10-18", summary.Date)
	assert.Equal(t, 1, summary.TotalSessions)
}

func TestDailySummaryPDF(t *testing.T) {
	db := setupTestDB(t)
	acme := seedTenant(t, db, "acme")
	seedTable(t, db, acme.Company.ID, 1)
	svc := newServices(db)

	s, err := svc.sessions.OpenSession(ctx, acme.Frontdesk, 1)
	require.NoError(t, err)
	_, err = svc.sessions.CloseSession(ctx, acme.Frontdesk, s.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.reports.DailySummaryPDF(ctx, acme.Admin, time.Now(), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
