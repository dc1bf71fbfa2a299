package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/tablesession-api/models"
	"github.com/yeremiapane/tablesession-api/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionService struct {
	store
}

func NewSessionService(db *gorm.DB, timeout time.Duration) *SessionService {
	return &SessionService{store: newStore(db, timeout)}
}

// OpenSession starts a session on an active table of the caller's company.
// A table holds at most one open session at a time.
func (s *SessionService) OpenSession(ctx context.Context, actor Actor, tableNumber int) (*models.TableSession, error) {
	if err := authorize(actor, OpSessionOpen); err != nil {
		return nil, err
	}
	if tableNumber <= 0 {
		return nil, invalidInput("table number must be positive")
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var session models.TableSession
	err := db.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		err := tx.Where("company_id = ? AND table_number = ? AND is_active = ?", actor.CompanyID, tableNumber, true).
			First(&table).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("table")
		}
		if err != nil {
			return fmt.Errorf("failed to load table: %w", err)
		}

		var open int64
		if err := tx.Model(&models.TableSession{}).
			Where("company_id = ? AND table_number = ? AND status = ?", actor.CompanyID, tableNumber, models.SessionOpen).
			Count(&open).Error; err != nil {
			return fmt.Errorf("failed to check open sessions: %w", err)
		}
		if open > 0 {
			return conflict("table %d already has an open session", tableNumber)
		}

		number := tableNumber
		session = models.TableSession{
			TableNumber:     tableNumber,
			Status:          models.SessionOpen,
			StartTime:       time.Now(),
			TotalAmount:     decimal.Zero,
			CompanyID:       actor.CompanyID,
			OpenTableNumber: &number,
			CreatedBy:       actor.UserID,
		}
		if err := tx.Create(&session).Error; err != nil {
			// a concurrent open won the unique index
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict("table %d already has an open session", tableNumber)
			}
			return fmt.Errorf("failed to create session: %w", err)
		}

		return recordEvent(tx, actor.CompanyID, models.EventSessionOpened, session.ID, session)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"company_id":   actor.CompanyID,
		"session_id":   session.ID,
		"table_number": tableNumber,
	}).Info("table session opened")
	return &session, nil
}

// CloseSession bills an open session: its total becomes the sum of all
// order totals, whatever their status. Closing is terminal.
func (s *SessionService) CloseSession(ctx context.Context, actor Actor, sessionID string) (*models.TableSession, error) {
	if err := authorize(actor, OpSessionClose); err != nil {
		return nil, err
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var session models.TableSession
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND company_id = ? AND status = ?", sessionID, actor.CompanyID, models.SessionOpen).
			First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("open session")
		}
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}

		var orders []models.Order
		if err := tx.Where("table_session_id = ?", session.ID).Order("created_at ASC").Find(&orders).Error; err != nil {
			return fmt.Errorf("failed to load orders: %w", err)
		}
		total := decimal.Zero
		for _, o := range orders {
			total = total.Add(o.TotalPrice)
		}

		now := time.Now()
		res := tx.Model(&models.TableSession{}).
			Where("id = ? AND status = ?", session.ID, models.SessionOpen).
			Updates(map[string]interface{}{
				"status":            models.SessionClosed,
				"end_time":          now,
				"total_amount":      total,
				"open_table_number": nil,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to close session: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("open session")
		}

		session.Status = models.SessionClosed
		session.EndTime = &now
		session.TotalAmount = total
		session.OpenTableNumber = nil
		session.Orders = orders

		return recordEvent(tx, actor.CompanyID, models.EventSessionClosed, session.ID, session)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"company_id":   actor.CompanyID,
		"session_id":   session.ID,
		"total_amount": session.TotalAmount.StringFixed(2),
		"orders":       len(session.Orders),
	}).Info("table session closed")
	return &session, nil
}

func (s *SessionService) GetSession(ctx context.Context, actor Actor, sessionID string) (*models.TableSession, error) {
	if err := authorize(actor, OpSessionGet); err != nil {
		return nil, err
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var session models.TableSession
	err := withOrders(db).
		Where("id = ? AND company_id = ?", sessionID, actor.CompanyID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("session")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}

// ListActiveSessions returns the open sessions of the company with their orders.
func (s *SessionService) ListActiveSessions(ctx context.Context, actor Actor) ([]models.TableSession, error) {
	if err := authorize(actor, OpSessionListActive); err != nil {
		return nil, err
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	sessions := []models.TableSession{}
	if err := withOrders(db).
		Where("company_id = ? AND status = ?", actor.CompanyID, models.SessionOpen).
		Order("start_time ASC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}
	return sessions, nil
}

func withOrders(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Orders", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Orders.MenuItem")
}
