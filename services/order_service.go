package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/tablesession-api/models"
	"github.com/yeremiapane/tablesession-api/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderService struct {
	store
}

func NewOrderService(db *gorm.DB, timeout time.Duration) *OrderService {
	return &OrderService{store: newStore(db, timeout)}
}

type AddOrderInput struct {
	MenuItemID string
	Quantity   int
	Notes      string
}

// AddOrder attaches a line to an open session. The unit price is copied from
// the menu item as it is right now.
func (s *OrderService) AddOrder(ctx context.Context, actor Actor, sessionID string, in AddOrderInput) (*models.Order, error) {
	if err := authorize(actor, OpOrderAdd); err != nil {
		return nil, err
	}
	if in.Quantity <= 0 {
		return nil, invalidInput("quantity must be at least 1")
	}
	if strings.TrimSpace(in.MenuItemID) == "" {
		return nil, invalidInput("menu item id is required")
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		// the lock orders this insert against a concurrent close
		var session models.TableSession
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND company_id = ?", sessionID, actor.CompanyID).
			First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("session")
		}
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		if !session.IsOpen() {
			return conflict("session %s is closed", session.ID)
		}

		var item models.MenuItem
		err = tx.Where("id = ? AND company_id = ? AND is_available = ?", in.MenuItemID, actor.CompanyID, true).
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("menu item")
		}
		if err != nil {
			return fmt.Errorf("failed to load menu item: %w", err)
		}

		order = models.Order{
			TableSessionID: session.ID,
			MenuItemID:     item.ID,
			Quantity:       in.Quantity,
			UnitPrice:      item.Price,
			TotalPrice:     item.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
			Status:         models.OrderPending,
			Notes:          in.Notes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		order.MenuItem = &item

		return recordEvent(tx, actor.CompanyID, models.EventOrderAdded, order.ID, order)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"company_id":  actor.CompanyID,
		"session_id":  sessionID,
		"order_id":    order.ID,
		"total_price": order.TotalPrice.StringFixed(2),
	}).Info("order added")
	return &order, nil
}

// UpdateOrderStatus moves an order to any of the pipeline statuses. There is
// no ordering between statuses; orders of closed sessions are frozen.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, actor Actor, orderID string, status models.OrderStatus) (*models.Order, error) {
	if err := authorize(actor, OpOrderUpdateStatus); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalidInput("invalid status %q, must be one of pending, preparing, ready, served", status)
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := findTenantOrder(tx, actor.CompanyID, orderID, &order); err != nil {
			return err
		}

		var session models.TableSession
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", order.TableSessionID).
			First(&session).Error; err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		if !session.IsOpen() {
			return conflict("orders of closed session %s cannot change", session.ID)
		}

		// status as of the lock, not as of the tenant lookup
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", order.ID).
			First(&order).Error; err != nil {
			return fmt.Errorf("failed to reload order: %w", err)
		}

		previous := order.Status
		if previous == status {
			return nil
		}

		if err := tx.Model(&order).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		order.Status = status

		history := models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: previous,
			ToStatus:   status,
			ChangedBy:  actor.UserID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}

		return recordEvent(tx, actor.CompanyID, models.EventOrderStatusChanged, order.ID, history)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"company_id": actor.CompanyID,
		"order_id":   order.ID,
		"status":     order.Status,
	}).Info("order status updated")
	return &order, nil
}

// OrderHistory lists the status changes of an order, oldest first.
func (s *OrderService) OrderHistory(ctx context.Context, actor Actor, orderID string) ([]models.OrderStatusHistory, error) {
	if err := authorize(actor, OpOrderHistory); err != nil {
		return nil, err
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var order models.Order
	if err := findTenantOrder(db, actor.CompanyID, orderID, &order); err != nil {
		return nil, err
	}

	history := []models.OrderStatusHistory{}
	if err := db.Where("order_id = ?", order.ID).Order("created_at ASC").Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to load order history: %w", err)
	}
	return history, nil
}

// findTenantOrder resolves an order only through a session of companyID.
func findTenantOrder(db *gorm.DB, companyID, orderID string, order *models.Order) error {
	err := db.Joins("JOIN table_sessions ON table_sessions.id = orders.table_session_id").
		Where("orders.id = ? AND table_sessions.company_id = ?", orderID, companyID).
		First(order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("order")
	}
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}
	return nil
}
