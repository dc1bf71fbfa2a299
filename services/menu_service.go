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
)

type MenuService struct {
	store
}

func NewMenuService(db *gorm.DB, timeout time.Duration) *MenuService {
	return &MenuService{store: newStore(db, timeout)}
}

type MenuItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	IsAvailable *bool
}

func (in MenuItemInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalidInput("name is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return invalidInput("category is required")
	}
	if in.Price.IsNegative() {
		return invalidInput("price must not be negative")
	}
	if !in.Price.Equal(in.Price.Round(2)) {
		return invalidInput("price must have at most 2 decimal places")
	}
	return nil
}

func (s *MenuService) CreateMenuItem(ctx context.Context, actor Actor, in MenuItemInput) (*models.MenuItem, error) {
	if err := authorize(actor, OpMenuCreate); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	item := models.MenuItem{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Category:    strings.TrimSpace(in.Category),
		IsAvailable: available,
		CompanyID:   actor.CompanyID,
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"company_id": actor.CompanyID,
		"menu_item":  item.ID,
		"price":      item.Price.StringFixed(2),
	}).Info("menu item created")
	return &item, nil
}

// UpdateMenuItem overwrites the item. Orders already placed keep the price
// they were created with.
func (s *MenuService) UpdateMenuItem(ctx context.Context, actor Actor, itemID string, in MenuItemInput) (*models.MenuItem, error) {
	if err := authorize(actor, OpMenuUpdate); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.IsAvailable == nil {
		return nil, invalidInput("is_available is required")
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var item models.MenuItem
	if err := findTenantMenuItem(db, actor.CompanyID, itemID, &item); err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(in.Name)
	item.Description = in.Description
	item.Price = in.Price
	item.Category = strings.TrimSpace(in.Category)
	item.IsAvailable = *in.IsAvailable
	if err := db.Model(&item).Select("name", "description", "price", "category", "is_available").
		Updates(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	return &item, nil
}

// DeleteMenuItem marks the item unavailable. Historical orders keep their reference.
func (s *MenuService) DeleteMenuItem(ctx context.Context, actor Actor, itemID string) error {
	if err := authorize(actor, OpMenuDelete); err != nil {
		return err
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var item models.MenuItem
	if err := findTenantMenuItem(db, actor.CompanyID, itemID, &item); err != nil {
		return err
	}
	if err := db.Model(&item).Update("is_available", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate menu item: %w", err)
	}
	return nil
}

// ListMenuItems returns the company's available items, or every item when
// includeUnavailable is set.
func (s *MenuService) ListMenuItems(ctx context.Context, actor Actor, includeUnavailable bool) ([]models.MenuItem, error) {
	if err := authorize(actor, OpMenuList); err != nil {
		return nil, err
	}
	return s.listMenu(ctx, actor.CompanyID, includeUnavailable)
}

// ListPublicMenu serves the unauthenticated menu of one company.
func (s *MenuService) ListPublicMenu(ctx context.Context, companyID string) ([]models.MenuItem, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&models.Company{}).Where("id = ?", companyID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	if count == 0 {
		return nil, notFound("company")
	}
	return s.listMenu(ctx, companyID, false)
}

func (s *MenuService) listMenu(ctx context.Context, companyID string, includeUnavailable bool) ([]models.MenuItem, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	q := db.Where("company_id = ?", companyID)
	if !includeUnavailable {
		q = q.Where("is_available = ?", true)
	}

	items := []models.MenuItem{}
	if err := q.Order("category ASC, name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

func findTenantMenuItem(db *gorm.DB, companyID, itemID string, item *models.MenuItem) error {
	err := db.Where("id = ? AND company_id = ?", itemID, companyID).First(item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("menu item")
	}
	if err != nil {
		return fmt.Errorf("failed to load menu item: %w", err)
	}
	return nil
}
