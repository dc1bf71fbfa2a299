package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/tablesession-api/models"
	"github.com/yeremiapane/tablesession-api/utils"
	"gorm.io/gorm"
)

type TableService struct {
	store
}

func NewTableService(db *gorm.DB, timeout time.Duration) *TableService {
	return &TableService{store: newStore(db, timeout)}
}

type TableInput struct {
	TableNumber int
	Capacity    int
	Location    string
	IsActive    bool
}

func (in TableInput) validate() error {
	if in.TableNumber <= 0 {
		return invalidInput("table number must be positive")
	}
	if in.Capacity <= 0 {
		return invalidInput("capacity must be positive")
	}
	return nil
}

// CreateTable registers a new active table. Table numbers are unique per company.
func (s *TableService) CreateTable(ctx context.Context, actor Actor, in TableInput) (*models.Table, error) {
	if err := authorize(actor, OpTableCreate); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	table := models.Table{
		TableNumber: in.TableNumber,
		Capacity:    in.Capacity,
		Location:    strings.TrimSpace(in.Location),
		IsActive:    true,
		CompanyID:   actor.CompanyID,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensureTableNumberFree(tx, actor.CompanyID, in.TableNumber, ""); err != nil {
			return err
		}
		if err := tx.Create(&table).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict("table number %d already exists", in.TableNumber)
			}
			return fmt.Errorf("failed to create table: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"company_id":   actor.CompanyID,
		"table_number": table.TableNumber,
	}).Info("table created")
	return &table, nil
}

// UpdateTable overwrites every mutable field of the table.
func (s *TableService) UpdateTable(ctx context.Context, actor Actor, tableID string, in TableInput) (*models.Table, error) {
	if err := authorize(actor, OpTableUpdate); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var table models.Table
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := findTenantTable(tx, actor.CompanyID, tableID, &table); err != nil {
			return err
		}
		if table.TableNumber != in.TableNumber {
			if err := ensureTableNumberFree(tx, actor.CompanyID, in.TableNumber, table.ID); err != nil {
				return err
			}
		}

		err := tx.Model(&table).Updates(map[string]interface{}{
			"table_number": in.TableNumber,
			"capacity":     in.Capacity,
			"location":     strings.TrimSpace(in.Location),
			"is_active":    in.IsActive,
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return conflict("table number %d already exists", in.TableNumber)
		}
		if err != nil {
			return fmt.Errorf("failed to update table: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	table.TableNumber = in.TableNumber
	table.Capacity = in.Capacity
	table.Location = strings.TrimSpace(in.Location)
	table.IsActive = in.IsActive
	return &table, nil
}

// DeleteTable deactivates the table. The row is kept for session history.
func (s *TableService) DeleteTable(ctx context.Context, actor Actor, tableID string) error {
	if err := authorize(actor, OpTableDelete); err != nil {
		return err
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var table models.Table
	if err := findTenantTable(db, actor.CompanyID, tableID, &table); err != nil {
		return err
	}
	if err := db.Model(&table).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate table: %w", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"company_id":   actor.CompanyID,
		"table_number": table.TableNumber,
	}).Info("table deactivated")
	return nil
}

// ListTables returns the active tables ordered by number.
func (s *TableService) ListTables(ctx context.Context, actor Actor) ([]models.Table, error) {
	if err := authorize(actor, OpTableList); err != nil {
		return nil, err
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	tables := []models.Table{}
	if err := db.Where("company_id = ? AND is_active = ?", actor.CompanyID, true).
		Order("table_number ASC").
		Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func findTenantTable(db *gorm.DB, companyID, tableID string, table *models.Table) error {
	err := db.Where("id = ? AND company_id = ?", tableID, companyID).First(table).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("table")
	}
	if err != nil {
		return fmt.Errorf("failed to load table: %w", err)
	}
	return nil
}

// ensureTableNumberFree checks every table of the company, active or not,
// since the unique index covers deactivated rows too.
func ensureTableNumberFree(db *gorm.DB, companyID string, number int, exceptID string) error {
	q := db.Model(&models.Table{}).Where("company_id = ? AND table_number = ?", companyID, number)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check table number: %w", err)
	}
	if count > 0 {
		return conflict("table number %d already exists", number)
	}
	return nil
}
