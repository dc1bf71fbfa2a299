package database

import (
	"fmt"

	"github.com/yeremiapane/tablesession-api/config"
	"github.com/yeremiapane/tablesession-api/models"
	"github.com/yeremiapane/tablesession-api/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database described by cfg.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.SQLiteDSN()
	if cfg.Database.Driver == "mysql" {
		dsn = cfg.MySQLDSN()
	}
	return Open(cfg.Database.Driver, dsn, cfg.Database.MaxOpenConns)
}

// Open connects with the given driver. Driver errors are translated so that
// unique violations surface as gorm.ErrDuplicatedKey.
func Open(driver, dsn string, maxOpenConns int) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// sqlite allows a single writer; one connection serializes transactions
	// instead of failing them with SQLITE_BUSY.
	if driver == "sqlite" {
		maxOpenConns = 1
	}
	if maxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(maxOpenConns)
	}

	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Table{},
		&models.MenuItem{},
		&models.TableSession{},
		&models.Order{},
		&models.OrderStatusHistory{},
		&models.OutboxEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to AutoMigrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
