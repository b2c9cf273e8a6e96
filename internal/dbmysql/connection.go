package dbmysql

import (
	"fmt"
	"log"

	"labtrack/internal/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func NewConnection(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DSN()

	log.Printf("Connecting to database: %s:%s/%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DatabaseName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	if err := db.AutoMigrate(&User{}); err != nil {
		log.Printf("Migration warning: %v", err)
	}

	return db, nil
}
