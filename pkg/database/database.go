package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultSQLitePath = "delivery_notes.db"

// ConnectDB opens the shared store handle. DATABASE_URL selects Postgres;
// otherwise a local SQLite file is created on first run. The handle is
// constructed once at startup and passed to every repository.
func ConnectDB() *gorm.DB {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	var (
		db  *gorm.DB
		err error
	)

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // Disables implicit prepared statements for pooled setups
		}), &gorm.Config{
			Logger:      newLogger,
			PrepareStmt: false,
		})
	} else {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = defaultSQLitePath
		}
		// FK checks are off by default in SQLite and the pragma is
		// per-connection, so it has to ride on the DSN.
		dsn := fmt.Sprintf("file:%s?_foreign_keys=1", path)
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: newLogger})
	}

	if err != nil {
		log.Fatal("Failed to connect to database. \n", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
	return db
}
