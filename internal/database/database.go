package database

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the local SQLite store. The whole system is
// single-profile and local-first, so a file database is the
// server-side equivalent of the browser storage it replaces.
func Connect(path string) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", path, err)
	}

	DB = db
	log.Printf("Connected to SQLite store at %s", path)
}
