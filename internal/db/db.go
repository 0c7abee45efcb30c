package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/cafedesk/internal/models"
)

// Store is the relational record store for sessions and systems.
type Store struct {
	db *gorm.DB
}

type txKey struct{}

// Open sets up the database connection and runs migrations
func Open(dbPath string) (*Store, error) {
	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}

	// Run auto-migrations
	if err := s.runMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// runMigrations creates/updates the database schema
func (s *Store) runMigrations() error {
	return s.db.AutoMigrate(
		&models.System{},
		&models.Session{},
	)
}

// Seed inserts the given systems when the systems table is empty.
func (s *Store) Seed(ctx context.Context, systems []models.System) error {
	var count int64
	if err := s.conn(ctx).Model(&models.System{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count systems: %w", err)
	}
	if count > 0 || len(systems) == 0 {
		return nil
	}

	if err := s.conn(ctx).Create(&systems).Error; err != nil {
		return fmt.Errorf("failed to seed systems: %w", err)
	}
	return nil
}

// Atomically runs fn inside a transaction. Store calls made with the context
// passed to fn join the transaction.
func (s *Store) Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction carried by ctx, if any.
func (s *Store) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return s.db.WithContext(ctx)
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
