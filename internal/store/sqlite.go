package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/friendly-foods/backend/internal/models"
)

// appDocument is the single-row table backing the embedded store. The
// document keeps its whole-document read/replace semantics; SQLite only
// provides durability.
type appDocument struct {
	ID   string `gorm:"primaryKey"`
	Data []byte
}

func (appDocument) TableName() string { return "app_documents" }

// SQLiteStore persists the application document as one row in an embedded
// SQLite database. Used for development and tests where no Redis is
// available.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (or creates) the database at path and migrates the
// document table.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := db.AutoMigrate(&appDocument{}); err != nil {
		return nil, fmt.Errorf("failed to migrate document table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Read(ctx context.Context) (*models.Document, error) {
	var row appDocument
	err := s.db.WithContext(ctx).First(&row, "id = ?", "main").Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var doc models.Document
	if err := json.Unmarshal(row.Data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	normalize(&doc)
	return &doc, nil
}

func (s *SQLiteStore) Write(ctx context.Context, doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	row := appDocument{ID: "main", Data: data}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
