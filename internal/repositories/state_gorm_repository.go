package repositories

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// StateEntry is one persisted key.
type StateEntry struct {
	Name      string `gorm:"primaryKey;type:varchar(64)"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// GORMStateRepository stores session state in a SQLite file through GORM.
type GORMStateRepository struct {
	db *gorm.DB
}

// OpenSQLiteState opens (creating if needed) the state database at path.
func OpenSQLiteState(path string) (*GORMStateRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	return NewGORMStateRepository(db)
}

// NewGORMStateRepository migrates the schema on db and wraps it.
func NewGORMStateRepository(db *gorm.DB) (*GORMStateRepository, error) {
	if err := db.AutoMigrate(&StateEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate state schema: %w", err)
	}
	return &GORMStateRepository{db: db}, nil
}

// Get returns the value stored under key.
func (r *GORMStateRepository) Get(key string) (string, error) {
	var entry StateEntry
	if err := r.db.First(&entry, "name = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return entry.Value, nil
}

// Set upserts key.
func (r *GORMStateRepository) Set(key, value string) error {
	entry := StateEntry{Name: key, Value: value, UpdatedAt: time.Now()}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes keys. Missing keys are not an error.
func (r *GORMStateRepository) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.db.Where("name IN ?", keys).Delete(&StateEntry{}).Error; err != nil {
		return fmt.Errorf("failed to delete %v: %w", keys, err)
	}
	return nil
}

// Close releases the underlying connection.
func (r *GORMStateRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
