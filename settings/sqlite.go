package settings

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type settingRow struct {
	ID        uint      `gorm:"primaryKey"`
	Key       string    `gorm:"uniqueIndex;not null"`
	Value     bool      `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (settingRow) TableName() string { return "editor_settings" }

// SQLBackend stores values in the editor_settings table.
type SQLBackend struct {
	db     *gorm.DB
	logger *zap.Logger
}

// OpenSQLite opens (creating if needed) a SQLite database at path and
// migrates the settings table.
func OpenSQLite(path string, logger *zap.Logger) (*SQLBackend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return NewSQLBackend(db, logger)
}

// NewSQLBackend wraps an existing connection and migrates the settings table.
func NewSQLBackend(db *gorm.DB, logger *zap.Logger) (*SQLBackend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.AutoMigrate(&settingRow{}); err != nil {
		return nil, fmt.Errorf("migrate editor_settings: %w", err)
	}
	return &SQLBackend{db: db, logger: logger}, nil
}

func (b *SQLBackend) Bool(key string) (bool, bool) {
	var row settingRow
	err := b.db.Where("key = ?", key).Take(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			b.logger.Error("settings read failed", zap.String("key", key), zap.Error(err))
		}
		return false, false
	}
	return row.Value, true
}

func (b *SQLBackend) SetBool(key string, value bool) {
	row := settingRow{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		b.logger.Error("settings write failed", zap.String("key", key), zap.Error(err))
	}
}

// Close releases the underlying connection pool.
func (b *SQLBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
