package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"poswatch/internal/logger"
)

const snapshotRowName = "snapshot"

type snapshotModel struct {
	ID            int64          `gorm:"column:id;primaryKey"`
	Name          string         `gorm:"column:name;uniqueIndex"`
	Blob          datatypes.JSON `gorm:"column:blob"`
	UpdatedAtUnix int64          `gorm:"column:updated_at"`
}

func (snapshotModel) TableName() string { return "snapshots" }

// SQLiteStore keeps the snapshot as a single JSON blob row, for
// deployments that already ship a sqlite volume.
type SQLiteStore struct {
	db *gorm.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite state path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&snapshotModel{}); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load() Snapshot {
	var row snapshotModel
	err := s.db.Where("name = ?", snapshotRowName).First(&row).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Warnf("state: loading snapshot row failed, starting cold: %v", err)
		}
		return Empty()
	}
	snap, err := decodeSnapshot(row.Blob)
	if err != nil {
		logger.Warnf("state: stored snapshot blob is malformed, starting cold: %v", err)
		return Empty()
	}
	return snap
}

func (s *SQLiteStore) Save(snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	row := snapshotModel{
		Name:          snapshotRowName,
		Blob:          datatypes.JSON(raw),
		UpdatedAtUnix: time.Now().Unix(),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"blob", "updated_at"}),
	}).Create(&row).Error
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
