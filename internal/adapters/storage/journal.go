package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/petekp/sessiontrack/internal/domain"
	"github.com/petekp/sessiontrack/internal/logging"
	"github.com/petekp/sessiontrack/internal/ports"
)

// SQLiteJournal implements ports.EventJournal using GORM. It is a
// diagnostics sink only; the session state of record lives in FileStore.
type SQLiteJournal struct {
	db *gorm.DB
}

// Compile-time interface verification
var _ ports.EventJournal = (*SQLiteJournal)(nil)

// gormLogger bridges GORM's logger onto the sessiontrack logger
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error",
			"error", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else {
		logging.Logger.Debug("gorm query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("SESSIONTRACK_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// NewSQLiteJournal opens (creating if needed) the journal database
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	// WAL lets concurrent hook invocations append without blocking readers
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if err := db.Exec("PRAGMA busy_timeout=5000").Error; err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := db.AutoMigrate(&EventModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// Record appends one decoded event to the journal
func (j *SQLiteJournal) Record(ctx context.Context, entry domain.JournalEntry) error {
	model := EventModel{
		Action:           string(entry.Action),
		Kind:             string(entry.Kind),
		NotificationType: entry.NotificationType,
		ObservedAt:       entry.ObservedAt,
		SessionID:        entry.SessionID,
		ToolName:         entry.ToolName,
	}
	if err := j.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// History returns journal entries, newest first
func (j *SQLiteJournal) History(ctx context.Context, sessionID string, limit int) ([]domain.JournalEntry, error) {
	query := j.db.WithContext(ctx).Model(&EventModel{}).Order("observed_at DESC")
	if sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []EventModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}

	entries := make([]domain.JournalEntry, 0, len(models))
	for _, m := range models {
		entries = append(entries, domain.JournalEntry{
			Action:           domain.Action(m.Action),
			Kind:             domain.EventKind(m.Kind),
			NotificationType: m.NotificationType,
			ObservedAt:       m.ObservedAt,
			SessionID:        m.SessionID,
			ToolName:         m.ToolName,
		})
	}
	return entries, nil
}

// Close closes the underlying database connection
func (j *SQLiteJournal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
