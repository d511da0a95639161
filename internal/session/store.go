package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Record is the single persisted session row. One terminal, one session.
type Record struct {
	ID        uint   `gorm:"primaryKey"`
	Token     string `gorm:"column:token;not null"`
	Email     string `gorm:"column:email;not null"`
	UpdatedAt time.Time
}

func (Record) TableName() string { return "pos_sessions" }

const recordID uint = 1

// Store persists the session between terminal runs in a local sqlite file.
type Store struct {
	conn *gorm.DB
}

// OpenStore opens (and migrates) the local session database.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("session store path is required")
	}

	silent := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 silent,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	if err := conn.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrating session store: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Save upserts the session row.
func (s *Store) Save(ctx context.Context, token, email string) error {
	record := Record{ID: recordID, Token: token, Email: email}
	if err := s.conn.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load returns the persisted session, or nil when none exists.
func (s *Store) Load(ctx context.Context) (*Record, error) {
	var record Record
	err := s.conn.WithContext(ctx).First(&record, recordID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return &record, nil
}

// Wipe removes the persisted session. Safe to call when none exists.
func (s *Store) Wipe(ctx context.Context) error {
	if err := s.conn.WithContext(ctx).Delete(&Record{}, recordID).Error; err != nil {
		return fmt.Errorf("wiping session: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return fmt.Errorf("getting sql db handle: %w", err)
	}
	return sqlDB.Close()
}
