package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/theline-social/theline/config"
	"github.com/theline-social/theline/internal/model"
)

// InitDB opens the relational store and migrates the schema. The DSN prefix
// selects the dialect: postgres:// or sqlite://.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, "postgres://"):
		dialector = postgres.Open(dsn)
	case strings.HasPrefix(dsn, "sqlite://"):
		dialector = sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	default:
		return nil, fmt.Errorf("unsupported database dsn %q", dsn)
	}

	logMode := gormlogger.Silent
	if cfg.Server.Mode == "debug" {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table. Shared with test fixtures.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Employee{},
		&model.Follow{},
		&model.Mute{},
		&model.Block{},
		&model.Tweet{},
		&model.TweetMedia{},
		&model.Reel{},
		&model.React{},
		&model.Bookmark{},
		&model.Mention{},
		&model.Poll{},
		&model.PollOption{},
		&model.PollVote{},
		&model.Topic{},
		&model.Tag{},
		&model.TagLink{},
		&model.Notification{},
		&model.Conversation{},
		&model.Message{},
		&model.Job{},
		&model.JobBookmark{},
		&model.JobApplication{},
		&model.SubscriptionRequest{},
	)
}
