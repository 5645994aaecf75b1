package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, handle string) *model.User {
	t.Helper()
	u := &model.User{Handle: handle, Name: handle, PasswordHash: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedTweet(t *testing.T, db *gorm.DB, authorID uint, kind model.Kind, text string, originalID *uint) *model.Tweet {
	t.Helper()
	tw := &model.Tweet{AuthorID: authorID, Kind: kind, Text: text, OriginalID: originalID}
	require.NoError(t, db.Create(tw).Error)
	return tw
}

func ctx() context.Context { return context.Background() }
