package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// toggleEdge is the shared primitive behind every toggle endpoint: delete the
// edge if present, otherwise insert it. Both halves are single statements and
// every edge table carries a composite unique index, so concurrent identical
// toggles can never produce a duplicate edge.
func toggleEdge[T any](ctx context.Context, db *gorm.DB, query string, args []any, row *T) (added bool, err error) {
	res := db.WithContext(ctx).Where(query, args...).Delete(new(T))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	err = db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
	return true, err
}

// edgeExists runs a membership test against an edge table.
func edgeExists[T any](ctx context.Context, db *gorm.DB, query string, args ...any) (bool, error) {
	var cnt int64
	if err := db.WithContext(ctx).Model(new(T)).Where(query, args...).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}
