package gormpaging

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vaudoise/backoffice/internal/gormutil"
	"github.com/vaudoise/backoffice/paging"
)

// NewOffsetFetcher pages through the rows selected by db using OFFSET and LIMIT.
// The scopes and conditions already on db apply to both the count and the find,
// findScopes such as preloads only to the find.
func NewOffsetFetcher[T any](db *gorm.DB, findScopes ...func(db *gorm.DB) *gorm.DB) paging.FetchFunc[T] {
	return func(ctx context.Context, req *paging.FetchRequest) (*paging.FetchResponse[T], error) {
		var totalCount *int
		if !paging.SkipCount(ctx) {
			count, err := countRows[T](ctx, db)
			if err != nil {
				return nil, err
			}
			totalCount = &count
		}

		if req.Limit <= 0 || (totalCount != nil && req.Offset >= *totalCount) {
			return &paging.FetchResponse[T]{Content: []T{}, TotalCount: totalCount}, nil
		}

		tx := withModel[T](db.WithContext(ctx)).Scopes(findScopes...)
		if req.Offset > 0 {
			tx = tx.Offset(req.Offset)
		}
		tx = tx.Limit(req.Limit)

		if len(req.OrderBy) > 0 {
			stmt, err := gormutil.ParseSchema(tx)
			if err != nil {
				return nil, err
			}
			columns := make([]clause.OrderByColumn, 0, len(req.OrderBy))
			for _, order := range req.OrderBy {
				field, ok := gormutil.LookUpField(stmt.Schema, order.Field)
				if !ok || field.DBName == "" {
					return nil, errors.Errorf("missing field %q in schema", order.Field)
				}
				columns = append(columns, clause.OrderByColumn{
					Column: clause.Column{Table: clause.CurrentTable, Name: field.DBName},
					Desc:   order.Desc(),
				})
			}
			tx = tx.Order(clause.OrderBy{Columns: columns})
		}

		var content []T
		if err := tx.Find(&content).Error; err != nil {
			return nil, errors.Wrap(err, "find")
		}
		if content == nil {
			content = []T{}
		}
		return &paging.FetchResponse[T]{Content: content, TotalCount: totalCount}, nil
	}
}

// countRows counts the rows selected by db.
func countRows[T any](ctx context.Context, db *gorm.DB) (int, error) {
	var total int64
	if err := withModel[T](db.WithContext(ctx)).Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "count")
	}
	return int(total), nil
}

func withModel[T any](db *gorm.DB) *gorm.DB {
	if db.Statement.Model == nil {
		var t T
		db = db.Model(t)
	}
	return db
}
