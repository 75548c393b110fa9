package gormpaging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vaudoise/backoffice/paging"
	"github.com/vaudoise/backoffice/paging/gormpaging"
)

type Member struct {
	ID   int64
	Name string
}

type captured struct {
	SQL  string
	Vars []any
}

func openDryRun(t *testing.T) (*gorm.DB, *[]captured) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	var statements []captured
	err = db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		statements = append(statements, captured{SQL: tx.Statement.SQL.String(), Vars: tx.Statement.Vars})
	})
	require.NoError(t, err)
	return db, &statements
}

func TestOffsetFetcher(t *testing.T) {
	ctx := context.Background()

	t.Run("find with order and offset", func(t *testing.T) {
		db, statements := openDryRun(t)
		fetch := gormpaging.NewOffsetFetcher[*Member](db.Where("name = ?", "x"))

		rsp, err := fetch(paging.WithSkipCount(ctx), &paging.FetchRequest{
			OrderBy: []paging.Order{
				{Field: "name", Direction: paging.DirectionDesc},
				{Field: "id", Direction: paging.DirectionAsc},
			},
			Offset: 10,
			Limit:  5,
		})
		require.NoError(t, err)
		require.Nil(t, rsp.TotalCount)
		require.Empty(t, rsp.Content)
		require.Equal(t, []captured{{
			SQL:  `SELECT * FROM "members" WHERE name = $1 ORDER BY "members"."name" DESC,"members"."id" LIMIT $2 OFFSET $3`,
			Vars: []any{"x", 5, 10},
		}}, *statements)
	})

	t.Run("count first", func(t *testing.T) {
		db, statements := openDryRun(t)
		fetch := gormpaging.NewOffsetFetcher[*Member](db.Where("name = ?", "x"))

		rsp, err := fetch(ctx, &paging.FetchRequest{Limit: 5})
		require.NoError(t, err)
		require.NotNil(t, rsp.TotalCount)
		require.Equal(t, 0, *rsp.TotalCount)
		require.Empty(t, rsp.Content)
		// nothing to find once the count is zero
		require.Len(t, *statements, 1)
		require.Equal(t, `SELECT count(*) FROM "members" WHERE name = $1`, (*statements)[0].SQL)
	})

	t.Run("zero limit", func(t *testing.T) {
		db, statements := openDryRun(t)
		fetch := gormpaging.NewOffsetFetcher[*Member](db)

		rsp, err := fetch(paging.WithSkipCount(ctx), &paging.FetchRequest{Limit: 0})
		require.NoError(t, err)
		require.Empty(t, rsp.Content)
		require.Empty(t, *statements)
	})

	t.Run("unknown order field", func(t *testing.T) {
		db, _ := openDryRun(t)
		fetch := gormpaging.NewOffsetFetcher[*Member](db)

		_, err := fetch(paging.WithSkipCount(ctx), &paging.FetchRequest{
			OrderBy: []paging.Order{{Field: "missing"}},
			Limit:   5,
		})
		require.ErrorContains(t, err, `missing field "missing" in schema`)
	})
}
