package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vaudoise/backoffice/internal/gormutil"
	"github.com/vaudoise/backoffice/paging"
	"github.com/vaudoise/backoffice/paging/gormpaging"
	"github.com/vaudoise/backoffice/search"
	"github.com/vaudoise/backoffice/search/gormsearch"
)

var ErrNotFound = errors.New("record not found")

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

type Scope = func(db *gorm.DB) *gorm.DB

// Repository gives generic access to the records of model T.
type Repository[T any] struct {
	db          *gorm.DB
	defaultSize int
	maxSize     int
	preloads    []string
}

type RepositoryOption func(*repositoryOptions)

type repositoryOptions struct {
	defaultSize, maxSize int
	preloads             []string
}

// WithPreload loads the named associations along with every record read.
func WithPreload(associations ...string) RepositoryOption {
	return func(o *repositoryOptions) {
		o.preloads = append(o.preloads, associations...)
	}
}

// WithPageSizes overrides the default and the maximum page size.
func WithPageSizes(defaultSize, maxSize int) RepositoryOption {
	return func(o *repositoryOptions) {
		o.defaultSize, o.maxSize = defaultSize, maxSize
	}
}

func NewRepository[T any](db *gorm.DB, opts ...RepositoryOption) *Repository[T] {
	o := &repositoryOptions{defaultSize: DefaultPageSize, maxSize: MaxPageSize}
	for _, opt := range opts {
		opt(o)
	}
	return &Repository[T]{db: db, defaultSize: o.defaultSize, maxSize: o.maxSize, preloads: o.preloads}
}

// WithTx returns a copy of r running on tx.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	cp := *r
	cp.db = tx
	return &cp
}

func (r *Repository[T]) query(ctx context.Context, scopes ...Scope) *gorm.DB {
	return r.db.WithContext(ctx).Model(new(T)).Scopes(scopes...)
}

func (r *Repository[T]) preload(db *gorm.DB) *gorm.DB {
	for _, association := range r.preloads {
		db = db.Preload(association)
	}
	return db
}

func (r *Repository[T]) FindByID(ctx context.Context, id int64, scopes ...Scope) (*T, error) {
	return r.first(ctx, append(slices.Clip(scopes), byColumn("id", id))...)
}

func (r *Repository[T]) FindByUUID(ctx context.Context, id uuid.UUID, scopes ...Scope) (*T, error) {
	return r.first(ctx, append(slices.Clip(scopes), byColumn("uuid", id))...)
}

func (r *Repository[T]) first(ctx context.Context, scopes ...Scope) (*T, error) {
	var record T
	err := r.preload(r.query(ctx, scopes...)).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.WithStack(ErrNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "find")
	}
	return &record, nil
}

func byColumn(column string, value any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: column}, Value: value})
	}
}

// Exists reports whether any record matches the scopes.
func (r *Repository[T]) Exists(ctx context.Context, scopes ...Scope) (bool, error) {
	var count int64
	if err := r.query(ctx, scopes...).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "count")
	}
	return count > 0, nil
}

// Create inserts record without touching its associations.
func (r *Repository[T]) Create(ctx context.Context, record *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error; err != nil {
		return errors.Wrap(err, "create")
	}
	return nil
}

// Save updates every column of record without touching its associations.
func (r *Repository[T]) Save(ctx context.Context, record *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(record).Error; err != nil {
		return errors.Wrap(err, "save")
	}
	return nil
}

func (r *Repository[T]) DeleteByID(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "delete")
	}
	if result.RowsAffected == 0 {
		return errors.WithStack(ErrNotFound)
	}
	return nil
}

// Delete removes every record matching the scopes and returns how many were removed.
func (r *Repository[T]) Delete(ctx context.Context, scopes ...Scope) (int64, error) {
	if len(scopes) == 0 {
		return 0, errors.New("delete without conditions")
	}
	result := r.db.WithContext(ctx).Scopes(scopes...).Delete(new(T))
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "delete")
	}
	return result.RowsAffected, nil
}

func (r *Repository[T]) paginator(db *gorm.DB) paging.Paginator[*T] {
	return paging.New(
		gormpaging.NewOffsetFetcher[*T](db, r.preload),
		paging.EnsureLimits[*T](r.defaultSize, r.maxSize),
		paging.EnsurePrimaryOrderBy[*T](paging.Order{Field: "id", Direction: paging.DirectionAsc}),
	)
}

// Page pages through the records matching the scopes, ordered by id unless req says otherwise.
func (r *Repository[T]) Page(ctx context.Context, req *paging.PageRequest, scopes ...Scope) (*paging.Page[*T], error) {
	if req == nil {
		req = &paging.PageRequest{}
	}
	return r.paginator(r.query(ctx, scopes...)).Paginate(ctx, req)
}

type BrowseOption func(*browseOptions)

type browseOptions struct {
	fields []string
	search []gormsearch.Option
	scopes []Scope
}

// WithFields restricts the fuzzy fallback to fields.
func WithFields(fields ...string) BrowseOption {
	return func(o *browseOptions) {
		o.fields = append(o.fields, fields...)
	}
}

// WithFold makes the query case insensitive.
func WithFold() BrowseOption {
	return func(o *browseOptions) {
		o.search = append(o.search, gormsearch.WithFold())
	}
}

func WithScopes(scopes ...Scope) BrowseOption {
	return func(o *browseOptions) {
		o.scopes = append(o.scopes, scopes...)
	}
}

// Browse pages through the records matching the free-text query. A blank query
// matches every record.
func (r *Repository[T]) Browse(ctx context.Context, query string, req *paging.PageRequest, opts ...BrowseOption) (*paging.Page[*T], error) {
	o := &browseOptions{}
	for _, opt := range opts {
		opt(o)
	}
	entity := search.EntityFor[T]()
	if entity == nil {
		return nil, errors.Errorf("no search entity registered for %T", *new(T))
	}
	pred := search.FromQuery(query, entity, o.fields...)
	scopes := append(slices.Clip(o.scopes), gormsearch.Scope(pred, o.search...))
	page, err := r.Page(ctx, req, scopes...)
	if err != nil {
		return nil, errors.Wrapf(err, "browse %s", entity.Name())
	}
	return page, nil
}

// Sum adds up field over the records matching the scopes. It is zero when none match.
func (r *Repository[T]) Sum(ctx context.Context, field string, scopes ...Scope) (decimal.Decimal, error) {
	db := r.query(ctx, scopes...)
	stmt, err := gormutil.ParseSchema(db)
	if err != nil {
		return decimal.Zero, err
	}
	f, ok := gormutil.LookUpField(stmt.Schema, field)
	if !ok {
		return decimal.Zero, errors.Errorf("missing field %q in schema", field)
	}
	column := stmt.Quote(clause.Column{Table: stmt.Table, Name: f.DBName})

	rows, err := db.Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", column)).Rows()
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "sum")
	}
	defer rows.Close()

	sum := decimal.Zero
	if rows.Next() {
		if err := rows.Scan(&sum); err != nil {
			return decimal.Zero, errors.Wrap(err, "scan sum")
		}
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, errors.Wrap(err, "sum")
	}
	return sum, nil
}
