package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/pkg/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no live row matches a lookup.
var ErrNotFound = errors.New("record not found")

// Scope narrows or extends a query.
type Scope = func(*gorm.DB) *gorm.DB

type queryOptions struct {
	filters  []Scope
	includes []Scope
	order    interface{}
}

// QueryOption configures a read.
type QueryOption func(*queryOptions)

// WithFilter narrows the rows considered, before counting and slicing.
func WithFilter(scope Scope) QueryOption {
	return func(o *queryOptions) { o.filters = append(o.filters, scope) }
}

// WithWhere is WithFilter for a plain condition.
func WithWhere(query interface{}, args ...interface{}) QueryOption {
	return WithFilter(func(db *gorm.DB) *gorm.DB { return db.Where(query, args...) })
}

// WithInclude eager-loads associations of the returned rows.
func WithInclude(scope Scope) QueryOption {
	return func(o *queryOptions) { o.includes = append(o.includes, scope) }
}

// WithPreload eager-loads the named associations.
func WithPreload(associations ...string) QueryOption {
	return WithInclude(func(db *gorm.DB) *gorm.DB {
		for _, a := range associations {
			db = db.Preload(a)
		}
		return db
	})
}

// WithOrder sorts results. The primary key always breaks ties.
func WithOrder(order interface{}) QueryOption {
	return func(o *queryOptions) { o.order = order }
}

func collect(opts []QueryOption) queryOptions {
	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o queryOptions) apply(db *gorm.DB) *gorm.DB {
	for _, f := range o.filters {
		db = db.Scopes(f)
	}
	for _, inc := range o.includes {
		db = db.Scopes(inc)
	}
	return db
}

var byPrimaryKey = clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}}

// Store is the contract shared by every aggregate repository.
type Store[T any] interface {
	GetByID(ctx context.Context, id uint, opts ...QueryOption) (*T, error)
	GetPage(ctx context.Context, params pagination.Params, opts ...QueryOption) (pagination.PagedResult[T], error)
	Add(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, entity *T) error
}

// Repository is the GORM implementation of Store. Reads run against the
// session bound to the context when there is one, so loaded entities are
// tracked; writes are staged on that session until the unit of work commits.
type Repository[T any, PT interface {
	*T
	models.Auditable
}] struct {
	db *gorm.DB
}

// NewRepository creates a Repository reading from db when no session is bound.
func NewRepository[T any, PT interface {
	*T
	models.Auditable
}](db *gorm.DB) Repository[T, PT] {
	return Repository[T, PT]{db: db}
}

// DB returns the connection for ctx.
func (r Repository[T, PT]) DB(ctx context.Context) *gorm.DB {
	if s, ok := database.FromContext(ctx); ok {
		return s.DB(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r Repository[T, PT]) session(ctx context.Context) (*database.Session, error) {
	s, ok := database.FromContext(ctx)
	if !ok {
		return nil, database.ErrNoSession
	}
	return s, nil
}

func (r Repository[T, PT]) track(ctx context.Context, entity PT) {
	if s, ok := database.FromContext(ctx); ok {
		s.Track(ctx, entity)
	}
}

func (r Repository[T, PT]) name() string {
	var zero T
	return strings.TrimPrefix(fmt.Sprintf("%T", zero), "models.")
}

// GetByID returns the live row with the given id, or ErrNotFound.
func (r Repository[T, PT]) GetByID(ctx context.Context, id uint, opts ...QueryOption) (PT, error) {
	var entity T
	if err := collect(opts).apply(r.DB(ctx)).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s by ID %d: %w", r.name(), id, err)
	}
	r.track(ctx, PT(&entity))
	return PT(&entity), nil
}

// FindOne returns the first live row matching opts, or ErrNotFound.
func (r Repository[T, PT]) FindOne(ctx context.Context, opts ...QueryOption) (PT, error) {
	o := collect(opts)
	q := o.apply(r.DB(ctx))
	if o.order != nil {
		q = q.Order(o.order)
	}
	var entity T
	if err := q.Order(byPrimaryKey).Limit(1).Find(&entity).Error; err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", r.name(), err)
	}
	if PT(&entity).Base().ID == 0 {
		return nil, ErrNotFound
	}
	r.track(ctx, PT(&entity))
	return PT(&entity), nil
}

// FindAll returns every live row matching opts.
func (r Repository[T, PT]) FindAll(ctx context.Context, opts ...QueryOption) ([]T, error) {
	o := collect(opts)
	q := o.apply(r.DB(ctx))
	if o.order != nil {
		q = q.Order(o.order)
	}
	var items []T
	if err := q.Order(byPrimaryKey).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.name(), err)
	}
	return items, nil
}

// Exists reports whether any live row matches opts.
func (r Repository[T, PT]) Exists(ctx context.Context, opts ...QueryOption) (bool, error) {
	o := collect(opts)
	var count int64
	q := r.DB(ctx).Model(new(T))
	for _, f := range o.filters {
		q = q.Scopes(f)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count %s: %w", r.name(), err)
	}
	return count > 0, nil
}

// GetPage returns one page of live rows. Filters narrow the set before it
// is counted; a page past the end comes back empty with full metadata.
func (r Repository[T, PT]) GetPage(ctx context.Context, params pagination.Params, opts ...QueryOption) (pagination.PagedResult[T], error) {
	o := collect(opts)
	p := params.Normalize()

	base := r.DB(ctx).Model(new(T))
	for _, f := range o.filters {
		base = base.Scopes(f)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return pagination.PagedResult[T]{}, fmt.Errorf("failed to count %s: %w", r.name(), err)
	}

	q := base
	for _, inc := range o.includes {
		q = q.Scopes(inc)
	}
	if o.order != nil {
		q = q.Order(o.order)
	}
	items := make([]T, 0, p.PageSize)
	if err := q.Order(byPrimaryKey).Offset(p.Offset()).Limit(p.PageSize).Find(&items).Error; err != nil {
		return pagination.PagedResult[T]{}, fmt.Errorf("failed to get %s page: %w", r.name(), err)
	}
	return pagination.NewPagedResult(items, total, p), nil
}

// Add stages a new row. Its id is assigned when the unit of work commits.
func (r Repository[T, PT]) Add(ctx context.Context, entity PT) error {
	s, err := r.session(ctx)
	if err != nil {
		return err
	}
	s.Add(entity)
	return nil
}

// Update marks a loaded row as dirty; unchanged rows are not written.
func (r Repository[T, PT]) Update(ctx context.Context, entity PT) error {
	s, err := r.session(ctx)
	if err != nil {
		return err
	}
	s.Update(entity)
	return nil
}

// Delete stages a soft delete.
func (r Repository[T, PT]) Delete(ctx context.Context, entity PT) error {
	s, err := r.session(ctx)
	if err != nil {
		return err
	}
	s.Delete(entity)
	return nil
}

// IsUniqueViolation reports whether err comes from a unique index.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
