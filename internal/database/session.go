package database

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ErrNoSession is returned when a write is attempted on a context that has
// no session bound to it.
var ErrNoSession = errors.New("no persistence session bound to context")

// EntryState is the kind of change staged for an entity.
type EntryState int

const (
	Added EntryState = iota + 1
	Modified
	Deleted
)

func (s EntryState) String() string {
	switch s {
	case Added:
		return "Added"
	case Modified:
		return "Modified"
	case Deleted:
		return "Deleted"
	default:
		return "Unknown"
	}
}

// Entry is one staged change.
type Entry struct {
	Entity models.Auditable
	State  EntryState
	// Columns written for a Modified entry. Nil writes every column.
	Columns []string
}

// Session is the persistence context of a single request. It remembers the
// column values of loaded entities and stages changes until Commit writes
// all of them in one transaction.
type Session struct {
	db  *gorm.DB
	now func() time.Time

	mu        sync.Mutex
	entries   []*Entry
	index     map[models.Auditable]*Entry
	snapshots map[models.Auditable]map[string]interface{}
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now as the source of audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession starts an empty session on db.
func NewSession(db *gorm.DB, opts ...Option) *Session {
	s := &Session{
		db:        db,
		now:       func() time.Time { return time.Now().UTC() },
		index:     make(map[models.Auditable]*Entry),
		snapshots: make(map[models.Auditable]map[string]interface{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB returns the connection bound to ctx.
func (s *Session) DB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Track records the current column values of loaded entities, and of the
// children they own, so Commit can tell whether an update changed anything.
func (s *Session) Track(ctx context.Context, entities ...models.Auditable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entities {
		s.track(ctx, e)
	}
}

func (s *Session) track(ctx context.Context, e models.Auditable) {
	if values, _, err := s.columnValues(ctx, e); err == nil {
		s.snapshots[e] = values
	}
	if owner, ok := e.(models.Owner); ok {
		for _, child := range owner.Owned() {
			s.track(ctx, child)
		}
	}
}

// Add stages a new entity. Owned children are inserted along with it.
func (s *Session) Add(e models.Auditable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.index[e]; ok {
		entry.State = Added
		return
	}
	s.stage(&Entry{Entity: e, State: Added})
}

// Update marks a loaded entity as dirty. Nothing is written at commit if
// none of its columns changed since it was loaded.
func (s *Session) Update(e models.Auditable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[e]; ok {
		// Added entities are inserted with their latest values anyway.
		return
	}
	s.stage(&Entry{Entity: e, State: Modified})
}

// Delete stages a soft delete. Deleting an entity that was only added in
// this session drops the insert instead.
func (s *Session) Delete(e models.Auditable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.index[e]; ok {
		if entry.State == Added {
			s.unstage(e)
			return
		}
		entry.State = Deleted
		entry.Columns = nil
		return
	}
	s.stage(&Entry{Entity: e, State: Deleted})
}

func (s *Session) stage(entry *Entry) {
	s.entries = append(s.entries, entry)
	s.index[entry.Entity] = entry
}

func (s *Session) unstage(e models.Auditable) {
	delete(s.index, e)
	for i, entry := range s.entries {
		if entry.Entity == e {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// HasChanges reports whether anything is staged.
func (s *Session) HasChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries) > 0
}

// Discard drops every staged change.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Session) reset() {
	s.entries = nil
	s.index = make(map[models.Auditable]*Entry)
}

// Commit writes every staged change in a single transaction and reports
// whether at least one row was affected. On failure nothing is persisted
// and the audit fields of the staged entities are restored. Staged changes
// are cleared either way.
func (s *Session) Commit(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.entries
	s.reset()

	staged, err := s.detectChanges(ctx, pending)
	if err != nil {
		return false, err
	}
	if len(staged) == 0 {
		return false, nil
	}

	saved := saveAuditState(staged)
	ApplyAudit(staged, s.now())

	var affected int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range staged {
			n, err := s.write(ctx, tx, entry)
			if err != nil {
				return err
			}
			affected += n
		}
		return nil
	})
	if err != nil {
		restoreAuditState(saved)
		return false, fmt.Errorf("failed to commit changes: %w", err)
	}

	for _, entry := range staged {
		s.track(ctx, entry.Entity)
	}
	return affected > 0, nil
}

// detectChanges drops Modified entries whose columns still hold the values
// they were loaded with and narrows the rest to the changed columns.
// Entities that were never tracked are written in full.
func (s *Session) detectChanges(ctx context.Context, pending []*Entry) ([]*Entry, error) {
	staged := make([]*Entry, 0, len(pending))
	for _, entry := range pending {
		if entry.State != Modified {
			staged = append(staged, entry)
			continue
		}
		before, ok := s.snapshots[entry.Entity]
		if !ok {
			staged = append(staged, entry)
			continue
		}
		current, sch, err := s.columnValues(ctx, entry.Entity)
		if err != nil {
			return nil, err
		}
		var changed []string
		for _, name := range sch.DBNames {
			if !sameValue(before[name], current[name]) {
				changed = append(changed, name)
			}
		}
		if len(changed) == 0 {
			continue
		}
		entry.Columns = changed
		staged = append(staged, entry)
	}
	return staged, nil
}

func (s *Session) write(ctx context.Context, tx *gorm.DB, entry *Entry) (int64, error) {
	switch entry.State {
	case Added:
		sch, err := s.schemaOf(entry.Entity)
		if err != nil {
			return 0, err
		}
		q := tx
		// Referenced aggregates (a line's product) are never written through
		// the entity that points at them.
		if omit := belongsTo(sch); len(omit) > 0 {
			q = q.Omit(omit...)
		}
		res := q.Create(entry.Entity)
		if res.Error != nil {
			return 0, fmt.Errorf("failed to insert %s: %w", sch.Table, res.Error)
		}
		return res.RowsAffected, nil
	case Modified:
		q := tx.Model(entry.Entity)
		if entry.Columns == nil {
			q = q.Select("*")
		} else {
			q = q.Select(entry.Columns)
		}
		res := q.Updates(entry.Entity)
		if res.Error != nil {
			return 0, fmt.Errorf("failed to update %T: %w", entry.Entity, res.Error)
		}
		return res.RowsAffected, nil
	default:
		return 0, fmt.Errorf("unexpected entry state %s for %T", entry.State, entry.Entity)
	}
}

func (s *Session) schemaOf(e models.Auditable) (*schema.Schema, error) {
	stmt := &gorm.Statement{DB: s.db}
	if err := stmt.Parse(e); err != nil {
		return nil, fmt.Errorf("failed to parse schema of %T: %w", e, err)
	}
	return stmt.Schema, nil
}

func (s *Session) columnValues(ctx context.Context, e models.Auditable) (map[string]interface{}, *schema.Schema, error) {
	sch, err := s.schemaOf(e)
	if err != nil {
		return nil, nil, err
	}
	rv := reflect.Indirect(reflect.ValueOf(e))
	values := make(map[string]interface{}, len(sch.DBNames))
	for _, name := range sch.DBNames {
		v, _ := sch.FieldsByDBName[name].ValueOf(ctx, rv)
		values[name] = copyValue(v)
	}
	return values, sch, nil
}

func belongsTo(sch *schema.Schema) []string {
	names := make([]string, 0, len(sch.Relationships.BelongsTo))
	for _, rel := range sch.Relationships.BelongsTo {
		names = append(names, rel.Name)
	}
	return names
}

// copyValue detaches pointer values so later writes through the entity do
// not leak into a snapshot.
func copyValue(v interface{}) interface{} {
	if t, ok := v.(*time.Time); ok && t != nil {
		c := *t
		return &c
	}
	return v
}

func sameValue(a, b interface{}) bool {
	switch x := a.(type) {
	case decimal.Decimal:
		y, ok := b.(decimal.Decimal)
		return ok && x.Equal(y)
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case *time.Time:
		y, ok := b.(*time.Time)
		if !ok {
			return false
		}
		if x == nil || y == nil {
			return x == y
		}
		return x.Equal(*y)
	}
	return reflect.DeepEqual(a, b)
}

type sessionKey struct{}

// WithSession binds s to ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session bound to ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
