package database

import (
	"time"

	"storefront/internal/models"
)

const (
	columnUpdatedAt = "updated_at"
	columnIsDeleted = "is_deleted"
)

// ApplyAudit is the pre-commit hook run over the pending changes of a session.
//
//   - Added: CreatedAt = now, IsDeleted = false, also on owned children.
//   - Modified: UpdatedAt = now.
//   - Deleted: becomes a Modified entry writing IsDeleted = true and
//     UpdatedAt = now. Rows are never physically removed.
func ApplyAudit(entries []*Entry, now time.Time) {
	for _, entry := range entries {
		base := entry.Entity.Base()
		switch entry.State {
		case Added:
			stampCreated(entry.Entity, now)
		case Modified:
			ts := now
			base.UpdatedAt = &ts
			if entry.Columns != nil {
				entry.Columns = appendColumn(entry.Columns, columnUpdatedAt)
			}
		case Deleted:
			ts := now
			base.IsDeleted = true
			base.UpdatedAt = &ts
			entry.State = Modified
			entry.Columns = []string{columnIsDeleted, columnUpdatedAt}
		}
	}
}

func stampCreated(e models.Auditable, now time.Time) {
	base := e.Base()
	base.CreatedAt = now
	base.IsDeleted = false
	if owner, ok := e.(models.Owner); ok {
		for _, child := range owner.Owned() {
			stampCreated(child, now)
		}
	}
}

func appendColumn(columns []string, name string) []string {
	for _, c := range columns {
		if c == name {
			return columns
		}
	}
	return append(columns, name)
}

// auditState remembers the audit fields of staged entities so a failed
// commit can put them back.
type auditState struct {
	base  *models.Entity
	value models.Entity
}

func saveAuditState(entries []*Entry) []auditState {
	var saved []auditState
	var walk func(models.Auditable)
	walk = func(e models.Auditable) {
		saved = append(saved, auditState{base: e.Base(), value: *e.Base()})
		if owner, ok := e.(models.Owner); ok {
			for _, child := range owner.Owned() {
				walk(child)
			}
		}
	}
	for _, entry := range entries {
		walk(entry.Entity)
	}
	return saved
}

func restoreAuditState(saved []auditState) {
	for _, s := range saved {
		*s.base = s.value
	}
}
