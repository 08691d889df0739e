package restriction

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Restriction is an administrator-created override narrowing a specific
// super_admin's effective access. The scope blob is stored and returned
// verbatim; its internal policy dimensions are interpreted by the caller
// that supplied it, never by this engine.
type Restriction struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	AdminID          uuid.UUID       `db:"admin_id" json:"admin_id"`
	RestrictedUserID uuid.UUID       `db:"restricted_user_id" json:"restricted_user_id"`
	Scope            json.RawMessage `db:"scope" json:"scope,omitempty"`
	Notes            sql.NullString  `db:"notes" json:"notes,omitempty"`
	IsActive         bool            `db:"is_active" json:"is_active"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}
