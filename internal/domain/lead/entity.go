package lead

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Source identifies where a lead entered the CRM
type Source string

const (
	SourceWebsite Source = "website"
	SourceMeta    Source = "meta"
	SourceGoogle  Source = "google"
)

// Status represents a lead's pipeline stage (matches lead_status enum)
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
	StatusLost      Status = "lost"
)

// transitions lists the legal next stages. Converted is terminal.
var transitions = map[Status][]Status{
	StatusNew:       {StatusContacted, StatusQualified, StatusLost},
	StatusContacted: {StatusQualified, StatusConverted, StatusLost},
	StatusQualified: {StatusConverted, StatusLost},
	StatusConverted: {},
	StatusLost:      {StatusContacted},
}

// CanTransition reports whether a lead may move from one stage to another
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Lead represents a CRM lead record
type Lead struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	ContactName  string         `db:"contact_name" json:"contact_name"`
	ContactEmail sql.NullString `db:"contact_email" json:"-"`
	ContactPhone sql.NullString `db:"contact_phone" json:"-"`
	CompanyName  sql.NullString `db:"company_name" json:"-"`
	Source       Source         `db:"source" json:"source"`
	Status       Status         `db:"status" json:"status"`
	AssignedTo   uuid.NullUUID  `db:"assigned_to" json:"-"`
	Notes        sql.NullString `db:"notes" json:"-"`
	UTMSource    sql.NullString `db:"utm_source" json:"-"`
	UTMMedium    sql.NullString `db:"utm_medium" json:"-"`
	UTMCampaign  sql.NullString `db:"utm_campaign" json:"-"`
	IPAddress    sql.NullString `db:"ip_address" json:"-"`
	UserAgent    sql.NullString `db:"user_agent" json:"-"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}
