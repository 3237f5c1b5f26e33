package models

import "time"

// Group represents a student group. Subgroups are modelled as groups
// referencing a parent via ParentGroupID.
type Group struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Size          int       `db:"size" json:"size"`
	ParentGroupID *string   `db:"parent_group_id" json:"parent_group_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
