package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TeacherPreference stores an opaque JSON document per teacher holding
// optional preferred_days / avoid_slots hints. The document is passed
// through to the solver verbatim.
type TeacherPreference struct {
	ID        string         `db:"id" json:"id"`
	TeacherID string         `db:"teacher_id" json:"teacher_id"`
	Data      types.JSONText `db:"data" json:"data"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// PreferenceHints is the subset of the preference document the instance
// builder forwards when present.
type PreferenceHints struct {
	PreferredDays []string `json:"preferred_days,omitempty"`
	AvoidSlots    []string `json:"avoid_slots,omitempty"`
}
