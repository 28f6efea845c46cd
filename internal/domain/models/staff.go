// internal/domain/models/staff.go
package models

import "time"

// Staff is a person's administrative profile in the "staff" collection:
// an employee of a hostel or a committee member of a uniclub, with the
// permission keys that unlock dashboard sections.
//
// The document _id equals the auth provider uid whenever an identity has
// been created for the person (same value as the Member _id).
type Staff struct {
	ID          string `bson:"_id" json:"id"` // auth uid
	FullName    string `bson:"full_name" json:"full_name"`
	FullNameCI  string `bson:"full_name_ci" json:"-"`
	Email       string `bson:"email" json:"email"` // lowercase, trimmed
	Phone       string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address     string `bson:"address,omitempty" json:"address,omitempty"`
	Designation string `bson:"designation,omitempty" json:"designation,omitempty"`
	StudentID   string `bson:"student_id,omitempty" json:"student_id,omitempty"`
	PhotoURL    string `bson:"photo_url,omitempty" json:"photo_url,omitempty"`

	// Permissions is the canonical, sorted, deduplicated capability-key set.
	// The HTTP boundary normalizes the three legacy representations before
	// anything is stored; only this form lives in the database.
	Permissions []string `bson:"permissions" json:"permissions"`

	// Assignment scope: the organization, and for uniclubs optionally a
	// subgroup (committee/wing) within it.
	OrganizationID string `bson:"organization_id" json:"organization_id"`
	SubgroupID     string `bson:"subgroup_id,omitempty" json:"subgroup_id,omitempty"`

	// Password is the generated credential mirror kept for administrator
	// visibility. A compatibility carry-over from the source system, not a
	// security boundary; see internal/app/system/legacypass.
	Password     string `bson:"password,omitempty" json:"-"`
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`

	CreatedByID   string    `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`
	CreatedByName string    `bson:"created_by_name,omitempty" json:"created_by_name,omitempty"`
	UpdatedByID   string    `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
	UpdatedByName string    `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}
