// internal/domain/models/member.go
package models

import "time"

// Member is a person's organizational profile in the "members" collection.
//
// NOTE:
//   - The document _id is the auth provider uid once an identity exists for
//     the person. The same value keys the matching Staff document, which is
//     how the two views of one person stay paired.
//   - A person has at most one Member document system-wide (unique email);
//     reassignment to another organization overwrites OrganizationID.
type Member struct {
	ID             string `bson:"_id" json:"id"` // auth uid
	FullName       string `bson:"full_name" json:"full_name"`
	FullNameCI     string `bson:"full_name_ci" json:"-"`
	Email          string `bson:"email" json:"email"` // lowercase, trimmed
	Phone          string `bson:"phone,omitempty" json:"phone,omitempty"`
	PhotoURL       string `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	OrganizationID string `bson:"organization_id" json:"organization_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
