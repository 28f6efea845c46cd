// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization kinds.
const (
	OrgKindHostel  = "hostel"
	OrgKindUniclub = "uniclub"
)

// Organization is a tenant: a hostel or a university club.
// Includes case/diacritic-insensitive fields for search/sort.
type Organization struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Kind        string             `bson:"kind" json:"kind"` // hostel | uniclub
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	City        string             `bson:"city" json:"city"`
	CityCI      string             `bson:"city_ci" json:"-"`
	State       string             `bson:"state" json:"state"`
	StateCI     string             `bson:"state_ci" json:"-"`
	ContactInfo string             `bson:"contact_info" json:"contact_info"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
