// internal/domain/models/deal.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Deal statuses. Expired is set by the background expiry job once the
// validity window has passed; active/disabled are operator-controlled.
const (
	DealActive   = "active"
	DealDisabled = "disabled"
	DealExpired  = "expired"
)

// Deal is a time-bounded offer published by a business.
type Deal struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	BusinessID  primitive.ObjectID `bson:"business_id" json:"business_id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL    string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	ValidFrom   time.Time          `bson:"valid_from" json:"valid_from"`
	ValidUntil  time.Time          `bson:"valid_until" json:"valid_until"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
