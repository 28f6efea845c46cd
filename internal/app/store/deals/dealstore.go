// internal/app/store/deals/dealstore.go
package dealstore

import (
	"context"
	"errors"
	"time"

	"github.com/campushq/campushub/internal/app/system/normalize"
	"github.com/campushq/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrBadWindow = errors.New("valid_until must be after valid_from")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("deals")}
}

func (s *Store) Create(ctx context.Context, d models.Deal) (models.Deal, error) {
	if !d.ValidUntil.After(d.ValidFrom) {
		return models.Deal{}, ErrBadWindow
	}

	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.Title = normalize.Name(d.Title)
	d.TitleCI = text.Fold(d.Title)
	if d.Status == "" {
		d.Status = models.DealActive
	}
	d.CreatedAt = now
	d.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Deal{}, err
	}
	return d, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Deal, error) {
	var d models.Deal
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		return models.Deal{}, err
	}
	return d, nil
}

// Update modifies a deal's mutable fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, d models.Deal) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if d.Title != "" {
		set["title"] = normalize.Name(d.Title)
		set["title_ci"] = text.Fold(d.Title)
	}
	if d.Description != "" {
		set["description"] = d.Description
	}
	if d.ImageURL != "" {
		set["image_url"] = d.ImageURL
	}
	if !d.ValidFrom.IsZero() {
		set["valid_from"] = d.ValidFrom
	}
	if !d.ValidUntil.IsZero() {
		set["valid_until"] = d.ValidUntil
	}
	if d.Status != "" {
		set["status"] = normalize.Status(d.Status)
	}

	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// Delete removes a deal. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByBusiness returns a business's deals, newest first. An empty
// statusFilter matches everything.
func (s *Store) ListByBusiness(ctx context.Context, businessID primitive.ObjectID, statusFilter string) ([]models.Deal, error) {
	filter := bson.M{"business_id": businessID}
	if statusFilter != "" {
		filter["status"] = normalize.Status(statusFilter)
	}

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Deal
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExpireOverdue marks active deals whose validity window has passed as
// expired. Called by the background expiry job; returns how many deals
// were transitioned.
func (s *Store) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"status":      models.DealActive,
			"valid_until": bson.M{"$lt": now},
		},
		bson.M{"$set": bson.M{
			"status":     models.DealExpired,
			"updated_at": now,
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
