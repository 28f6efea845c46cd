// internal/app/store/businesses/businessstore.go
package businessstore

import (
	"context"
	"errors"
	"time"

	"github.com/campushq/campushub/internal/app/system/normalize"
	"github.com/campushq/campushub/internal/app/system/status"
	"github.com/campushq/campushub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateBusiness = errors.New("a business with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("businesses")}
}

func (s *Store) Create(ctx context.Context, b models.Business) (models.Business, error) {
	now := time.Now().UTC()
	b.ID = primitive.NewObjectID()
	b.Name = normalize.Name(b.Name)
	b.NameCI = text.Fold(b.Name)
	b.Phone = normalize.Phone(b.Phone)
	if b.Status == "" {
		b.Status = status.Active
	}
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, b); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Business{}, ErrDuplicateBusiness
		}
		return models.Business{}, err
	}
	return b, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Business, error) {
	var b models.Business
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err != nil {
		return models.Business{}, err
	}
	return b, nil
}

// Update modifies a business's mutable fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, b models.Business) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if b.Name != "" {
		set["name"] = normalize.Name(b.Name)
		set["name_ci"] = text.Fold(b.Name)
	}
	if b.Category != "" {
		set["category"] = b.Category
	}
	if b.Description != "" {
		set["description"] = b.Description
	}
	if b.Phone != "" {
		set["phone"] = normalize.Phone(b.Phone)
	}
	if b.Address != "" {
		set["address"] = b.Address
	}
	if b.LogoURL != "" {
		set["logo_url"] = b.LogoURL
	}
	if b.Status != "" {
		set["status"] = normalize.Status(b.Status)
	}

	if _, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateBusiness
		}
		return err
	}
	return nil
}

// Delete removes a business. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns businesses filtered by category and/or status, sorted by
// folded name.
func (s *Store) List(ctx context.Context, category, statusFilter string) ([]models.Business, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if statusFilter != "" {
		filter["status"] = normalize.Status(statusFilter)
	}

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Business
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
