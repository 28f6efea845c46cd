// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"

	"github.com/campushq/campushub/internal/app/system/normalize"
	"github.com/campushq/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store wraps the "members" collection: the organizational profiles keyed
// by auth uid. It satisfies identity.MemberDirectory.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("members")}
}

// Get loads a member record by its uid key. Returns (nil, nil) when absent.
func (s *Store) Get(ctx context.Context, id string) (*models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByEmail looks up a member by normalized email across all
// organizations. Returns (nil, nil) when absent.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Insert writes a complete new member record.
func (s *Store) Insert(ctx context.Context, m models.Member) error {
	_, err := s.c.InsertOne(ctx, m)
	return err
}

// Merge applies an upsert merge-write at the given uid key.
func (s *Store) Merge(ctx context.Context, id string, fields map[string]any) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set}, options.Update().SetUpsert(true))
	return err
}

// Delete removes a member record. Deleting an absent record is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ListByOrg returns the members of one organization sorted by folded name.
func (s *Store) ListByOrg(ctx context.Context, orgID string) ([]models.Member, error) {
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID},
		options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
