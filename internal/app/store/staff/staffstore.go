// internal/app/store/staff/staffstore.go
package staffstore

import (
	"context"
	"errors"

	"github.com/campushq/campushub/internal/app/system/normalize"
	"github.com/campushq/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store wraps the "staff" collection: the staff/committee profiles keyed
// by auth uid. It satisfies identity.StaffDirectory.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("staff")}
}

// Get loads a staff record by its uid key. Returns (nil, nil) when absent.
func (s *Store) Get(ctx context.Context, id string) (*models.Staff, error) {
	var st models.Staff
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&st)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// FindByEmail looks up a staff record by normalized email in any
// organization. Returns (nil, nil) when absent.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.Staff, error) {
	var st models.Staff
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&st)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// FindByEmailInScope looks up a staff record by email inside one exact
// assignment scope. An empty subgroupID matches only organization-wide
// assignments, mirroring how the duplicate guard defines "same scope".
func (s *Store) FindByEmailInScope(ctx context.Context, email, orgID, subgroupID string) (*models.Staff, error) {
	filter := bson.M{
		"email":           normalize.Email(email),
		"organization_id": orgID,
	}
	if subgroupID == "" {
		filter["subgroup_id"] = bson.M{"$in": bson.A{nil, ""}}
	} else {
		filter["subgroup_id"] = subgroupID
	}

	var st models.Staff
	err := s.c.FindOne(ctx, filter).Decode(&st)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Insert writes a complete new staff record.
func (s *Store) Insert(ctx context.Context, st models.Staff) error {
	_, err := s.c.InsertOne(ctx, st)
	return err
}

// Merge applies an upsert merge-write: the named fields are $set, all
// other fields are preserved, and a missing document is created. This is
// what keeps the two-collection write sequence safe to retry.
func (s *Store) Merge(ctx context.Context, id string, fields map[string]any) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set}, options.Update().SetUpsert(true))
	return err
}

// Delete removes a staff record. Deleting an absent record is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ListByScope returns the staff of one organization, optionally narrowed
// to a subgroup, sorted by folded name.
func (s *Store) ListByScope(ctx context.Context, orgID, subgroupID string) ([]models.Staff, error) {
	filter := bson.M{"organization_id": orgID}
	if subgroupID != "" {
		filter["subgroup_id"] = subgroupID
	}

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Staff
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
