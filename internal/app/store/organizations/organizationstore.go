// internal/app/store/organizations/organizationstore.go
package organizationstore

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
	orgs      *mongo.Collection
	subgroups *mongo.Collection
}

var (
	ErrDuplicateOrganization = errors.New("an organization with this name already exists")
	ErrDuplicateSubgroup     = errors.New("a subgroup with this name already exists in this organization")
	errBadKind               = errors.New(`kind must be "hostel"|"uniclub"`)
)

func New(db *mongo.Database) *Store {
	return &Store{
		orgs:      db.Collection("organizations"),
		subgroups: db.Collection("subgroups"),
	}
}

// Create inserts a new organization after normalizing and validating.
func (s *Store) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	now := time.Now().UTC()
	org.ID = primitive.NewObjectID()
	org.Kind = normalize.Kind(org.Kind)
	org.Name = normalize.Name(org.Name)
	org.NameCI = text.Fold(org.Name)
	org.CityCI = text.Fold(org.City)
	org.StateCI = text.Fold(org.State)
	if org.Status == "" {
		org.Status = status.Active
	}
	org.CreatedAt = now
	org.UpdatedAt = now

	if org.Kind != models.OrgKindHostel && org.Kind != models.OrgKindUniclub {
		return models.Organization{}, errBadKind
	}

	if _, err := s.orgs.InsertOne(ctx, org); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Organization{}, ErrDuplicateOrganization
		}
		return models.Organization{}, err
	}
	return org, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Organization, error) {
	var org models.Organization
	err := s.orgs.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

// Update modifies an organization's mutable fields and refreshes
// UpdatedAt. Kind is immutable: a hostel never becomes a uniclub.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, org models.Organization) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if org.Name != "" {
		set["name"] = normalize.Name(org.Name)
		set["name_ci"] = text.Fold(org.Name)
	}
	if org.City != "" {
		set["city"] = org.City
		set["city_ci"] = text.Fold(org.City)
	}
	if org.State != "" {
		set["state"] = org.State
		set["state_ci"] = text.Fold(org.State)
	}
	if org.Status != "" {
		set["status"] = normalize.Status(org.Status)
	}
	if org.ContactInfo != "" {
		set["contact_info"] = org.ContactInfo
	}

	if _, err := s.orgs.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateOrganization
		}
		return err
	}
	return nil
}

// Delete removes an organization and its subgroups. Returns the number of
// organization documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.orgs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	if res.DeletedCount > 0 {
		if _, err := s.subgroups.DeleteMany(ctx, bson.M{"organization_id": id}); err != nil {
			return res.DeletedCount, err
		}
	}
	return res.DeletedCount, nil
}

// List returns organizations filtered by kind and/or status, sorted by
// folded name. Empty filters match everything.
func (s *Store) List(ctx context.Context, kind, statusFilter string) ([]models.Organization, error) {
	filter := bson.M{}
	if kind != "" {
		filter["kind"] = normalize.Kind(kind)
	}
	if statusFilter != "" {
		filter["status"] = normalize.Status(statusFilter)
	}

	cur, err := s.orgs.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Organization
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSubgroup inserts a subgroup under an organization.
func (s *Store) CreateSubgroup(ctx context.Context, sg models.Subgroup) (models.Subgroup, error) {
	now := time.Now().UTC()
	sg.ID = primitive.NewObjectID()
	sg.Name = normalize.Name(sg.Name)
	sg.NameCI = text.Fold(sg.Name)
	if sg.Status == "" {
		sg.Status = status.Active
	}
	sg.CreatedAt = now
	sg.UpdatedAt = now

	if _, err := s.subgroups.InsertOne(ctx, sg); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Subgroup{}, ErrDuplicateSubgroup
		}
		return models.Subgroup{}, err
	}
	return sg, nil
}

// GetSubgroup loads one subgroup by id.
func (s *Store) GetSubgroup(ctx context.Context, id primitive.ObjectID) (models.Subgroup, error) {
	var sg models.Subgroup
	err := s.subgroups.FindOne(ctx, bson.M{"_id": id}).Decode(&sg)
	if err != nil {
		return models.Subgroup{}, err
	}
	return sg, nil
}

// ListSubgroups returns an organization's subgroups sorted by folded name.
func (s *Store) ListSubgroups(ctx context.Context, orgID primitive.ObjectID) ([]models.Subgroup, error) {
	cur, err := s.subgroups.Find(ctx, bson.M{"organization_id": orgID},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Subgroup
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteSubgroup removes one subgroup. Returns the number deleted (0 or 1).
func (s *Store) DeleteSubgroup(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.subgroups.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
