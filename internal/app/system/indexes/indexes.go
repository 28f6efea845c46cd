// internal/app/system/indexes/indexes.go

// Package indexes reconciles the MongoDB indexes this service depends on.
// EnsureAll runs at startup; each ensure function is idempotent, and
// failures are aggregated so startup can fail fast with the full picture.
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll creates every required index.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	if err := ensureMembers(ctx, db); err != nil {
		problems = append(problems, "members: "+err.Error())
	}
	if err := ensureStaff(ctx, db); err != nil {
		problems = append(problems, "staff: "+err.Error())
	}
	if err := ensureOrganizations(ctx, db); err != nil {
		problems = append(problems, "organizations: "+err.Error())
	}
	if err := ensureSubgroups(ctx, db); err != nil {
		problems = append(problems, "subgroups: "+err.Error())
	}
	if err := ensureBusinesses(ctx, db); err != nil {
		problems = append(problems, "businesses: "+err.Error())
	}
	if err := ensureDeals(ctx, db); err != nil {
		problems = append(problems, "deals: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	logger.Info("indexes ensured")
	return nil
}

func create(ctx context.Context, db *mongo.Database, coll string, models []mongo.IndexModel) error {
	_, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
	// An index with the same keys already existing under different options
	// surfaces as IndexOptionsConflict; treat anything else as fatal.
	if err != nil && strings.Contains(err.Error(), "IndexOptionsConflict") {
		zap.L().Warn("index options conflict, keeping existing index",
			zap.String("collection", coll),
			zap.Error(err))
		return nil
	}
	return err
}

func unique() *options.IndexOptions {
	return options.Index().SetUnique(true)
}

// The member email index backs the one-identity-per-email invariant at
// the database level; the assigner's guard order remains authoritative.
func ensureMembers(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "members", []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique().SetName("uniq_email")},
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "full_name_ci", Value: 1}}, Options: options.Index().SetName("org_name")},
	})
}

func ensureStaff(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "staff", []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("email")},
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "organization_id", Value: 1}, {Key: "subgroup_id", Value: 1}},
			Options: unique().SetName("uniq_email_scope"),
		},
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "full_name_ci", Value: 1}}, Options: options.Index().SetName("org_name")},
	})
}

func ensureOrganizations(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "organizations", []mongo.IndexModel{
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "name_ci", Value: 1}}, Options: unique().SetName("uniq_kind_name")},
		{Keys: bson.D{{Key: "status", Value: 1}}, Options: options.Index().SetName("status")},
	})
}

func ensureSubgroups(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "subgroups", []mongo.IndexModel{
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "name_ci", Value: 1}}, Options: unique().SetName("uniq_org_name")},
	})
}

func ensureBusinesses(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "businesses", []mongo.IndexModel{
		{Keys: bson.D{{Key: "name_ci", Value: 1}}, Options: unique().SetName("uniq_name")},
		{Keys: bson.D{{Key: "category", Value: 1}}, Options: options.Index().SetName("category")},
	})
}

func ensureDeals(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "deals", []mongo.IndexModel{
		{Keys: bson.D{{Key: "business_id", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("business_recency")},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "valid_until", Value: 1}}, Options: options.Index().SetName("expiry_scan")},
	})
}
