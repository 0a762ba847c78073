// Package mongo is a store.Store on MongoDB via Grove ORM.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/carbon/record"
	"github.com/xraph/carbon/store"
)

// Collection name constants.
const (
	colRecords  = "carbon_emission_records"
	colCounters = "carbon_account_counters"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
//
// Append order is a per-account sequence number taken from a counter
// document with an atomic $inc before the record is inserted. A failed
// insert leaves a gap in the sequence, which does not affect ordering.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for the carbon collections.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("carbon/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append reserves the next sequence number for the account and inserts rec
// as a single document.
func (s *Store) Append(ctx context.Context, rec record.Record) error {
	seq, err := s.nextSeq(ctx, rec.Account)
	if err != nil {
		return err
	}

	if _, err := s.mdb.NewInsert(toRecordModel(rec, seq)).Exec(ctx); err != nil {
		return fmt.Errorf("carbon/mongo: append: %w", err)
	}
	return nil
}

// History returns the account's documents in sequence order.
func (s *Store) History(ctx context.Context, account string) ([]record.Record, error) {
	var models []recordModel

	err := s.mdb.NewFind(&models).
		Filter(bson.M{"account": account}).
		Sort(bson.D{{Key: "seq", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("carbon/mongo: history: %w", err)
	}

	result := make([]record.Record, len(models))
	for i := range models {
		r, err := fromRecordModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

func (s *Store) nextSeq(ctx context.Context, account string) (int64, error) {
	var c counterModel

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := s.mdb.Collection(colCounters).
		FindOneAndUpdate(ctx, bson.M{"_id": account}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).
		Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("carbon/mongo: next sequence: %w", err)
	}
	return c.Seq, nil
}

// migrationIndexes returns the index definitions for the carbon collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colRecords: {
			{
				Keys:    bson.D{{Key: "account", Value: 1}, {Key: "seq", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}
}
