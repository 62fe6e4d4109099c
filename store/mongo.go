package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on a MongoDB database. Multi-document
// mutations rely on server-side transactions, so the deployment must be a
// replica set (a single-node replica set is enough).
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Get(ctx context.Context, collection, id string, dest any) error {
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(dest)
	if err == mongo.ErrNoDocuments {
		return fmt.Errorf("get %s/%s: %w", collection, id, ErrNoDoc)
	}
	if err != nil {
		return mapMongoErr("get", collection, err)
	}
	return nil
}

func (s *MongoStore) GetAll(ctx context.Context, collection string) ([]bson.Raw, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, mapMongoErr("list", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.Raw
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapMongoErr("list", collection, err)
	}
	return docs, nil
}

func (s *MongoStore) Save(ctx context.Context, collection, id string, doc any) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	if err != nil {
		return mapMongoErr("save", collection, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) (bool, error) {
	result, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, mapMongoErr("delete", collection, err)
	}
	return result.DeletedCount > 0, nil
}

func (s *MongoStore) AddToSet(ctx context.Context, collection, id, field string, values []any, set map[string]any) error {
	update := bson.M{
		"$addToSet": bson.M{field: bson.M{"$each": values}},
	}
	if len(set) > 0 {
		update["$set"] = bson.M(set)
	}

	result, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return mapMongoErr("addToSet", collection, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("addToSet %s/%s: %w", collection, id, ErrNoDoc)
	}
	return nil
}

func (s *MongoStore) RunTransaction(ctx context.Context, fn func(txn Txn) error) error {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return mapMongoErr("transaction", "", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(&mongoTxn{db: s.db, ctx: sessCtx})
	})
	if err != nil {
		if isTransientTxnErr(err) {
			return fmt.Errorf("%w: %v", ErrTxnConflict, err)
		}
		return err
	}
	return nil
}

// mongoTxn runs every operation against the session context so reads and
// staged writes share the transaction's snapshot.
type mongoTxn struct {
	db  *mongo.Database
	ctx mongo.SessionContext
}

func (t *mongoTxn) Get(collection, id string, dest any) error {
	err := t.db.Collection(collection).FindOne(t.ctx, bson.M{"_id": id}).Decode(dest)
	if err == mongo.ErrNoDocuments {
		return fmt.Errorf("get %s/%s: %w", collection, id, ErrNoDoc)
	}
	if err != nil {
		return mapMongoErr("get", collection, err)
	}
	return nil
}

func (t *mongoTxn) Set(collection, id string, doc any) error {
	opts := options.Replace().SetUpsert(true)
	_, err := t.db.Collection(collection).ReplaceOne(t.ctx, bson.M{"_id": id}, doc, opts)
	if err != nil {
		return mapMongoErr("set", collection, err)
	}
	return nil
}

func (t *mongoTxn) Delete(collection, id string) error {
	_, err := t.db.Collection(collection).DeleteOne(t.ctx, bson.M{"_id": id})
	if err != nil {
		return mapMongoErr("delete", collection, err)
	}
	return nil
}

func isTransientTxnErr(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.HasErrorLabel("TransientTransactionError") ||
			cmdErr.HasErrorLabel("UnknownTransactionCommitResult")
	}
	return false
}

func mapMongoErr(op, collection string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return fmt.Errorf("%s %s: %w: %v", op, collection, ErrUnavailable, err)
	}
	return fmt.Errorf("%s %s: %w", op, collection, err)
}
