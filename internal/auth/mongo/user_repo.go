// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

// Package mongo implements auth.UserRepository on MongoDB.
package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/giftlink/giftlink/internal/auth"
)

// CollectionName is the collection holding user documents.
const CollectionName = "users"

const emailIndexName = "users_email_key"

// collection is the subset of *mongo.Collection the repository uses.
type collection interface {
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
	FindOneAndUpdate(ctx context.Context, filter, update any, opts ...options.Lister[options.FindOneAndUpdateOptions]) *mongo.SingleResult
}

// userDocument keeps the field names of existing giftdb.users documents, so
// accounts created before this service can still log in.
type userDocument struct {
	ID           bson.ObjectID `bson:"_id"`
	Email        string        `bson:"email"`
	FirstName    string        `bson:"firstName"`
	LastName     string        `bson:"lastName"`
	PasswordHash string        `bson:"password"`
	CreatedAt    time.Time     `bson:"createdAt"`
	UpdatedAt    *time.Time    `bson:"updatedAt,omitempty"`
}

func (d *userDocument) toUser() *auth.User {
	user := &auth.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
	}
	if d.UpdatedAt != nil {
		at := d.UpdatedAt.UTC()
		user.UpdatedAt = &at
	}
	return user
}

// UserRepository implements auth.UserRepository using a MongoDB collection.
type UserRepository struct {
	coll collection
}

// NewUserRepository wraps the users collection of db.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(CollectionName)}
}

// Connect opens a client for uri and checks the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, oops.Code("MONGO_CONNECT_FAILED").With("operation", "connect").Wrap(err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx)) //nolint:errcheck // ping error takes precedence
		return nil, oops.Code("MONGO_CONNECT_FAILED").With("operation", "ping").Wrap(err)
	}
	return client, nil
}

// EnsureIndexes creates the unique email index. It is safe to call on every
// start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(emailIndexName),
	})
	if err != nil {
		return oops.Code("MONGO_INDEX_FAILED").With("index", emailIndexName).Wrap(err)
	}
	return nil
}

// FindByEmail retrieves a user by exact email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, oops.Code("USER_NOT_FOUND").With("email", email).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_FIND_FAILED").
			With("operation", "find user by email").
			With("email", email).
			Wrap(err)
	}
	return doc.toUser(), nil
}

// Insert stores a new user and assigns its ObjectID hex as the ID.
func (r *UserRepository) Insert(ctx context.Context, user *auth.User) error {
	doc := userDocument{
		ID:           bson.NewObjectID(),
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return oops.Code("USER_EMAIL_TAKEN").
				With("email", user.Email).
				With("constraint", emailIndexName).
				Wrap(auth.ErrDuplicateEmail)
		}
		return oops.Code("USER_INSERT_FAILED").
			With("operation", "insert user").
			With("email", user.Email).
			Wrap(err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

// UpdateByEmail applies patch atomically and returns the updated document.
// updatedAt only moves forward.
func (r *UserRepository) UpdateByEmail(ctx context.Context, email string, patch auth.UserPatch) (*auth.User, error) {
	update := bson.D{{Key: "$max", Value: bson.D{{Key: "updatedAt", Value: patch.UpdatedAt}}}}
	set := bson.D{}
	if patch.FirstName != nil {
		set = append(set, bson.E{Key: "firstName", Value: *patch.FirstName})
	}
	if patch.LastName != nil {
		set = append(set, bson.E{Key: "lastName", Value: *patch.LastName})
	}
	if len(set) > 0 {
		update = append(update, bson.E{Key: "$set", Value: set})
	}

	var doc userDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "email", Value: email}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, oops.Code("USER_NOT_FOUND").With("email", email).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "update user by email").
			With("email", email).
			Wrap(err)
	}
	return doc.toUser(), nil
}
