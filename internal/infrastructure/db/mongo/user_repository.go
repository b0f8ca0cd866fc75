package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

const collectionUsers = "users"

// withoutSecret is applied to every read except FindByEmailWithSecret.
var withoutSecret = bson.M{"password": 0}

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(collectionUsers)}
}

// mongoUser is the stored document. Role is kept as its text name.
type mongoUser struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Email             string             `bson:"email"`
	Photo             string             `bson:"photo,omitempty"`
	Role              string             `bson:"role"`
	Password          string             `bson:"password,omitempty"`
	PasswordChangedAt *time.Time         `bson:"passwordChangedAt,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt"`
}

// Create inserts a new user. The unique index on email turns a duplicate
// into domain.ErrDuplicateEmail without writing anything.
func (r *UserRepository) Create(ctx context.Context, rec ports.NewUserRecord) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Name:      rec.Name,
		Email:     rec.Email,
		Role:      rec.Role.String(),
		Password:  rec.PasswordHash,
		CreatedAt: rec.CreatedAt.UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toIdentity()
}

// FindByID loads a user without its password digest.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIdentityNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	opts := options.FindOne().SetProjection(withoutSecret)
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return mu.toIdentity()
}

// FindByEmailWithSecret is the single read that includes the digest.
func (r *UserRepository) FindByEmailWithSecret(ctx context.Context, email string) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	identity, err := mu.toIdentity()
	if err != nil {
		return nil, err
	}
	return &domain.Credential{Identity: *identity, PasswordHash: mu.Password}, nil
}

// UpdatePassword sets the new digest and passwordChangedAt in one $set.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) (*domain.Identity, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIdentityNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"password":          passwordHash,
		"passwordChangedAt": changedAt.UTC(),
	}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutSecret)

	var mu mongoUser
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("update password: %w", err)
	}
	return mu.toIdentity()
}

// EnsureIndexes creates the unique email index the duplicate check relies on.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return err
}

func (mu *mongoUser) toIdentity() (*domain.Identity, error) {
	role, err := domain.ParseRole(mu.Role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", mu.ID.Hex(), err)
	}
	var changedAt *time.Time
	if mu.PasswordChangedAt != nil {
		t := mu.PasswordChangedAt.UTC()
		changedAt = &t
	}
	return &domain.Identity{
		ID:                mu.ID.Hex(),
		Name:              mu.Name,
		Email:             mu.Email,
		Photo:             mu.Photo,
		Role:              role,
		PasswordChangedAt: changedAt,
		CreatedAt:         mu.CreatedAt.UTC(),
	}, nil
}
