package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/identitykit/identity-api/internal/core/domain"
)

const (
	usersCollection           = "users"
	countersCollection        = "counters"
	roleAssignmentsCollection = "role_assignments"

	userIDCounter = "user_id"
)

// UserRepository persists users with their embedded profile document. The
// embedded document gives the one-to-one ownership for free: the profile is
// written in the same insert and disappears with the user.
type UserRepository struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

type mongoProfile struct {
	FirstName  string `bson:"first_name,omitempty"`
	Patronymic string `bson:"patronymic,omitempty"`
	LastName   string `bson:"last_name,omitempty"`
	Bio        string `bson:"bio,omitempty"`
	AvatarURL  string `bson:"avatar_url,omitempty"`
	Timezone   string `bson:"timezone,omitempty"`
	Locale     string `bson:"locale,omitempty"`
	CreatedAt  int64  `bson:"created_at"`
	UpdatedAt  int64  `bson:"updated_at"`
}

type mongoUser struct {
	ID             int64         `bson:"_id"`
	Email          string        `bson:"email"`
	HashedPassword string        `bson:"hashed_password"`
	IsActive       bool          `bson:"is_active"`
	IsSuperuser    bool          `bson:"is_superuser"`
	IsVerified     bool          `bson:"is_verified"`
	CreatedAt      int64         `bson:"created_at"`
	UpdatedAt      int64         `bson:"updated_at"`
	Profile        *mongoProfile `bson:"profile,omitempty"`
}

// Insert assigns the next numeric ID from the counters collection and stores
// the user. Runs inside the unit-of-work session when the caller provides one
// through ctx, so the counter bump and the insert commit or abort together.
func (r *UserRepository) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := toMongoUser(user)
	doc.ID = id

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	stored := doc.toDomain()
	return stored, nil
}

// GetByEmail performs a case-sensitive exact match, mirroring the unique
// index on the email field.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var mu mongoUser
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var mu mongoUser
	if err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return mu.toDomain(), nil
}

// nextID atomically increments and returns the user ID sequence.
func (r *UserRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": userIDCounter},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return counter.Seq, nil
}

func toMongoUser(u *domain.User) *mongoUser {
	doc := &mongoUser{
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		IsActive:       u.IsActive,
		IsSuperuser:    u.IsSuperuser,
		IsVerified:     u.IsVerified,
		CreatedAt:      u.CreatedAt.Unix(),
		UpdatedAt:      u.UpdatedAt.Unix(),
	}
	if u.Profile != nil {
		p := u.Profile
		created, updated := p.CreatedAt, p.UpdatedAt
		if created.IsZero() {
			created = u.CreatedAt
		}
		if updated.IsZero() {
			updated = u.UpdatedAt
		}
		doc.Profile = &mongoProfile{
			FirstName:  p.FirstName,
			Patronymic: p.Patronymic,
			LastName:   p.LastName,
			Bio:        p.Bio,
			AvatarURL:  p.AvatarURL,
			Timezone:   p.Timezone,
			Locale:     p.Locale,
			CreatedAt:  created.Unix(),
			UpdatedAt:  updated.Unix(),
		}
	}
	return doc
}

func (mu *mongoUser) toDomain() *domain.User {
	u := &domain.User{
		ID:             mu.ID,
		Email:          mu.Email,
		HashedPassword: mu.HashedPassword,
		IsActive:       mu.IsActive,
		IsSuperuser:    mu.IsSuperuser,
		IsVerified:     mu.IsVerified,
		CreatedAt:      unixToTime(mu.CreatedAt),
		UpdatedAt:      unixToTime(mu.UpdatedAt),
	}
	if mu.Profile != nil {
		u.Profile = &domain.Profile{
			UserID:     mu.ID,
			FirstName:  mu.Profile.FirstName,
			Patronymic: mu.Profile.Patronymic,
			LastName:   mu.Profile.LastName,
			Bio:        mu.Profile.Bio,
			AvatarURL:  mu.Profile.AvatarURL,
			Timezone:   mu.Profile.Timezone,
			Locale:     mu.Profile.Locale,
			CreatedAt:  unixToTime(mu.Profile.CreatedAt),
			UpdatedAt:  unixToTime(mu.Profile.UpdatedAt),
		}
	}
	return u
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
