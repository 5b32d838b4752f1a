package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-profile-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const profilesCollection = "profiles"

type profileRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewProfileRepository(db *mongo.Database) domain.ProfileRepository {
	return &profileRepository{
		coll: db.Collection(profilesCollection),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// EnsureProfileIndexes creates the unique user index and the unique handle
// index. Handles are optional, so the handle index only covers documents
// that have one.
func EnsureProfileIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(profilesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetName("uniq_user").SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "handle", Value: 1}},
			Options: options.Index().
				SetName("uniq_handle").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"handle": bson.M{"$type": "string"}}),
		},
	})
	return err
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return r.findOne(ctx, bson.M{"user": userID})
}

func (r *profileRepository) GetByHandle(ctx context.Context, handle string) (*domain.Profile, error) {
	return r.findOne(ctx, bson.M{"handle": handle})
}

func (r *profileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer cursor.Close(ctx)

	profiles := []domain.Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	return profiles, nil
}

func (r *profileRepository) Upsert(ctx context.Context, f domain.ProfileFields) (*domain.Profile, error) {
	now := r.now()
	update := bson.M{
		"$set":         setDocument(f, now),
		"$setOnInsert": insertDefaults(f, now),
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var p domain.Profile
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"user": f.UserID}, update, opts).Decode(&p)
	if mongo.IsDuplicateKeyError(err) && !isHandleConflict(err) {
		// Two first-time upserts for the same user raced on uniq_user;
		// the loser retries as a plain update.
		err = r.coll.FindOneAndUpdate(ctx, bson.M{"user": f.UserID}, update, opts).Decode(&p)
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) && isHandleConflict(err) {
			return nil, domain.ErrDuplicateHandle
		}
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return &p, nil
}

// setDocument lists only the fields present in f. Social is always written.
func setDocument(f domain.ProfileFields, now time.Time) bson.M {
	set := bson.M{
		"social":     f.Social,
		"updated_at": now,
	}
	optional := map[string]*string{
		"handle":         f.Handle,
		"company":        f.Company,
		"website":        f.Website,
		"location":       f.Location,
		"bio":            f.Bio,
		"status":         f.Status,
		"githubusername": f.GithubUsername,
	}
	for key, v := range optional {
		if v != nil {
			set[key] = *v
		}
	}
	if f.Skills != nil {
		set["skills"] = f.Skills
	}
	return set
}

// insertDefaults must not name any path also present in $set.
func insertDefaults(f domain.ProfileFields, now time.Time) bson.M {
	defaults := bson.M{
		"created_at": now,
		"experience": bson.A{},
		"education":  bson.A{},
	}
	if f.Skills == nil {
		defaults["skills"] = bson.A{}
	}
	if f.Status == nil {
		defaults["status"] = ""
	}
	return defaults
}

func (r *profileRepository) AddExperience(ctx context.Context, userID string, exp domain.Experience) (*domain.Profile, error) {
	return r.pushFront(ctx, userID, "experience", exp)
}

func (r *profileRepository) RemoveExperience(ctx context.Context, userID, expID string) (*domain.Profile, error) {
	return r.pullByID(ctx, userID, "experience", expID)
}

func (r *profileRepository) AddEducation(ctx context.Context, userID string, edu domain.Education) (*domain.Profile, error) {
	return r.pushFront(ctx, userID, "education", edu)
}

func (r *profileRepository) RemoveEducation(ctx context.Context, userID, eduID string) (*domain.Profile, error) {
	return r.pullByID(ctx, userID, "education", eduID)
}

func (r *profileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"user": userID})
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// pushFront inserts entry at index 0 of the array in a single atomic update.
func (r *profileRepository) pushFront(ctx context.Context, userID, field string, entry interface{}) (*domain.Profile, error) {
	update := bson.M{
		"$push": bson.M{field: bson.M{"$each": bson.A{entry}, "$position": 0}},
		"$set":  bson.M{"updated_at": r.now()},
	}
	return r.findOneAndUpdate(ctx, userID, update)
}

// pullByID removes the entry whose _id equals id. An id that is not an
// ObjectID can't match anything, so the stored profile is returned as is.
func (r *profileRepository) pullByID(ctx context.Context, userID, field, id string) (*domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return r.GetByUserID(ctx, userID)
	}
	update := bson.M{
		"$pull": bson.M{field: bson.M{"_id": oid}},
		"$set":  bson.M{"updated_at": r.now()},
	}
	return r.findOneAndUpdate(ctx, userID, update)
}

func (r *profileRepository) findOneAndUpdate(ctx context.Context, userID string, update bson.M) (*domain.Profile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p domain.Profile
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &p, nil
}

func (r *profileRepository) findOne(ctx context.Context, filter bson.M) (*domain.Profile, error) {
	var p domain.Profile
	err := r.coll.FindOne(ctx, filter).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &p, nil
}

const duplicateKeyCode = 11000

// isHandleConflict reports whether err is a duplicate key error on the
// handle index. findAndModify surfaces it as a CommandError, plain writes as
// a WriteException; both carry the index key pattern in the raw reply.
func isHandleConflict(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == duplicateKeyCode {
		return keyPatternHas(cmdErr.Raw, "handle")
	}
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code == duplicateKeyCode && keyPatternHas(we.Raw, "handle") {
				return true
			}
		}
	}
	return false
}

func keyPatternHas(raw bson.Raw, field string) bool {
	if len(raw) == 0 {
		return false
	}
	pattern, err := raw.LookupErr("keyPattern")
	if err != nil {
		return false
	}
	doc, ok := pattern.DocumentOK()
	if !ok {
		return false
	}
	_, err = doc.LookupErr(field)
	return err == nil
}
