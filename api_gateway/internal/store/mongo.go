package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"photoshare/pkg/models"
)

const (
	usersCollection  = "users"
	photosCollection = "photos"
	tagsCollection   = "tags"
)

// MongoStore implements Store over a MongoDB database.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore wraps an already connected database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) users() *mongo.Collection  { return s.db.Collection(usersCollection) }
func (s *MongoStore) photos() *mongo.Collection { return s.db.Collection(photosCollection) }
func (s *MongoStore) tags() *mongo.Collection   { return s.db.Collection(tagsCollection) }

func (s *MongoStore) EstimatedUserCount(ctx context.Context) (int64, error) {
	n, err := s.users().EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *MongoStore) EstimatedPhotoCount(ctx context.Context) (int64, error) {
	n, err := s.photos().EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count photos: %w", err)
	}
	return n, nil
}

func (s *MongoStore) AllUsers(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, s.users(), bson.D{}, "users")
}

func (s *MongoStore) FindUserByLogin(ctx context.Context, login string) (*models.User, error) {
	return findOne[models.User](ctx, s.users(), bson.D{{Key: "githubLogin", Value: login}}, "user")
}

func (s *MongoStore) FindUserByToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return findOne[models.User](ctx, s.users(), bson.D{{Key: "githubToken", Value: token}}, "user")
}

func (s *MongoStore) InsertUsers(ctx context.Context, users []models.User) error {
	if len(users) == 0 {
		return nil
	}
	docs := make([]any, len(users))
	for i := range users {
		docs[i] = users[i]
	}
	if _, err := s.users().InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert users: %w", err)
	}
	return nil
}

// UpsertUser replaces the user document keyed by login, creating it if absent.
func (s *MongoStore) UpsertUser(ctx context.Context, user models.User) (*models.User, error) {
	filter := bson.D{{Key: "githubLogin", Value: user.GithubLogin}}
	if _, err := s.users().ReplaceOne(ctx, filter, user, options.Replace().SetUpsert(true)); err != nil {
		return nil, fmt.Errorf("upsert user %s: %w", user.GithubLogin, err)
	}
	return &user, nil
}

func (s *MongoStore) AllPhotos(ctx context.Context, filter PhotoFilter) ([]models.Photo, error) {
	q := bson.D{}
	if filter.After != nil {
		q = append(q, bson.E{Key: "created", Value: bson.D{{Key: "$gt", Value: *filter.After}}})
	}
	if filter.PostedBy != "" {
		q = append(q, bson.E{Key: "userID", Value: filter.PostedBy})
	}
	return findAll[models.Photo](ctx, s.photos(), q, "photos")
}

// FindPhotoByID matches the explicit id first, then the ObjectID when id is a
// valid hex string.
func (s *MongoStore) FindPhotoByID(ctx context.Context, id string) (*models.Photo, error) {
	or := bson.A{bson.D{{Key: "id", Value: id}}}
	if oid, err := bson.ObjectIDFromHex(id); err == nil {
		or = append(or, bson.D{{Key: "_id", Value: oid}})
	}
	return findOne[models.Photo](ctx, s.photos(), bson.D{{Key: "$or", Value: or}}, "photo")
}

func (s *MongoStore) InsertPhoto(ctx context.Context, photo models.Photo) (*models.Photo, error) {
	if photo.ObjectID.IsZero() {
		photo.ObjectID = bson.NewObjectID()
	}
	res, err := s.photos().InsertOne(ctx, photo)
	if err != nil {
		return nil, fmt.Errorf("insert photo: %w", err)
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		photo.ObjectID = oid
	}
	return &photo, nil
}

func (s *MongoStore) InsertTags(ctx context.Context, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	docs := make([]any, len(tags))
	for i := range tags {
		docs[i] = tags[i]
	}
	if _, err := s.tags().InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert tags: %w", err)
	}
	return nil
}

func (s *MongoStore) TagsByPhoto(ctx context.Context, photoID string) ([]models.Tag, error) {
	return s.findTags(ctx, bson.D{{Key: "photoID", Value: photoID}})
}

func (s *MongoStore) TagsByUser(ctx context.Context, login string) ([]models.Tag, error) {
	return s.findTags(ctx, bson.D{{Key: "userID", Value: login}})
}

// findTags sorts by _id, which follows insertion order for driver-generated ids.
func (s *MongoStore) findTags(ctx context.Context, filter bson.D) ([]models.Tag, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.tags().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find tags: %w", err)
	}
	var out []models.Tag
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

// findAll sorts by _id, so documents come back in insertion order.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.D, what string) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", what, err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", what, err)
	}
	return out, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.D, what string) (*T, error) {
	var out T
	err := coll.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", what, err)
	}
	return &out, nil
}
