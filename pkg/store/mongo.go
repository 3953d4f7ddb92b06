package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/spaceforge/pkg/cache"
	sferrors "github.com/matzehuels/spaceforge/pkg/errors"
)

// DefaultMongoDatabase is used when no database name is configured.
const DefaultMongoDatabase = "spaceforge"

type mongoRecord struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name"`
	Data       string    `bson:"data"`
	ShapeCount int       `bson:"shape_count"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

// MongoStore keeps layouts in the "layouts" collection of a MongoDB
// database.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects to uri and pings the primary, retrying while the
// server is unreachable.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, sferrors.New(sferrors.ErrCodeInvalidInput, "mongo store needs a connection URI")
	}
	if database == "" {
		database = DefaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrCodeStorage, err, "connect to mongo")
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return cache.Retryable(client.Ping(ctx, readpref.Primary()))
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, sferrors.Wrap(sferrors.ErrCodeNetwork, err, "ping mongo")
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection("layouts")}, nil
}

func (s *MongoStore) Save(ctx context.Context, rec *Record) error {
	var created time.Time
	if rec.ID != "" {
		var old mongoRecord
		err := s.coll.FindOne(ctx, bson.M{"_id": rec.ID}, options.FindOne().SetProjection(bson.M{"created_at": 1})).Decode(&old)
		if err == nil {
			created = old.CreatedAt
		}
	}
	if err := prepare(rec, created); err != nil {
		return err
	}
	data, err := encodeLayout(rec)
	if err != nil {
		return err
	}

	doc := mongoRecord{
		ID:         rec.ID,
		Name:       rec.Name,
		Data:       string(data),
		ShapeCount: rec.Layout.Len(),
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return sferrors.Wrap(sferrors.ErrCodeStorage, err, "save layout %s", rec.ID)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := sferrors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	var doc mongoRecord
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound(id)
		}
		return nil, sferrors.Wrap(sferrors.ErrCodeStorage, err, "load layout %s", id)
	}

	l, err := decodeLayout(id, []byte(doc.Data))
	if err != nil {
		return nil, err
	}
	return &Record{ID: doc.ID, Name: doc.Name, Layout: l, CreatedAt: doc.CreatedAt.UTC(), UpdatedAt: doc.UpdatedAt.UTC()}, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"data": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrCodeStorage, err, "list layouts")
	}
	defer cur.Close(ctx)

	out := []Summary{}
	for cur.Next(ctx) {
		var doc mongoRecord
		if err := cur.Decode(&doc); err != nil {
			return nil, sferrors.Wrap(sferrors.ErrCodeStorage, err, "decode layout")
		}
		out = append(out, Summary{ID: doc.ID, Name: doc.Name, ShapeCount: doc.ShapeCount, UpdatedAt: doc.UpdatedAt.UTC()})
	}
	if err := cur.Err(); err != nil {
		return nil, sferrors.Wrap(sferrors.ErrCodeStorage, err, "list layouts")
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return sferrors.Wrap(sferrors.ErrCodeStorage, err, "delete layout %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
