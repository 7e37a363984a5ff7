package database

import (
	"context"
	"errors"
	"time"

	"siniestros-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// operationTimeout acota cada llamada al servidor; las peticiones HTTP lo heredan.
const operationTimeout = 10 * time.Second

type MongoStore struct {
	client    *mongo.Client
	users     *mongo.Collection
	incidents *mongo.Collection
}

func OpenMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetTimeout(operationTimeout))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	db := client.Database(dbName)
	s := &MongoStore{
		client:    client,
		users:     db.Collection("users"),
		incidents: db.Collection("incidents"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// ensureIndexes crea el índice único de RUT, que es la garantía real de unicidad.
func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "rut", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("rut_unique"),
	})
	if err != nil {
		return err
	}
	_, err = s.incidents.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	})
	return err
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Users() UserRepository         { return mongoUsers{s.users} }
func (s *MongoStore) Incidents() IncidentRepository { return mongoIncidents{s.incidents} }

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type mongoUsers struct{ coll *mongo.Collection }

func (r mongoUsers) FindByRUT(ctx context.Context, rut string) (*models.User, error) {
	var u models.User
	err := r.coll.FindOne(ctx, bson.M{"rut": rut}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r mongoUsers) Insert(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyExists
	}
	return err
}

func (r mongoUsers) List(ctx context.Context) ([]models.User, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r mongoUsers) Update(ctx context.Context, rut string, patch models.UserPatch) (*models.User, error) {
	set := bson.M{"updatedAt": patch.UpdatedAt}
	if patch.Nombres != nil {
		set["nombres"] = *patch.Nombres
	}
	if patch.Apellidos != nil {
		set["apellidos"] = *patch.Apellidos
	}
	if patch.PasswordHash != nil {
		set["password"] = *patch.PasswordHash
	}
	if patch.Cargo != nil {
		set["cargo"] = *patch.Cargo
	}
	if patch.Region != nil {
		set["region"] = *patch.Region
	}

	var u models.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"rut": rut}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

type mongoIncidents struct{ coll *mongo.Collection }

func (r mongoIncidents) Insert(ctx context.Context, inc *models.Incident) error {
	if inc.ID == "" {
		inc.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.coll.InsertOne(ctx, inc)
	return err
}

func (r mongoIncidents) List(ctx context.Context) ([]models.Incident, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	list := []models.Incident{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
