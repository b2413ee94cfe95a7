package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"pagebuilder/internal/domain"
)

const mongoCollection = "page_slots"

// MongoSlots stores each slot as one document {_id: key, value, updatedAt}.
type MongoSlots struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type slotDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// buildMongoURI returns p.URI when set, otherwise a mongodb:// URI built
// from the discrete fields.
func buildMongoURI(p Params) string {
	if p.URI != "" {
		uri := p.URI
		if p.Password != "" {
			uri = strings.ReplaceAll(uri, "<password>", p.Password)
			uri = strings.ReplaceAll(uri, "<db_password>", p.Password)
		}
		return uri
	}
	port := p.Port
	if port == 0 {
		port = 27017
	}
	host := p.Host
	if host == "" {
		host = "localhost"
	}
	if p.User != "" {
		return "mongodb://" + p.User + ":" + p.Password + "@" + host + ":" + strconv.Itoa(port)
	}
	return "mongodb://" + host + ":" + strconv.Itoa(port)
}

// NewMongo connects to MongoDB and verifies the connection with a ping.
func NewMongo(ctx context.Context, p Params, log *zap.Logger) (*MongoSlots, error) {
	uri := buildMongoURI(p)
	dbName := p.Database
	if dbName == "" {
		dbName = "pagebuilder"
	}

	logURI := uri
	if p.Password != "" {
		logURI = strings.ReplaceAll(logURI, p.Password, "***")
	}
	log.Info("connecting", zap.String("uri", logURI), zap.String("database", dbName))

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoSlots{client: client, coll: client.Database(dbName).Collection(mongoCollection)}, nil
}

func (m *MongoSlots) Get(ctx context.Context, key string) ([]byte, error) {
	var doc slotDocument
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %s: %w", key, err)
	}
	return []byte(doc.Value), nil
}

func (m *MongoSlots) Put(ctx context.Context, key string, data []byte) error {
	update := bson.M{"$set": bson.M{"value": string(data), "updatedAt": time.Now().UTC()}}
	_, err := m.coll.UpdateOne(ctx, bson.M{"_id": key}, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("put slot %s: %w", key, err)
	}
	return nil
}

func (m *MongoSlots) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
