package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/lead"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	LeadsCollection        = "leads"
	ContactLeadsCollection = "contact_leads"
)

// MongoRepo implements a MongoDB-backed repository for one lead collection.
type MongoRepo[T any, P recordPtr[T]] struct {
	col *mongo.Collection
}

func NewMongoRepo[T any, P recordPtr[T]](col *mongo.Collection) *MongoRepo[T, P] {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	idx := mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}}
	_, _ = col.Indexes().CreateOne(ctx, idx)
	return &MongoRepo[T, P]{col: col}
}

func (m *MongoRepo[T, P]) Create(ctx context.Context, rec *T) error {
	p := P(rec)
	if p.GetID() == "" {
		p.SetID(uuid.NewString())
	}
	if p.GetStatus() == "" {
		p.SetStatus(lead.StatusNew)
	}
	p.Stamp(time.Now().UTC())
	_, err := m.col.InsertOne(ctx, rec)
	return err
}

func (m *MongoRepo[T, P]) Get(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, lead.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (m *MongoRepo[T, P]) List(ctx context.Context, status string) ([]*T, error) {
	q := bson.M{}
	if status != "" {
		q["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := m.col.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*T{}
	for cur.Next(ctx) {
		var rec T
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, cur.Err()
}

func (m *MongoRepo[T, P]) SetStatus(ctx context.Context, id, status string) (*T, error) {
	var rec T
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, lead.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (m *MongoRepo[T, P]) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return lead.ErrNotFound
	}
	return nil
}
