package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/property"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding listings.
const CollectionName = "properties"

// MongoRepo implements a MongoDB-backed repository for listings. Ids are
// UUID strings stored in _id.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "isDeleted", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "city", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _ = col.Indexes().CreateMany(ctx, idx)
	return &MongoRepo{col: col}
}

// live excludes soft-deleted records.
func live(id string) bson.M {
	return bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}}
}

func (m *MongoRepo) Create(ctx context.Context, p *property.Property) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := m.col.InsertOne(ctx, p); err != nil {
		return "", err
	}
	return p.ID, nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*property.Property, error) {
	var p property.Property
	err := m.col.FindOne(ctx, live(id)).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, property.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func filterDoc(f property.Filter) bson.M {
	q := bson.M{}
	if !f.IncludeDeleted {
		q["isDeleted"] = bson.M{"$ne": true}
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.City != "" {
		q["city"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(f.City) + "$", Options: "i"}
	}
	if f.PropertyType != "" {
		q["propertyType"] = f.PropertyType
	}
	if f.ListingType != "" {
		q["listingType"] = f.ListingType
	}
	price := bson.M{}
	if f.MinPrice > 0 {
		price["$gte"] = f.MinPrice
	}
	if f.MaxPrice > 0 {
		price["$lte"] = f.MaxPrice
	}
	if len(price) > 0 {
		q["price"] = price
	}
	if f.MinBedrooms > 0 {
		q["bedrooms"] = bson.M{"$gte": f.MinBedrooms}
	}
	if f.Featured != nil {
		q["featured"] = *f.Featured
	}
	return q
}

func (m *MongoRepo) List(ctx context.Context, f property.Filter) ([]*property.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if f.Offset > 0 {
		opts.SetSkip(int64(f.Offset))
	}
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cur, err := m.col.Find(ctx, filterDoc(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*property.Property{}
	for cur.Next(ctx) {
		var p property.Property
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

// Update overwrites the editable fields and reloads p from the stored record.
func (m *MongoRepo) Update(ctx context.Context, p *property.Property) error {
	set := bson.M{
		"title":        p.Title,
		"description":  p.Description,
		"price":        p.Price,
		"address":      p.Address,
		"city":         p.City,
		"state":        p.State,
		"zipCode":      p.ZipCode,
		"bedrooms":     p.Bedrooms,
		"bathrooms":    p.Bathrooms,
		"areaSqFt":     p.AreaSqFt,
		"propertyType": p.PropertyType,
		"listingType":  p.ListingType,
		"status":       p.Status,
		"featured":     p.Featured,
		"images":       p.Images,
		"amenities":    p.Amenities,
		"updatedAt":    time.Now().UTC(),
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := m.col.FindOneAndUpdate(ctx, live(p.ID), bson.M{"$set": set}, opts).Decode(p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return property.ErrNotFound
		}
		return err
	}
	return nil
}

func (m *MongoRepo) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	res, err := m.col.UpdateOne(ctx, live(id), bson.M{"$set": bson.M{"isDeleted": true, "deletedAt": now, "updatedAt": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return property.ErrNotFound
	}
	return nil
}
