package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/veekshithcb/Qkartbackend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoProductCatalog reads the products collection directly on every call so
// prices used at checkout are never served from a cache.
type MongoProductCatalog struct {
	collection *mongo.Collection
}

func NewMongoProductCatalog(db *mongo.Database) *MongoProductCatalog {
	return &MongoProductCatalog{collection: db.Collection("products")}
}

type productDocument struct {
	ID       string        `bson:"_id"`
	Name     string        `bson:"name"`
	Category string        `bson:"category"`
	Cost     bson.RawValue `bson:"cost"`
	Rating   int           `bson:"rating"`
	Image    string        `bson:"image"`
}

func (r *MongoProductCatalog) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var doc productDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	return doc.toModel()
}

func (d productDocument) toModel() (*models.Product, error) {
	cost, err := decimalFromRaw(d.Cost)
	if err != nil {
		return nil, fmt.Errorf("product %s cost: %w", d.ID, err)
	}
	if cost.IsNegative() {
		return nil, fmt.Errorf("product %s cost: %w", d.ID, ErrNegativeCost)
	}
	return &models.Product{
		ID:       d.ID,
		Name:     d.Name,
		Category: d.Category,
		Cost:     cost,
		Rating:   d.Rating,
		Image:    d.Image,
	}, nil
}
