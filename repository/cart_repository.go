package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/veekshithcb/Qkartbackend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{collection: db.Collection("carts")}
}

type cartItemDocument struct {
	ProductID string `bson:"product_id"`
	Quantity  int    `bson:"quantity"`
}

type cartDocument struct {
	ID            string             `bson:"_id"`
	UserID        string             `bson:"user_id"`
	Items         []cartItemDocument `bson:"cart_items"`
	PaymentOption string             `bson:"payment_option"`
	Version       int64              `bson:"version"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (r *MongoCartRepository) FindByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var doc cartDocument
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cart for user %s: %w", userID, err)
	}
	return doc.toModel(), nil
}

// Create inserts a new cart. The unique index on user_id turns a lost race
// between two first-time adds into ErrDuplicate.
func (r *MongoCartRepository) Create(ctx context.Context, cart *models.Cart) error {
	now := time.Now().UTC()
	cart.CreatedAt = now
	cart.UpdatedAt = now
	cart.Version = 1

	if _, err := r.collection.InsertOne(ctx, newCartDocument(cart)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert cart for user %s: %w", cart.UserID, err)
	}
	return nil
}

// Save replaces the line list only if the stored version still equals
// cart.Version, then bumps the version.
func (r *MongoCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now().UTC()
	doc := newCartDocument(cart)

	filter := bson.M{"_id": cart.ID, "version": cart.Version}
	update := bson.M{
		"$set": bson.M{
			"cart_items":     doc.Items,
			"payment_option": doc.PaymentOption,
			"updated_at":     now,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update cart %s: %w", cart.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}

	cart.Version++
	cart.UpdatedAt = now
	return nil
}

func newCartDocument(cart *models.Cart) cartDocument {
	items := make([]cartItemDocument, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, cartItemDocument{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return cartDocument{
		ID:            cart.ID,
		UserID:        cart.UserID,
		Items:         items,
		PaymentOption: cart.PaymentOption,
		Version:       cart.Version,
		CreatedAt:     cart.CreatedAt,
		UpdatedAt:     cart.UpdatedAt,
	}
}

func (d cartDocument) toModel() *models.Cart {
	lines := make([]models.CartLine, 0, len(d.Items))
	for _, item := range d.Items {
		lines = append(lines, models.CartLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return &models.Cart{
		ID:            d.ID,
		UserID:        d.UserID,
		Lines:         lines,
		PaymentOption: d.PaymentOption,
		Version:       d.Version,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
