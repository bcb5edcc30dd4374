package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/veekshithcb/Qkartbackend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoAccountRepository struct {
	collection *mongo.Collection
}

func NewMongoAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{collection: db.Collection("users")}
}

type accountDocument struct {
	ID           string        `bson:"_id"`
	Email        string        `bson:"email"`
	Name         string        `bson:"name"`
	PasswordHash string        `bson:"password"`
	Address      string        `bson:"address"`
	WalletMoney  bson.RawValue `bson:"wallet_money"`
	Version      int64         `bson:"version"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}

func (r *MongoAccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoAccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *MongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var doc accountDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}

	wallet, err := decimalFromRaw(doc.WalletMoney)
	if err != nil {
		return nil, fmt.Errorf("account %s wallet: %w", doc.ID, err)
	}
	return &models.Account{
		ID:           doc.ID,
		Email:        doc.Email,
		Name:         doc.Name,
		PasswordHash: doc.PasswordHash,
		Address:      doc.Address,
		WalletMoney:  wallet,
		Version:      doc.Version,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

func (r *MongoAccountRepository) Create(ctx context.Context, account *models.Account) error {
	wallet, err := toDecimal128(account.WalletMoney)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	account.Email = strings.ToLower(account.Email)
	account.CreatedAt = now
	account.UpdatedAt = now
	account.Version = 1

	doc := bson.M{
		"_id":          account.ID,
		"email":        account.Email,
		"name":         account.Name,
		"password":     account.PasswordHash,
		"address":      account.Address,
		"wallet_money": wallet,
		"version":      account.Version,
		"created_at":   now,
		"updated_at":   now,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert account %s: %w", account.Email, err)
	}
	return nil
}

// Save writes the mutable fields (address, wallet) guarded by Version.
func (r *MongoAccountRepository) Save(ctx context.Context, account *models.Account) error {
	wallet, err := toDecimal128(account.WalletMoney)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	filter := bson.M{"_id": account.ID, "version": account.Version}
	update := bson.M{
		"$set": bson.M{
			"name":         account.Name,
			"address":      account.Address,
			"wallet_money": wallet,
			"updated_at":   now,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update account %s: %w", account.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}

	account.Version++
	account.UpdatedAt = now
	return nil
}

