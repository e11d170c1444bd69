package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/dwikikusuma/ordersvc/internal/catalog/app"
	"github.com/dwikikusuma/ordersvc/internal/catalog/domain"
	"github.com/dwikikusuma/ordersvc/pkg/mongodb"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Price             float64            `bson:"price"`
	AvailableQuantity int64              `bson:"available_quantity"`
}

type ProductRepo struct {
	Collection *mongo.Collection
}

func NewProductRepo(db *mongo.Database) *ProductRepo {
	return &ProductRepo{Collection: db.Collection(mongodb.ProductsCollection)}
}

// Insert is used by seeding and tests; catalog management is not exposed
// through the service.
func (r *ProductRepo) Insert(ctx context.Context, p domain.Product) (domain.Product, error) {
	doc := productDoc{
		Name:              p.Name,
		Price:             p.Price.InexactFloat64(),
		AvailableQuantity: p.AvailableQuantity,
	}
	res, err := r.Collection.InsertOne(ctx, doc)
	if err != nil {
		return domain.Product{}, wrapErr("insert product", err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return p, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Product{}, app.ErrNotFound
	}

	var doc productDoc
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, wrapErr("find product", err)
	}
	return toDomain(doc), nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrapErr("list products", err)
	}

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapErr("decode products", err)
	}

	out := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDomain(d))
	}
	return out, nil
}

func (r *ProductRepo) SetAvailableQuantity(ctx context.Context, id string, quantity int64) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"available_quantity": quantity}},
	)
	if err != nil {
		return false, wrapErr("set quantity", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *ProductRepo) Decrement(ctx context.Context, id string, qty int64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return app.ErrNotFound
	}

	// The $gte guard and the $inc run as one document update, so concurrent
	// reservations can never push the quantity below zero.
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": oid, "available_quantity": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"available_quantity": -qty}},
	)
	if err != nil {
		return wrapErr("decrement quantity", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.Collection.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrapErr("check product", err)
	}
	if n == 0 {
		return app.ErrNotFound
	}
	return app.ErrInsufficientQuantity
}

func (r *ProductRepo) Increment(ctx context.Context, id string, qty int64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return app.ErrNotFound
	}

	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"available_quantity": qty}},
	)
	if err != nil {
		return wrapErr("increment quantity", err)
	}
	if res.MatchedCount == 0 {
		return app.ErrNotFound
	}
	return nil
}

func toDomain(d productDoc) domain.Product {
	return domain.Product{
		ID:                d.ID.Hex(),
		Name:              d.Name,
		Price:             decimal.NewFromFloat(d.Price),
		AvailableQuantity: d.AvailableQuantity,
	}
}

func wrapErr(op string, err error) error {
	if mongodb.IsTransient(err) {
		return fmt.Errorf("%s: %w: %v", op, app.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
