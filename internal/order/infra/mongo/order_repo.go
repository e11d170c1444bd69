package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dwikikusuma/ordersvc/internal/order/app"
	"github.com/dwikikusuma/ordersvc/internal/order/domain"
	"github.com/dwikikusuma/ordersvc/pkg/mongodb"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp   time.Time          `bson:"timestamp"`
	Items       []itemDoc          `bson:"items"`
	UserAddress addressDoc         `bson:"user_address"`
	TotalAmount float64            `bson:"total_amount"`
}

type itemDoc struct {
	ProductID      string `bson:"product_id"`
	BoughtQuantity int64  `bson:"bought_quantity"`
}

type addressDoc struct {
	City    string `bson:"city"`
	Country string `bson:"country"`
	ZipCode string `bson:"zip_code"`
}

type OrderRepo struct {
	Collection *mongo.Collection
}

func NewOrderRepo(db *mongo.Database) *OrderRepo {
	return &OrderRepo{Collection: db.Collection(mongodb.OrdersCollection)}
}

func (r *OrderRepo) Insert(ctx context.Context, order domain.Order) (domain.Order, error) {
	doc := toDoc(order)
	doc.ID = primitive.NewObjectID()

	if _, err := r.Collection.InsertOne(ctx, doc); err != nil {
		return domain.Order{}, wrapErr("insert order", err)
	}
	return toDomain(doc), nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Order{}, app.ErrNotFound
	}

	var doc orderDoc
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Order{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, wrapErr("find order", err)
	}
	return toDomain(doc), nil
}

func (r *OrderRepo) List(ctx context.Context, limit, offset int) (domain.Page, error) {
	total, err := r.Collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return domain.Page{}, wrapErr("count orders", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return domain.Page{}, wrapErr("list orders", err)
	}

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return domain.Page{}, wrapErr("decode orders", err)
	}

	orders := make([]domain.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, toDomain(d))
	}
	return domain.Page{Total: total, Orders: orders}, nil
}

func toDoc(o domain.Order) orderDoc {
	items := make([]itemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemDoc{ProductID: it.ProductID, BoughtQuantity: it.BoughtQuantity})
	}
	return orderDoc{
		Timestamp: o.Timestamp,
		Items:     items,
		UserAddress: addressDoc{
			City:    o.UserAddress.City,
			Country: o.UserAddress.Country,
			ZipCode: o.UserAddress.ZipCode,
		},
		TotalAmount: o.TotalAmount.InexactFloat64(),
	}
}

func toDomain(d orderDoc) domain.Order {
	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, domain.OrderItem{ProductID: it.ProductID, BoughtQuantity: it.BoughtQuantity})
	}
	return domain.Order{
		ID:        d.ID.Hex(),
		Timestamp: d.Timestamp.UTC(),
		Items:     items,
		UserAddress: domain.UserAddress{
			City:    d.UserAddress.City,
			Country: d.UserAddress.Country,
			ZipCode: d.UserAddress.ZipCode,
		},
		TotalAmount: decimal.NewFromFloat(d.TotalAmount),
	}
}

func wrapErr(op string, err error) error {
	if mongodb.IsTransient(err) {
		return fmt.Errorf("%s: %w: %v", op, app.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
