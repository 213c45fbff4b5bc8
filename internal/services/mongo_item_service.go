package services

import (
	"context"
	"log"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stockroom/backend/internal/models"
)

// MongoItemService stores items in a single MongoDB collection named "item".
type MongoItemService struct {
	client *mongo.Client
	db     *mongo.Database
	coll   *mongo.Collection
}

func NewMongoItemService(ctx context.Context, mongoURI, dbName string) (*MongoItemService, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	coll := db.Collection("item")

	svc := &MongoItemService{
		client: client,
		db:     db,
		coll:   coll,
	}

	// Best-effort indexes. The unique sku index backstops the handlers'
	// uniqueness pre-check: concurrent inserts that both pass the pre-check
	// fail here with a duplicate-key error instead of both landing.
	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	})

	log.Printf("MongoDB connected: db=%s", dbName)
	return svc, nil
}

func (s *MongoItemService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoItemService) List(ctx context.Context, q, category string) ([]*models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if q != "" {
		// Quoted so metacharacters in q match literally.
		pattern := regexp.QuoteMeta(q)
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"sku": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	if category != "" {
		filter["category"] = category
	}

	cur, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := make([]*models.Item, 0)
	for cur.Next(ctx) {
		var item models.Item
		if err := cur.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MongoItemService) GetByID(ctx context.Context, id string) (*models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrItemNotFound
	}

	var item models.Item
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&item); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *MongoItemService) GetBySKU(ctx context.Context, sku string) (*models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var item models.Item
	if err := s.coll.FindOne(ctx, bson.M{"sku": sku}).Decode(&item); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *MongoItemService) GetBySKUExcept(ctx context.Context, sku, id string) (*models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrItemNotFound
	}

	var item models.Item
	if err := s.coll.FindOne(ctx, bson.M{"sku": sku, "_id": bson.M{"$ne": oid}}).Decode(&item); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *MongoItemService) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}

	if _, err := s.coll.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateSKU
		}
		return nil, err
	}

	// Return the document as stored rather than the one we built.
	var stored models.Item
	if err := s.coll.FindOne(ctx, bson.M{"_id": item.ID}).Decode(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *MongoItemService) Update(ctx context.Context, id string, req *models.UpdateItemRequest) (*models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrItemNotFound
	}

	// Only supplied fields make it into the $set.
	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.SKU != nil {
		set["sku"] = *req.SKU
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.Quantity != nil {
		set["quantity"] = *req.Quantity
	}
	if req.MinStock != nil {
		set["min_stock"] = *req.MinStock
	}
	if req.Cost != nil {
		set["cost"] = *req.Cost
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}

	res := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Item
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrItemNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateSKU
		}
		return nil, err
	}
	return &updated, nil
}

func (s *MongoItemService) SetQuantity(ctx context.Context, id string, quantity int) (*models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrItemNotFound
	}

	res := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"quantity": quantity}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Item
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (s *MongoItemService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrItemNotFound
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *MongoItemService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.client.Ping(ctx, nil)
}

func (s *MongoItemService) Collections(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.db.ListCollectionNames(ctx, bson.M{})
}
