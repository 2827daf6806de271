package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/ledger/internal/domain/models"
	"github.com/mamadbah2/ledger/internal/feed"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("record not found")

// Repository defines the document store operations the services need: page
// queries and range streams for the feed engine, plus single-document writes
// and reads for records, the product catalog, and daily summaries.
type Repository interface {
	feed.Store

	AddRecord(ctx context.Context, collection string, fields map[string]interface{}) (string, error)
	GetRecord(ctx context.Context, collection, id string) (feed.RawRecord, error)
	UpdateRecord(ctx context.Context, collection, id string, fields map[string]interface{}) error

	UpsertProduct(ctx context.Context, product models.Product) error
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpsertUnit(ctx context.Context, name string) error
	ListUnits(ctx context.Context) ([]string, error)

	SaveDailySummary(ctx context.Context, summary models.DailySummary) error
}

// MongoRepository implements Repository against a MongoDB database. Record
// dates are stored as local-naive ISO strings, so range and cursor conditions
// are rendered in the configured zone before being pushed into the query.
type MongoRepository struct {
	client *mongo.Client
	dbName string
	loc    *time.Location
}

// NewMongoRepository connects to MongoDB and verifies the connection.
func NewMongoRepository(ctx context.Context, uri, dbName string, loc *time.Location) (*MongoRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	if loc == nil {
		loc = time.Local
	}

	return &MongoRepository{client: client, dbName: dbName, loc: loc}, nil
}

func (r *MongoRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// AddRecord inserts one document with a generated id and returns the id.
func (r *MongoRepository) AddRecord(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	res, err := r.collection(collection).InsertOne(ctx, bson.M(fields))
	if err != nil {
		return "", fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

// GetRecord loads one document by its store id.
func (r *MongoRepository) GetRecord(ctx context.Context, collection, id string) (feed.RawRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return feed.RawRecord{}, ErrNotFound
	}

	var doc bson.M
	if err := r.collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return feed.RawRecord{}, ErrNotFound
		}
		return feed.RawRecord{}, fmt.Errorf("failed to load %s/%s: %w", collection, id, err)
	}
	return rawRecord(doc), nil
}

// UpdateRecord applies a partial update ($set) to one document by id.
func (r *MongoRepository) UpdateRecord(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.collection(collection).UpdateByID(ctx, oid, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FetchPage returns one page of raw documents in descending date order. The
// query filters are pushed into the store query so the limit applies after
// filtering; the cursor resumes strictly after the previous page's last date.
func (r *MongoRepository) FetchPage(ctx context.Context, collection string, q feed.Query) ([]feed.RawRecord, error) {
	filter := r.pageFilter(q)
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(q.PageSize))

	cur, err := r.collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var out []feed.RawRecord
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s document: %w", collection, err)
		}
		out = append(out, rawRecord(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to stream %s page: %w", collection, err)
	}
	return out, nil
}

// StreamRange calls fn for every document whose date falls in [start, end],
// without materializing the collection. Zero bounds leave that side open.
func (r *MongoRepository) StreamRange(ctx context.Context, collection string, start, end time.Time, fn func(feed.RawRecord) error) error {
	dateCond := bson.M{}
	if !start.IsZero() {
		dateCond["$gte"] = r.naive(start)
	}
	if !end.IsZero() {
		dateCond["$lte"] = r.naive(end)
	}
	filter := bson.M{}
	if len(dateCond) > 0 {
		filter["date"] = dateCond
	}

	cur, err := r.collection(collection).Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to query %s range: %w", collection, err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return fmt.Errorf("failed to decode %s document: %w", collection, err)
		}
		if err := fn(rawRecord(doc)); err != nil {
			return err
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("failed to stream %s range: %w", collection, err)
	}
	return nil
}

// UpsertProduct stores a product keyed by its name.
func (r *MongoRepository) UpsertProduct(ctx context.Context, product models.Product) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection("products").ReplaceOne(ctx, bson.M{"_id": product.Name}, bson.M{
		"name": product.Name,
		"unit": product.Unit,
	}, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", product.Name, err)
	}
	return nil
}

// ListProducts returns every catalog product.
func (r *MongoRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	cur, err := r.collection("products").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cur.Close(ctx)

	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// UpsertUnit ensures a unit document exists, keyed by the unit string.
func (r *MongoRepository) UpsertUnit(ctx context.Context, name string) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection("units").ReplaceOne(ctx, bson.M{"_id": name}, bson.M{"name": name}, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert unit %s: %w", name, err)
	}
	return nil
}

// ListUnits returns the known unit names, preferring the name field over the
// document id.
func (r *MongoRepository) ListUnits(ctx context.Context) ([]string, error) {
	cur, err := r.collection("units").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer cur.Close(ctx)

	var units []string
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode unit: %w", err)
		}
		if name, ok := doc["name"].(string); ok && name != "" {
			units = append(units, name)
		} else if id, ok := doc["_id"].(string); ok {
			units = append(units, id)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to stream units: %w", err)
	}
	return units, nil
}

// SaveDailySummary appends one scheduled aggregate snapshot.
func (r *MongoRepository) SaveDailySummary(ctx context.Context, summary models.DailySummary) error {
	if _, err := r.collection("daily_summaries").InsertOne(ctx, summary); err != nil {
		return fmt.Errorf("failed to insert daily summary: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoRepository) pageFilter(q feed.Query) bson.M {
	filter := bson.M{}

	dateCond := bson.M{}
	if !q.Filter.Start.IsZero() {
		dateCond["$gte"] = r.naive(q.Filter.Start)
	}
	if !q.Filter.End.IsZero() {
		dateCond["$lte"] = r.naive(q.Filter.End)
	}
	if q.After != "" {
		dateCond["$lt"] = q.After
	}
	if len(dateCond) > 0 {
		filter["date"] = dateCond
	}

	if q.Filter.Product != "" && q.Filter.Product != feed.FilterAll {
		filter["product"] = q.Filter.Product
	}
	if q.Filter.Status != "" && q.Filter.Status != feed.FilterAll {
		filter["status"] = q.Filter.Status
	}
	if party := strings.TrimSpace(q.Filter.Party); party != "" {
		filter["party"] = primitive.Regex{Pattern: regexp.QuoteMeta(party), Options: "i"}
	}
	return filter
}

// naive renders a UTC instant as the local-naive ISO string used by the
// stored date field.
func (r *MongoRepository) naive(t time.Time) string {
	return t.In(r.loc).Format(feed.CursorLayout)
}

// rawRecord strips the _id into the record id and converts BSON scalar
// wrappers so the normalizer only ever sees plain Go values.
func rawRecord(doc bson.M) feed.RawRecord {
	raw := feed.RawRecord{Fields: make(map[string]interface{}, len(doc))}
	for key, value := range doc {
		if key == "_id" {
			switch id := value.(type) {
			case primitive.ObjectID:
				raw.ID = id.Hex()
			case string:
				raw.ID = id
			default:
				raw.ID = fmt.Sprint(id)
			}
			continue
		}
		if dt, ok := value.(primitive.DateTime); ok {
			raw.Fields[key] = dt.Time()
			continue
		}
		raw.Fields[key] = value
	}
	return raw
}
