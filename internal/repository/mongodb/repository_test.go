package mongodb

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/ledger/internal/feed"
)

func testRepo() *MongoRepository {
	return &MongoRepository{loc: time.FixedZone("PKT", 5*3600)}
}

func TestPageFilterPushesConditionsDown(t *testing.T) {
	r := testRepo()

	q := feed.Query{
		Filter: feed.Filter{
			Start:   time.Date(2025, 3, 9, 19, 0, 0, 0, time.UTC), // 2025-03-10 00:00 local
			End:     time.Date(2025, 3, 10, 18, 59, 0, 0, time.UTC),
			Product: "Sugar",
			Party:   " ali ",
			Status:  "Paid",
		},
		After:    "2025-03-10T12:00:00",
		PageSize: 50,
	}

	filter := r.pageFilter(q)

	date, ok := filter["date"].(bson.M)
	if !ok {
		t.Fatalf("missing date condition: %v", filter)
	}
	if date["$gte"] != "2025-03-10T00:00:00" || date["$lte"] != "2025-03-10T23:59:00" {
		t.Fatalf("range rendered wrong: %v", date)
	}
	if date["$lt"] != "2025-03-10T12:00:00" {
		t.Fatalf("cursor condition = %v", date["$lt"])
	}
	if filter["product"] != "Sugar" || filter["status"] != "Paid" {
		t.Fatalf("equality filters = %v", filter)
	}
	regex, ok := filter["party"].(primitive.Regex)
	if !ok || regex.Pattern != "ali" || regex.Options != "i" {
		t.Fatalf("party filter = %#v", filter["party"])
	}
}

func TestPageFilterDisabledPredicates(t *testing.T) {
	r := testRepo()

	filter := r.pageFilter(feed.Query{Filter: feed.Filter{
		Product: feed.FilterAll,
		Status:  feed.FilterAll,
		Party:   "   ",
	}})

	if len(filter) != 0 {
		t.Fatalf("All/blank filters must not reach the query, got %v", filter)
	}
}

func TestRawRecordConversion(t *testing.T) {
	oid := primitive.NewObjectID()
	stamp := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	raw := rawRecord(bson.M{
		"_id":      oid,
		"date":     primitive.NewDateTimeFromTime(stamp),
		"quantity": 3.0,
	})

	if raw.ID != oid.Hex() {
		t.Fatalf("id = %q, want object id hex", raw.ID)
	}
	if _, ok := raw.Fields["_id"]; ok {
		t.Fatal("_id must not leak into fields")
	}
	converted, ok := raw.Fields["date"].(time.Time)
	if !ok || !converted.Equal(stamp) {
		t.Fatalf("date = %#v, want plain time.Time", raw.Fields["date"])
	}
}

func TestRawRecordStringID(t *testing.T) {
	raw := rawRecord(bson.M{"_id": "Sugar", "unit": "kg"})
	if raw.ID != "Sugar" {
		t.Fatalf("id = %q", raw.ID)
	}
}
