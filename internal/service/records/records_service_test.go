package records

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/mamadbah2/ledger/internal/domain/models"
	"github.com/mamadbah2/ledger/internal/feed"
	"github.com/mamadbah2/ledger/internal/repository/mongodb"
)

var testZone = time.FixedZone("PKT", 5*3600)

// fakeRepo is an in-memory mongodb.Repository used by the service tests.
type fakeRepo struct {
	docs      map[string]map[string]map[string]interface{}
	nextID    int
	queries   []feed.Query
	updates   []map[string]interface{}
	products  []models.Product
	units     []string
	summaries []models.DailySummary
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: map[string]map[string]map[string]interface{}{}}
}

func (f *fakeRepo) put(collection, id string, fields map[string]interface{}) {
	if f.docs[collection] == nil {
		f.docs[collection] = map[string]map[string]interface{}{}
	}
	f.docs[collection][id] = fields
}

func (f *fakeRepo) AddRecord(_ context.Context, collection string, fields map[string]interface{}) (string, error) {
	f.nextID++
	id := "id-" + strconv.Itoa(f.nextID)
	f.put(collection, id, fields)
	return id, nil
}

func (f *fakeRepo) GetRecord(_ context.Context, collection, id string) (feed.RawRecord, error) {
	fields, ok := f.docs[collection][id]
	if !ok {
		return feed.RawRecord{}, mongodb.ErrNotFound
	}
	return feed.RawRecord{ID: id, Fields: fields}, nil
}

func (f *fakeRepo) UpdateRecord(_ context.Context, collection, id string, fields map[string]interface{}) error {
	doc, ok := f.docs[collection][id]
	if !ok {
		return mongodb.ErrNotFound
	}
	f.updates = append(f.updates, fields)
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func (f *fakeRepo) FetchPage(_ context.Context, collection string, q feed.Query) ([]feed.RawRecord, error) {
	f.queries = append(f.queries, q)

	var out []feed.RawRecord
	for id, fields := range f.docs[collection] {
		out = append(out, feed.RawRecord{ID: id, Fields: fields})
	}
	sort.Slice(out, func(i, j int) bool {
		return feed.String(out[i].Fields["date"]) > feed.String(out[j].Fields["date"])
	})
	if q.PageSize > 0 && len(out) > q.PageSize {
		out = out[:q.PageSize]
	}
	return out, nil
}

func (f *fakeRepo) StreamRange(_ context.Context, collection string, _, _ time.Time, fn func(feed.RawRecord) error) error {
	for id, fields := range f.docs[collection] {
		if err := fn(feed.RawRecord{ID: id, Fields: fields}); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRepo) UpsertProduct(_ context.Context, product models.Product) error {
	f.products = append(f.products, product)
	return nil
}

func (f *fakeRepo) ListProducts(_ context.Context) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeRepo) UpsertUnit(_ context.Context, name string) error {
	f.units = append(f.units, name)
	return nil
}

func (f *fakeRepo) ListUnits(_ context.Context) ([]string, error) {
	return f.units, nil
}

func (f *fakeRepo) SaveDailySummary(_ context.Context, summary models.DailySummary) error {
	f.summaries = append(f.summaries, summary)
	return nil
}

func newTestService(repo *fakeRepo) *Service {
	svc := NewService(repo, feed.NewNormalizer(testZone), nil)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 10, 16, 0, 0, 0, testZone)
	}
	return svc
}

func TestAddStoresLocalNaiveDateAndDerivedFields(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.Add(context.Background(), models.KindOrders, models.AddRecordRequest{
		Date:     "2025-03-10T12:00:00Z",
		Product:  "Sugar",
		Unit:     "kg",
		Quantity: 3,
		Price:    10,
		Party:    "Ali Traders",
		Advance:  5,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	var fields map[string]interface{}
	for _, doc := range repo.docs["orders"] {
		fields = doc
	}
	if fields == nil {
		t.Fatal("no order stored")
	}
	// UTC noon renders as 17:00 in the +05:00 zone, without an offset suffix.
	if got := fields["date"]; got != "2025-03-10T17:00:00" {
		t.Fatalf("stored date = %v, want local-naive 2025-03-10T17:00:00", got)
	}
	if got := fields["total"]; got != 30.0 {
		t.Fatalf("stored total = %v, want 30", got)
	}
	if got := fields["remain_amount"]; got != 25.0 {
		t.Fatalf("stored remain = %v, want total-advance = 25", got)
	}
	if got := fields["paid_amount"]; got != 0.0 {
		t.Fatalf("stored paid = %v, want 0", got)
	}
	if got := fields["status"]; got != "Pending" {
		t.Fatalf("stored status = %v, want Pending", got)
	}
	if got := fields["party"]; got != "Ali Traders" {
		t.Fatalf("stored party = %v", got)
	}
}

func TestAddSalesOmitsOrderFields(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	if _, err := svc.Add(context.Background(), models.KindSales, models.AddRecordRequest{
		Date: "2025-03-10T12:00:00", Product: "Sugar", Quantity: 1, Price: 2, Party: "ignored",
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	for _, fields := range repo.docs["sales"] {
		for _, key := range []string{"party", "advance", "paid_amount", "remain_amount", "status"} {
			if _, ok := fields[key]; ok {
				t.Fatalf("sales document must not carry %s", key)
			}
		}
	}
}

func TestAddUnparseableDateDefaultsToNow(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	if _, err := svc.Add(context.Background(), models.KindSales, models.AddRecordRequest{
		Date: "banana", Product: "Sugar",
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	for _, fields := range repo.docs["sales"] {
		if got := fields["date"]; got != "2025-03-10T16:00:00" {
			t.Fatalf("stored date = %v, want the injected now", got)
		}
	}
}

func TestPatchOrderRecomputesRemain(t *testing.T) {
	repo := newFakeRepo()
	repo.put("orders", "o1", map[string]interface{}{
		"date": "2025-03-10T10:00:00", "total": 100.0, "advance": 0.0, "paid_amount": 0.0,
		"remain_amount": 100.0, "status": "Pending",
	})
	svc := newTestService(repo)

	updated, err := svc.PatchOrder(context.Background(), "o1", map[string]interface{}{
		"status":        "Partially Paid",
		"advance":       10.0,
		"paid_amount":   60.0,
		"remain_amount": 999.0, // client arithmetic is ignored
		"bogus":         "dropped",
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}

	if len(repo.updates) != 1 {
		t.Fatalf("expected one update, got %d", len(repo.updates))
	}
	update := repo.updates[0]
	if got := update["remain_amount"]; got != 30.0 {
		t.Fatalf("remain = %v, want server-computed 30", got)
	}
	if _, ok := update["bogus"]; ok {
		t.Fatal("unrecognized patch key must be ignored")
	}
	if got := update["status"]; got != "Partially Paid" {
		t.Fatalf("status = %v", got)
	}
	if updated.RemainAmount != 30.0 || updated.Status != "Partially Paid" {
		t.Fatalf("updated record = %+v", updated)
	}
}

func TestPatchOrderStatusOnlyStillRecomputes(t *testing.T) {
	repo := newFakeRepo()
	repo.put("orders", "o1", map[string]interface{}{
		"date": "2025-03-10T10:00:00", "total": 100.0, "advance": 20.0, "paid_amount": 30.0,
		"remain_amount": 999.0,
	})
	svc := newTestService(repo)

	if _, err := svc.PatchOrder(context.Background(), "o1", map[string]interface{}{"status": "Paid"}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if got := repo.updates[0]["remain_amount"]; got != 50.0 {
		t.Fatalf("remain = %v, want 100-20-30", got)
	}
}

func TestPatchOrderNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.PatchOrder(context.Background(), "missing", map[string]interface{}{"status": "Paid"})
	if !errors.Is(err, mongodb.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWindowDefaultsToToday(t *testing.T) {
	svc := newTestService(newFakeRepo())

	window := svc.Window("", "")

	wantStart := time.Date(2025, 3, 10, 0, 0, 0, 0, testZone)
	wantEnd := time.Date(2025, 3, 10, 23, 59, 0, 0, testZone)
	if !window.Start.Equal(wantStart) || !window.End.Equal(wantEnd) {
		t.Fatalf("window = [%v, %v], want today's default", window.Start, window.End)
	}
	if window.StartRaw != "2025-03-10T00:00" || window.EndRaw != "2025-03-10T23:59" {
		t.Fatalf("echo = %q / %q", window.StartRaw, window.EndRaw)
	}
}

func TestWindowUnparseableBoundFallsBack(t *testing.T) {
	svc := newTestService(newFakeRepo())

	window := svc.Window("garbage", "2025-03-12T10:00")
	if !window.Start.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, testZone)) {
		t.Fatalf("bad start should fall back to default, got %v", window.Start)
	}
	if !window.End.Equal(time.Date(2025, 3, 12, 10, 0, 0, 0, testZone)) {
		t.Fatalf("end = %v", window.End)
	}
}

func TestListPageScopesFiltersToKind(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	opts := ListOptions{Product: "Sugar", Party: "ali", Status: "Paid", PageSize: 10}

	if _, _, err := svc.ListPage(context.Background(), models.KindSales, opts); err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if q := repo.queries[0]; q.Filter.Party != "" || q.Filter.Status != "" {
		t.Fatalf("sales query leaked order-only filters: %+v", q.Filter)
	}

	if _, _, err := svc.ListPage(context.Background(), models.KindOrders, opts); err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if q := repo.queries[1]; q.Filter.Party != "ali" || q.Filter.Status != "Paid" {
		t.Fatalf("orders query missing filters: %+v", q.Filter)
	}
}

func TestCatalogSeedsDefaultUnits(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, units, err := svc.Catalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(units) != len(models.DefaultUnits) {
		t.Fatalf("units = %v, want seeded defaults", units)
	}

	// Seeding writes back to the store.
	if len(repo.units) != len(models.DefaultUnits) {
		t.Fatalf("store units = %v", repo.units)
	}
}

func TestAddProductCustomUnit(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	err := svc.AddProduct(context.Background(), models.AddProductRequest{
		Name: "  Rice  ", Unit: "custom", CustomUnit: " bag ",
	})
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	if len(repo.products) != 1 || repo.products[0].Name != "Rice" || repo.products[0].Unit != "bag" {
		t.Fatalf("products = %+v", repo.products)
	}
	if len(repo.units) != 1 || repo.units[0] != "bag" {
		t.Fatalf("units = %v", repo.units)
	}
}

func TestAddProductEmptyNameIsNoop(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	if err := svc.AddProduct(context.Background(), models.AddProductRequest{Name: "   ", Unit: "kg"}); err != nil {
		t.Fatalf("add product: %v", err)
	}
	if len(repo.products) != 0 || len(repo.units) != 0 {
		t.Fatal("empty product name must not write")
	}
}
