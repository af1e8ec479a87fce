package catalog

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jvitormendess/jaci-api/internal/obs"
	"github.com/jvitormendess/jaci-api/internal/pricing"
)

type fakeRepo struct {
	products map[string]Product
	listed   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: map[string]Product{}}
}

func (f *fakeRepo) List(context.Context) ([]Product, error) {
	f.listed++
	out := make([]Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (Product, error) {
	p, ok := f.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) Insert(_ context.Context, p Product) (Product, error) {
	if p.ID == "" {
		p.ID = "generated"
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeRepo) Update(_ context.Context, p Product) (Product, error) {
	if _, ok := f.products[p.ID]; !ok {
		return Product{}, ErrNotFound
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func newCachedService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := newFakeRepo()
	return &Service{
		Repo:  repo,
		Cache: NewCache(client, time.Minute),
		Log:   zerolog.Nop(),
	}, repo
}

func seed(repo *fakeRepo, id, name, price string, unit pricing.Unit) {
	repo.products[id] = Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		SaleUnit: unit,
	}
}

func TestListUsesCache(t *testing.T) {
	svc, repo := newCachedService(t)
	seed(repo, "arroz", "Arroz", "5.00", pricing.UnitPiece)

	first, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	second, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.listed != 1 {
		t.Fatalf("store hit %d times, cache should absorb the second call", repo.listed)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("unexpected results: %d / %d", len(first), len(second))
	}
	if !second[0].Price.Equal(decimal.RequireFromString("5.00")) {
		t.Fatalf("price lost through cache: %s", second[0].Price)
	}
	if second[0].SaleUnit != pricing.UnitPiece {
		t.Fatalf("unit lost through cache: %s", second[0].SaleUnit)
	}
}

func TestWritesInvalidateListCache(t *testing.T) {
	svc, repo := newCachedService(t)
	seed(repo, "arroz", "Arroz", "5.00", pricing.UnitPiece)
	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}

	created, err := svc.Create(context.Background(), Product{
		Name:  "Banana",
		Price: decimal.RequireFromString("4.00"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.SaleUnit != pricing.UnitPiece {
		t.Fatalf("create must default unit_type, got %q", created.SaleUnit)
	}

	after, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("expected fresh list after create, got %d items", len(after))
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newCachedService(t)
	cases := []Product{
		{Price: decimal.RequireFromString("1.00")},
		{Name: "Arroz", Price: decimal.RequireFromString("-1.00")},
	}
	for _, p := range cases {
		if _, err := svc.Create(context.Background(), p); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("product %+v: expected ErrInvalidInput, got %v", p, err)
		}
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc, repo := newCachedService(t)
	seed(repo, "arroz", "Arroz", "5.00", pricing.UnitPiece)

	updated, err := svc.Update(context.Background(), Product{
		ID:       "arroz",
		Name:     "Arroz Integral",
		Price:    decimal.RequireFromString("6.50"),
		SaleUnit: pricing.UnitPiece,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Arroz Integral" {
		t.Fatalf("name=%q", updated.Name)
	}

	if _, err := svc.Update(context.Background(), Product{
		ID:    "sumiu",
		Name:  "X",
		Price: decimal.Zero,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := svc.Delete(context.Background(), "arroz"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "arroz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetRequiresID(t *testing.T) {
	svc, _ := newCachedService(t)
	if _, err := svc.Get(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListRecordsCacheLookups(t *testing.T) {
	obs.MustRegisterDomainMetrics("jaci", prometheus.NewRegistry())
	svc, repo := newCachedService(t)
	seed(repo, "feijao", "Feijao", "8.90", pricing.UnitPiece)

	missBefore := testutil.ToFloat64(obs.CatalogCacheLookups.WithLabelValues("miss"))
	hitBefore := testutil.ToFloat64(obs.CatalogCacheLookups.WithLabelValues("hit"))

	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}

	missAfter := testutil.ToFloat64(obs.CatalogCacheLookups.WithLabelValues("miss"))
	hitAfter := testutil.ToFloat64(obs.CatalogCacheLookups.WithLabelValues("hit"))
	if missAfter-missBefore != 1 {
		t.Fatalf("miss counter moved by %v, want 1", missAfter-missBefore)
	}
	if hitAfter-hitBefore != 1 {
		t.Fatalf("hit counter moved by %v, want 1", hitAfter-hitBefore)
	}
}
