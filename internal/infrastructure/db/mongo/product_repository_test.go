package mongo

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/anik/storefront-api/internal/core/domain"
	"github.com/anik/storefront-api/internal/core/ports"
)

func productDoc(id, name string, rating float64) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "description", Value: name + " description"},
		{Key: "price", Value: 12.5},
		{Key: "image_url", Value: "https://cdn.example.com/" + id + ".png"},
		{Key: "category", Value: "oils"},
		{Key: "active", Value: true},
		{Key: "in_stock", Value: true},
		{Key: "rating", Value: rating},
		{Key: "review_count", Value: int32(10)},
	}
}

func TestProductRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "storefront." + collectionProducts

	mt.Run("find by id", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, productDoc("p1", "Argan Oil", 4.8)))

		p, err := repo.FindByID(context.Background(), "p1")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if p.ID != "p1" || p.ImageURL == "" || !p.InStock || p.ReviewCount != 10 {
			mt.Fatalf("unexpected product: %+v", p)
		}
	})

	mt.Run("find by id not found", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		if _, err := repo.FindByID(context.Background(), "missing"); !errors.Is(err, domain.ErrProductNotFound) {
			mt.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	mt.Run("list returns page and total", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				productDoc("p1", "Argan Oil", 4.8),
				productDoc("p2", "Coconut Oil", 4.1),
			),
		)

		items, total, err := repo.List(context.Background(), ports.ProductFilter{Page: 1, Limit: 2})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if total != 3 || len(items) != 2 || items[1].ID != "p2" {
			mt.Fatalf("unexpected page: total=%d items=%+v", total, items)
		}
	})

	mt.Run("top rated", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			productDoc("p1", "Argan Oil", 4.8),
			productDoc("p3", "Shea Butter", 4.5),
		))

		items, err := repo.TopRated(context.Background(), 2)
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 2 || items[0].Rating < items[1].Rating {
			mt.Fatalf("unexpected items: %+v", items)
		}
	})

	mt.Run("categories skips blanks", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "values", Value: bson.A{"oils", "", "butters"}},
		})

		cats, err := repo.Categories(context.Background())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if len(cats) != 2 || cats[0] != "butters" || cats[1] != "oils" {
			mt.Fatalf("unexpected categories: %v", cats)
		}
	})
}

func TestListFilter(t *testing.T) {
	f := listFilter(ports.ProductFilter{Category: "oils", Query: "a.b(c"})

	if f["active"] != true || f["category"] != "oils" {
		t.Fatalf("unexpected filter: %v", f)
	}
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("expected $or over name and description, got %v", f["$or"])
	}
	re := or[0].(bson.M)["name"].(primitive.Regex)
	if re.Pattern != `a\.b\(c` || re.Options != "i" {
		t.Fatalf("expected escaped case-insensitive pattern, got %+v", re)
	}

	bare := listFilter(ports.ProductFilter{})
	if _, ok := bare["$or"]; ok {
		t.Fatalf("empty query must not add a text filter")
	}
	if _, ok := bare["category"]; ok {
		t.Fatalf("empty category must not add a category filter")
	}
}
