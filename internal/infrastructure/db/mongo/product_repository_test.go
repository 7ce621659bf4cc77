package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/udtn/catalog-api/internal/core/domain"
	"github.com/udtn/catalog-api/internal/core/ports"
)

func TestBuildUpdate_OnlySetFields(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	stock := 7

	got := buildUpdate(domain.ProductPatch{Stock: &stock}, now)

	set, ok := got["$set"].(bson.M)
	if !ok {
		t.Fatalf("expected $set document, got %#v", got)
	}
	if len(set) != 2 {
		t.Fatalf("expected stock and updated_at only, got %v", set)
	}
	if set["stock"] != 7 {
		t.Errorf("expected stock 7, got %v", set["stock"])
	}
	if set["updated_at"] != now {
		t.Errorf("expected updated_at %v, got %v", now, set["updated_at"])
	}
}

func TestFindOptions(t *testing.T) {
	opts := findOptions(ports.ListProductsFilter{Skip: 5, Limit: 5, SortBy: domain.SortByCreatedAt, Order: domain.SortDesc})

	if opts.Skip == nil || *opts.Skip != 5 {
		t.Fatalf("expected skip 5, got %v", opts.Skip)
	}
	if opts.Limit == nil || *opts.Limit != 5 {
		t.Fatalf("expected limit 5, got %v", opts.Limit)
	}
	sort, ok := opts.Sort.(bson.D)
	if !ok || len(sort) != 2 {
		t.Fatalf("unexpected sort: %#v", opts.Sort)
	}
	if sort[0].Key != "created_at" || sort[0].Value != -1 {
		t.Errorf("expected created_at desc, got %v", sort[0])
	}
}

func TestMalformedIDIsNotFound(t *testing.T) {
	// a nil collection is never touched because the id fails to parse first
	r := &ProductRepository{}

	if _, err := r.FindByID(context.Background(), "not-an-object-id"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("FindByID: expected ErrProductNotFound, got %v", err)
	}
	name := "x"
	if _, err := r.Update(context.Background(), "xyz", domain.ProductPatch{Name: &name}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("Update: expected ErrProductNotFound, got %v", err)
	}
	if err := r.Delete(context.Background(), "123"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("Delete: expected ErrProductNotFound, got %v", err)
	}
}

func TestProductRepository_MissingDocument(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID().Hex()

	mt.Run("delete", func(mt *mtest.T) {
		r := &ProductRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		if err := r.Delete(context.Background(), id); !errors.Is(err, domain.ErrProductNotFound) {
			mt.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	mt.Run("update", func(mt *mtest.T) {
		r := &ProductRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		name := "renamed"
		if _, err := r.Update(context.Background(), id, domain.ProductPatch{Name: &name}); !errors.Is(err, domain.ErrProductNotFound) {
			mt.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	mt.Run("find", func(mt *mtest.T) {
		r := &ProductRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		if _, err := r.FindByID(context.Background(), id); !errors.Is(err, domain.ErrProductNotFound) {
			mt.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})
}

func TestProductRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("removes one", func(mt *mtest.T) {
		r := &ProductRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		if err := r.Delete(context.Background(), primitive.NewObjectID().Hex()); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestProductRepository_FindByIDMapsDocument(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		r := &ProductRepository{col: mt.Coll}
		oid := primitive.NewObjectID()
		created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "name", Value: "Lamp"},
			{Key: "description", Value: "Desk lamp"},
			{Key: "price", Value: 19.5},
			{Key: "stock", Value: 3},
			{Key: "created_at", Value: created},
			{Key: "updated_at", Value: created},
		}))

		p, err := r.FindByID(context.Background(), oid.Hex())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if p.ID != oid.Hex() || p.Name != "Lamp" || p.Price != 19.5 || p.Stock != 3 {
			mt.Fatalf("unexpected product: %+v", p)
		}
		if !p.CreatedAt.Equal(created) || !p.UpdatedAt.Equal(created) {
			mt.Errorf("unexpected timestamps: %v %v", p.CreatedAt, p.UpdatedAt)
		}
	})
}
