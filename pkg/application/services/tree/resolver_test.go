package tree

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
	"github.com/vsinha/blacksmith/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/blacksmith/pkg/infrastructure/testing"
)

func TestResolver_HydratesWholeTree(t *testing.T) {
	ctx := context.Background()
	w := testhelpers.BuildWorkshopCatalog()
	resolver := NewResolver(w.Store, nil, 4)

	tree, err := resolver.Resolve(ctx, w.Table.ID)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if tree.Article != "TABLE" {
		t.Errorf("Expected TABLE, got %s", tree.Article)
	}
	if len(tree.Materials) != 1 || tree.Materials[0].Material.Article != "BOLT" {
		t.Errorf("Expected BOLT material embedded, got %+v", tree.Materials)
	}
	if len(tree.Tags) != 1 || tree.Tags[0].Name != "wood" {
		t.Errorf("Expected wood tag embedded, got %+v", tree.Tags)
	}
	if len(tree.Details) != 2 {
		t.Fatalf("Expected 2 details, got %d", len(tree.Details))
	}

	leg := tree.Details[0]
	if leg.Product.Article != "LEG" || leg.QuantityPerUnit != 4 {
		t.Errorf("Expected LEG x4 first, got %s x%d", leg.Product.Article, leg.QuantityPerUnit)
	}
	if len(leg.Product.Materials) != 2 || leg.Product.Materials[0].Material.Article != "OAK" {
		t.Errorf("Expected LEG to embed OAK first, got %+v", leg.Product.Materials)
	}
	if tree.Details[1].Product.Materials[0].Grade != entities.Improved {
		t.Errorf("Expected TOP to use improved oak")
	}
}

func TestResolver_Idempotent(t *testing.T) {
	ctx := context.Background()
	w := testhelpers.BuildWorkshopCatalog()
	resolver := NewResolver(w.Store, nil, 0)

	first, err := resolver.Resolve(ctx, w.Table.ID)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	second, err := resolver.Resolve(ctx, w.Table.ID)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected two resolves without writes to be identical")
	}
}

func TestResolver_MissingReferences(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(p *entities.Product)
	}{
		{"missing material", func(p *entities.Product) {
			_ = p.AddMaterial(testhelpers.MaterialLine(entities.NewMaterialID(), 1, entities.Ordinary))
		}},
		{"missing tag", func(p *entities.Product) {
			_ = p.AddTag(entities.NewTagID())
		}},
		{"missing detail", func(p *entities.Product) {
			_ = p.AddDetail(testhelpers.DetailLine(entities.NewProductID(), 1, 0, 0))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			p := testhelpers.MustProduct("P", 0)
			tt.setup(p)
			_ = store.CreateProduct(ctx, p)

			_, err := NewResolver(store, nil, 0).Resolve(ctx, p.ID)
			if !errors.Is(err, entities.ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}

	if _, err := NewResolver(memory.NewStore(), nil, 0).Resolve(ctx, "nope"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown product, got %v", err)
	}
}

func TestResolver_CycleGuard(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	a := testhelpers.MustProduct("A", 0)
	b := testhelpers.MustProduct("B", 0)
	c := testhelpers.MustProduct("C", 0)
	_ = a.AddDetail(testhelpers.DetailLine(b.ID, 1, 0, 0))
	_ = b.AddDetail(testhelpers.DetailLine(c.ID, 1, 0, 0))
	_ = c.AddDetail(testhelpers.DetailLine(a.ID, 1, 0, 0))
	for _, p := range []*entities.Product{a, b, c} {
		_ = store.CreateProduct(ctx, p)
	}

	if _, err := NewResolver(store, nil, 0).Resolve(ctx, a.ID); !errors.Is(err, entities.ErrCyclicBOM) {
		t.Errorf("Expected ErrCyclicBOM, got %v", err)
	}
}
