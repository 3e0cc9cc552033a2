package csv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
	"github.com/vsinha/blacksmith/pkg/domain/repositories"
	"github.com/vsinha/blacksmith/pkg/domain/services"
)

// Scenario is a catalog parsed from a seed directory, keyed by article
type Scenario struct {
	Materials      []*entities.Material
	Products       []ProductRow
	MaterialUsages []MaterialUsageRow
	DetailUsages   []DetailUsageRow
}

// LoadScenario reads the four scenario files from dir
func (l *Loader) LoadScenario(dir string) (*Scenario, error) {
	materials, err := l.LoadMaterials(filepath.Join(dir, MaterialsFile))
	if err != nil {
		return nil, err
	}
	products, err := l.LoadProducts(filepath.Join(dir, ProductsFile))
	if err != nil {
		return nil, err
	}
	materialUsages, err := l.LoadMaterialUsages(filepath.Join(dir, MaterialsUsageFile))
	if err != nil {
		return nil, err
	}
	detailUsages, err := l.LoadDetailUsages(filepath.Join(dir, DetailsUsageFile))
	if err != nil {
		return nil, err
	}
	return &Scenario{
		Materials:      materials,
		Products:       products,
		MaterialUsages: materialUsages,
		DetailUsages:   detailUsages,
	}, nil
}

var errCatalogNotEmpty = errors.New("catalog not empty")

// Seed writes the scenario into catalog in one transaction and returns the
// product ids by article. Unknown articles and cyclic BOMs abort the seed.
func (sc *Scenario) Seed(ctx context.Context, catalog repositories.Catalog) (map[string]entities.ProductID, error) {
	return sc.seed(ctx, catalog, false)
}

// SeedIfEmpty seeds like Seed, but only into a catalog holding no materials,
// products or tags. It reports false, writing nothing, when the catalog
// already has data, so a restarted server keeps what it stored.
func (sc *Scenario) SeedIfEmpty(ctx context.Context, catalog repositories.Catalog) (map[string]entities.ProductID, bool, error) {
	ids, err := sc.seed(ctx, catalog, true)
	if errors.Is(err, errCatalogNotEmpty) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return ids, true, nil
}

func (sc *Scenario) seed(ctx context.Context, catalog repositories.Catalog, onlyIfEmpty bool) (map[string]entities.ProductID, error) {
	materialIDs := make(map[string]entities.MaterialID, len(sc.Materials))
	productIDs := make(map[string]entities.ProductID, len(sc.Products))
	byID := make(map[entities.ProductID]*entities.Product, len(sc.Products))

	for _, m := range sc.Materials {
		materialIDs[m.Article] = m.ID
	}
	for _, row := range sc.Products {
		productIDs[row.Product.Article] = row.Product.ID
		byID[row.Product.ID] = row.Product
	}

	for _, u := range sc.MaterialUsages {
		parent, ok := productIDs[u.Product]
		if !ok {
			return nil, fmt.Errorf("%w: materials usage references unknown product %q", entities.ErrNotFound, u.Product)
		}
		materialID, ok := materialIDs[u.Material]
		if !ok {
			return nil, fmt.Errorf("%w: materials usage references unknown material %q", entities.ErrNotFound, u.Material)
		}
		line := u.Line
		line.MaterialID = materialID
		if err := byID[parent].AddMaterial(line); err != nil {
			return nil, fmt.Errorf("product %s: %w", u.Product, err)
		}
	}
	for _, u := range sc.DetailUsages {
		parent, ok := productIDs[u.Product]
		if !ok {
			return nil, fmt.Errorf("%w: details usage references unknown product %q", entities.ErrNotFound, u.Product)
		}
		child, ok := productIDs[u.Detail]
		if !ok {
			return nil, fmt.Errorf("%w: details usage references unknown product %q", entities.ErrNotFound, u.Detail)
		}
		line := u.Line
		line.ProductID = child
		if err := byID[parent].AddDetail(line); err != nil {
			return nil, fmt.Errorf("product %s: %w", u.Product, err)
		}
	}

	products := make([]*entities.Product, 0, len(byID))
	for _, row := range sc.Products {
		products = append(products, row.Product)
	}
	if result := services.NewBOMValidator().ValidateCatalog(products); result.HasCycles {
		return nil, fmt.Errorf("%w: %v", entities.ErrCyclicBOM, result.CyclePaths)
	}

	err := catalog.WithinTx(ctx, func(ctx context.Context, tx repositories.Catalog) error {
		if onlyIfEmpty {
			empty, err := isEmpty(ctx, tx)
			if err != nil {
				return err
			}
			if !empty {
				return errCatalogNotEmpty
			}
		}

		for _, m := range sc.Materials {
			if err := tx.CreateMaterial(ctx, m); err != nil {
				return fmt.Errorf("failed to seed material %s: %w", m.Article, err)
			}
		}

		tagIDs := make(map[string]entities.TagID)
		for _, row := range sc.Products {
			for _, name := range row.Tags {
				id, ok := tagIDs[name]
				if !ok {
					tag, err := entities.NewTag(name)
					if err != nil {
						return err
					}
					if err := tx.CreateTag(ctx, tag); err != nil {
						return fmt.Errorf("failed to seed tag %s: %w", name, err)
					}
					id = tag.ID
					tagIDs[name] = id
				}
				if err := row.Product.AddTag(id); err != nil {
					return err
				}
			}
		}

		// Rows first, lines second, so every detail line references a stored product
		for _, p := range products {
			bare := p.Clone()
			bare.Details = []entities.DetailUsage{}
			if err := tx.CreateProduct(ctx, bare); err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.Article, err)
			}
		}
		for _, p := range products {
			if len(p.Details) == 0 {
				continue
			}
			if err := tx.UpdateProduct(ctx, p); err != nil {
				return fmt.Errorf("failed to seed lines of %s: %w", p.Article, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return productIDs, nil
}

func isEmpty(ctx context.Context, catalog repositories.Catalog) (bool, error) {
	materials, err := catalog.ListMaterials(ctx)
	if err != nil {
		return false, err
	}
	products, err := catalog.ListProducts(ctx)
	if err != nil {
		return false, err
	}
	tags, err := catalog.ListTags(ctx)
	if err != nil {
		return false, err
	}
	return len(materials) == 0 && len(products) == 0 && len(tags) == 0, nil
}
