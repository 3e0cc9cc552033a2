package dto

import "github.com/vsinha/blacksmith/pkg/domain/entities"

// HydratedMaterial is a material usage line with the material record embedded
type HydratedMaterial struct {
	entities.MaterialUsage
	Material *entities.Material `json:"material"`
}

// HydratedDetail is a nested product usage line with the nested tree embedded
type HydratedDetail struct {
	entities.DetailUsage
	Product *HydratedProduct `json:"product"`
}

// HydratedProduct is a product with every reference in its BOM resolved
type HydratedProduct struct {
	ID          entities.ProductID  `json:"id"`
	Article     string              `json:"article"`
	MeasureUnit string              `json:"measure_unit"`
	Dimensions  entities.Dimensions `json:"dimensions"`
	Stock       entities.Quantity   `json:"stock"`
	Materials   []HydratedMaterial  `json:"materials"`
	Details     []HydratedDetail    `json:"details"`
	Tags        []entities.Tag      `json:"tags"`
}

// MutationResult reports the outcome of a stock change.
// On success Product holds the refreshed tree; on rejection Estimate explains the shortfall.
type MutationResult struct {
	Success  bool             `json:"success"`
	Product  *HydratedProduct `json:"product,omitempty"`
	Estimate *ProductEstimate `json:"estimate,omitempty"`
}
