package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

func (h *Handler) listProducts(c echo.Context) error {
	products, err := h.catalog.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (h *Handler) createProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Article == nil {
		return required("article")
	}

	p := &entities.Product{}
	req.apply(p, true)
	created, err := h.catalog.CreateProduct(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) getProduct(c echo.Context) error {
	id, err := productIDParam(c, "productId")
	if err != nil {
		return err
	}
	tree, err := h.catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tree)
}

func (h *Handler) editProduct(c echo.Context) error {
	id, err := productIDParam(c, "productId")
	if err != nil {
		return err
	}
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.empty() {
		return errInvalidBody
	}

	ctx := c.Request().Context()
	current, err := h.catalog.Product(ctx, id)
	if err != nil {
		return err
	}
	p := &entities.Product{
		ID:          id,
		Article:     current.Article,
		MeasureUnit: current.MeasureUnit,
		Dimensions:  current.Dimensions,
	}
	req.apply(p, false)
	tree, err := h.catalog.UpdateProduct(ctx, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tree)
}

func (h *Handler) deleteProduct(c echo.Context) error {
	id, err := productIDParam(c, "productId")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteProduct(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// lineParams reads the product id, the line's target id and the body
func lineParams(c echo.Context, target string) (entities.ProductID, string, lineRequest, error) {
	var req lineRequest
	productID, err := productIDParam(c, "productId")
	if err != nil {
		return "", "", req, err
	}
	targetID, err := idParam(c, target)
	if err != nil {
		return "", "", req, err
	}
	if err := c.Bind(&req); err != nil {
		return "", "", req, err
	}
	return productID, targetID, req, nil
}

func (h *Handler) addProductMaterial(c echo.Context) error {
	productID, materialID, req, err := lineParams(c, "materialId")
	if err != nil {
		return err
	}
	if req.Quantity == nil {
		return required("quantity")
	}

	line := entities.MaterialUsage{MaterialID: entities.MaterialID(materialID)}
	req.applyMaterial(&line)
	tree, err := h.catalog.AddMaterial(c.Request().Context(), productID, line)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tree)
}

func (h *Handler) editProductMaterial(c echo.Context) error {
	productID, materialID, req, err := lineParams(c, "materialId")
	if err != nil {
		return err
	}
	if req.empty() {
		return errInvalidBody
	}

	ctx := c.Request().Context()
	current, err := h.catalog.Product(ctx, productID)
	if err != nil {
		return err
	}
	line, ok := current.MaterialLine(entities.MaterialID(materialID))
	if !ok {
		return fmt.Errorf("material %s is not used by product %s: %w", materialID, productID, entities.ErrNotFound)
	}

	req.applyMaterial(&line)
	tree, err := h.catalog.EditMaterial(ctx, productID, line)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tree)
}

func (h *Handler) removeProductMaterial(c echo.Context) error {
	productID, err := productIDParam(c, "productId")
	if err != nil {
		return err
	}
	materialID, err := materialIDParam(c)
	if err != nil {
		return err
	}
	tree, err := h.catalog.RemoveMaterial(c.Request().Context(), productID, materialID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tree)
}

func (h *Handler) addProductDetail(c echo.Context) error {
	productID, detailID, req, err := lineParams(c, "detailId")
	if err != nil {
		return err
	}
	if req.Quantity == nil {
		return required("quantity")
	}

	line := entities.DetailUsage{ProductID: entities.ProductID(detailID)}
	req.applyDetail(&line)
	tree, err := h.catalog.AddDetail(c.Request().Context(), productID, line)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tree)
}

func (h *Handler) editProductDetail(c echo.Context) error {
	productID, detailID, req, err := lineParams(c, "detailId")
	if err != nil {
		return err
	}
	if req.empty() {
		return errInvalidBody
	}

	ctx := c.Request().Context()
	current, err := h.catalog.Product(ctx, productID)
	if err != nil {
		return err
	}
	line, ok := current.DetailLine(entities.ProductID(detailID))
	if !ok {
		return fmt.Errorf("product %s is not a detail of %s: %w", detailID, productID, entities.ErrNotFound)
	}

	req.applyDetail(&line)
	tree, err := h.catalog.EditDetail(ctx, productID, line)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tree)
}

func (h *Handler) removeProductDetail(c echo.Context) error {
	productID, err := productIDParam(c, "productId")
	if err != nil {
		return err
	}
	detailID, err := productIDParam(c, "detailId")
	if err != nil {
		return err
	}
	tree, err := h.catalog.RemoveDetail(c.Request().Context(), productID, detailID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tree)
}

func (h *Handler) addProductTag(c echo.Context) error {
	productID, err := productIDParam(c, "productId")
	if err != nil {
		return err
	}
	tagID, err := tagIDParam(c)
	if err != nil {
		return err
	}
	tree, err := h.catalog.AddTag(c.Request().Context(), productID, tagID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tree)
}

func (h *Handler) removeProductTag(c echo.Context) error {
	productID, err := productIDParam(c, "productId")
	if err != nil {
		return err
	}
	tagID, err := tagIDParam(c)
	if err != nil {
		return err
	}
	tree, err := h.catalog.RemoveTag(c.Request().Context(), productID, tagID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tree)
}

func (h *Handler) estimate(c echo.Context) error {
	id, err := productIDParam(c, "productId")
	if err != nil {
		return err
	}
	var req estimateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Quantity == nil {
		return required("quantity")
	}

	estimate, err := h.estimator.Estimate(c.Request().Context(), id, *req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, estimate)
}

// changeStock applies a production (positive) or consumption (negative).
// An infeasible change is a normal outcome and answers 200 with success false.
func (h *Handler) changeStock(c echo.Context) error {
	id, err := productIDParam(c, "productId")
	if err != nil {
		return err
	}
	var req stockChangeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Change == nil {
		return required("change")
	}

	result, err := h.mutator.Apply(c.Request().Context(), id, *req.Change)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) productMovements(c echo.Context) error {
	id, err := productIDParam(c, "productId")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.catalog.Product(ctx, id); err != nil {
		return err
	}
	movements, err := h.catalog.Movements(ctx, string(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movements)
}

func (h *Handler) validateBOM(c echo.Context) error {
	result, err := h.catalog.ValidateBOM(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
