package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

func (h *Handler) listMaterials(c echo.Context) error {
	materials, err := h.catalog.ListMaterials(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, materials)
}

func (h *Handler) createMaterial(c echo.Context) error {
	var req materialRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Article == nil {
		return required("article")
	}

	m := &entities.Material{}
	req.apply(m, true)
	created, err := h.catalog.CreateMaterial(c.Request().Context(), m)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) getMaterial(c echo.Context) error {
	id, err := materialIDParam(c)
	if err != nil {
		return err
	}
	m, err := h.catalog.GetMaterial(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) editMaterial(c echo.Context) error {
	id, err := materialIDParam(c)
	if err != nil {
		return err
	}
	var req materialRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.empty() {
		return errInvalidBody
	}

	ctx := c.Request().Context()
	m, err := h.catalog.GetMaterial(ctx, id)
	if err != nil {
		return err
	}
	req.apply(m, false)
	updated, err := h.catalog.UpdateMaterial(ctx, m)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteMaterial(c echo.Context) error {
	id, err := materialIDParam(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteMaterial(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) adjustMaterialStock(c echo.Context) error {
	id, err := materialIDParam(c)
	if err != nil {
		return err
	}
	var req stockDeltaRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Ordinary == nil && req.Improved == nil {
		return errInvalidBody
	}

	var delta entities.StockDelta
	if req.Ordinary != nil {
		delta.Ordinary = *req.Ordinary
	}
	if req.Improved != nil {
		delta.Improved = *req.Improved
	}
	m, err := h.mutator.AdjustMaterial(c.Request().Context(), id, delta)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) materialMovements(c echo.Context) error {
	id, err := materialIDParam(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.catalog.GetMaterial(ctx, id); err != nil {
		return err
	}
	movements, err := h.catalog.Movements(ctx, string(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movements)
}
