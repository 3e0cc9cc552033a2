package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

func (h *Handler) listTags(c echo.Context) error {
	tags, err := h.catalog.ListTags(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *Handler) createTag(c echo.Context) error {
	var req tagRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Name == nil {
		return required("name")
	}
	tag, err := h.catalog.CreateTag(c.Request().Context(), &entities.Tag{Name: *req.Name})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tag)
}

func (h *Handler) getTag(c echo.Context) error {
	id, err := tagIDParam(c)
	if err != nil {
		return err
	}
	tag, err := h.catalog.GetTag(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tag)
}

func (h *Handler) editTag(c echo.Context) error {
	id, err := tagIDParam(c)
	if err != nil {
		return err
	}
	var req tagRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Name == nil {
		return errInvalidBody
	}
	tag, err := h.catalog.UpdateTag(c.Request().Context(), &entities.Tag{ID: id, Name: *req.Name})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tag)
}

func (h *Handler) deleteTag(c echo.Context) error {
	id, err := tagIDParam(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteTag(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
