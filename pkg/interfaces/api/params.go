package api

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

// idParam reads a path id and rejects anything that is not a uuid
func idParam(c echo.Context, name string) (string, error) {
	id := c.Param(name)
	if id == "" {
		return "", badRequest(fmt.Sprintf("parameter '%s' required", name))
	}
	if !entities.ValidID(id) {
		return "", badRequest("invalid id")
	}
	return id, nil
}

func materialIDParam(c echo.Context) (entities.MaterialID, error) {
	id, err := idParam(c, "materialId")
	return entities.MaterialID(id), err
}

func productIDParam(c echo.Context, name string) (entities.ProductID, error) {
	id, err := idParam(c, name)
	return entities.ProductID(id), err
}

func tagIDParam(c echo.Context) (entities.TagID, error) {
	id, err := idParam(c, "tagId")
	return entities.TagID(id), err
}

func required(field string) error {
	return badRequest(fmt.Sprintf("field '%s' is required", field))
}

var errInvalidBody = badRequest("invalid body")
