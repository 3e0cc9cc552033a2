package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/vsinha/blacksmith/pkg/application/services/catalog"
	"github.com/vsinha/blacksmith/pkg/application/services/estimation"
	"github.com/vsinha/blacksmith/pkg/application/services/stock"
	"github.com/vsinha/blacksmith/pkg/infrastructure/metrics"
)

// Handler serves the catalog REST API
type Handler struct {
	catalog   *catalog.Service
	estimator *estimation.Estimator
	mutator   *stock.Mutator
}

// NewHandler creates the API handlers over the application services
func NewHandler(catalog *catalog.Service, estimator *estimation.Estimator, mutator *stock.Mutator) *Handler {
	return &Handler{catalog: catalog, estimator: estimator, mutator: mutator}
}

// NewRouter builds the echo instance with middleware and every route.
// m may be nil, in which case no metrics are recorded or served.
// Cross-origin requests are allowed from allowOrigins, or from any origin
// when none are given.
func NewRouter(h *Handler, log *zap.Logger, m *metrics.Metrics, allowOrigins ...string) *echo.Echo {
	if log == nil {
		log = zap.NewNop()
	}
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  allowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
		ExposeHeaders: []string{echo.HeaderXRequestID},
	}))
	e.Use(RequestID(log))
	e.Use(RequestLogger())
	if m != nil {
		e.Use(Metrics(m))
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/material", h.listMaterials)
	e.POST("/material", h.createMaterial)
	e.GET("/material/:materialId", h.getMaterial)
	e.PUT("/material/:materialId", h.editMaterial)
	e.DELETE("/material/:materialId", h.deleteMaterial)
	e.POST("/material/:materialId/stock", h.adjustMaterialStock)
	e.GET("/material/:materialId/movements", h.materialMovements)

	e.GET("/tag", h.listTags)
	e.POST("/tag", h.createTag)
	e.GET("/tag/:tagId", h.getTag)
	e.PUT("/tag/:tagId", h.editTag)
	e.DELETE("/tag/:tagId", h.deleteTag)

	e.GET("/product", h.listProducts)
	e.POST("/product", h.createProduct)
	e.GET("/product/:productId", h.getProduct)
	e.PUT("/product/:productId", h.editProduct)
	e.DELETE("/product/:productId", h.deleteProduct)

	e.POST("/product/:productId/material/:materialId", h.addProductMaterial)
	e.PUT("/product/:productId/material/:materialId", h.editProductMaterial)
	e.DELETE("/product/:productId/material/:materialId", h.removeProductMaterial)

	e.POST("/product/:productId/detail/:detailId", h.addProductDetail)
	e.PUT("/product/:productId/detail/:detailId", h.editProductDetail)
	e.DELETE("/product/:productId/detail/:detailId", h.removeProductDetail)

	e.POST("/product/:productId/tag/:tagId", h.addProductTag)
	e.DELETE("/product/:productId/tag/:tagId", h.removeProductTag)

	e.POST("/product/:productId/estimate", h.estimate)
	e.POST("/product/:productId/stock", h.changeStock)
	e.GET("/product/:productId/movements", h.productMovements)
	e.GET("/bom/validate", h.validateBOM)

	return e
}
