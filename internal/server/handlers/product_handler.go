package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ledger/internal/domain/models"
	"github.com/mamadbah2/ledger/internal/service/records"
)

// ProductHandler serves the product catalog endpoints.
type ProductHandler struct {
	svc    *records.Service
	logger *zap.Logger
}

// NewProductHandler constructs the catalog handler adapter.
func NewProductHandler(svc *records.Service, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{svc: svc, logger: logger}
}

// List returns the product catalog and the known units.
func (h *ProductHandler) List(c *gin.Context) {
	products, units, err := h.svc.Catalog(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "units": units})
}

// Add registers a product and ensures its unit exists.
func (h *ProductHandler) Add(c *gin.Context) {
	var req models.AddProductRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("invalid product payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	if err := h.svc.AddProduct(c.Request.Context(), req); err != nil {
		h.logger.Error("failed to add product", zap.String("name", req.Name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save product"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/products")
}
