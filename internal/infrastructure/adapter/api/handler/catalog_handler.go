package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/api/dto"
)

// CatalogHandler serves catalog reads and admin catalog edits
type CatalogHandler struct {
	catalog usecase.CatalogUseCase
	logger  coreport.Logger
}

// NewCatalogHandler creates a new catalog handler instance
func NewCatalogHandler(catalog usecase.CatalogUseCase, logger coreport.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// Products handles GET /catalog/products
func (h *CatalogHandler) Products(c *gin.Context) {
	products, err := h.catalog.Products(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "Error listing products", err, nil)
		return
	}
	c.JSON(http.StatusOK, products)
}

// ServerPlans handles GET /catalog/servers
func (h *CatalogHandler) ServerPlans(c *gin.Context) {
	plans, err := h.catalog.ServerPlans(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "Error listing server plans", err, nil)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// DigitalProducts handles GET /catalog/digital
func (h *CatalogHandler) DigitalProducts(c *gin.Context) {
	products, err := h.catalog.DigitalProducts(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "Error listing digital products", err, nil)
		return
	}
	c.JSON(http.StatusOK, products)
}

// SaveProduct handles PUT /admin/products/:productId
func (h *CatalogHandler) SaveProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	product := req.Entity(c.Param("productId"))
	if err := h.catalog.SaveProduct(c.Request.Context(), product); err != nil {
		writeError(c, h.logger, "Error saving product", err, map[string]any{"productId": product.ID})
		return
	}
	c.JSON(http.StatusOK, product)
}

// SaveServerPlan handles PUT /admin/servers/:planId
func (h *CatalogHandler) SaveServerPlan(c *gin.Context) {
	var req dto.ServerPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	plan := req.Entity(c.Param("planId"))
	if err := h.catalog.SaveServerPlan(c.Request.Context(), plan); err != nil {
		writeError(c, h.logger, "Error saving server plan", err, map[string]any{"planId": plan.ID})
		return
	}
	c.JSON(http.StatusOK, plan)
}

// CreateVoucher handles POST /admin/vouchers
func (h *CatalogHandler) CreateVoucher(c *gin.Context) {
	var req dto.VoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	voucher, err := entity.NewVoucher(req.Code, entity.DiscountType(req.DiscountType),
		req.DiscountValue, req.MinPurchase, req.MaxUsage, req.ExpiresAt)
	if err != nil {
		writeError(c, h.logger, "Invalid voucher", err, map[string]any{"code": req.Code})
		return
	}
	if err := h.catalog.CreateVoucher(c.Request.Context(), voucher); err != nil {
		writeError(c, h.logger, "Error creating voucher", err, map[string]any{"code": voucher.Code})
		return
	}
	c.JSON(http.StatusCreated, dto.NewVoucherResponse(voucher))
}
