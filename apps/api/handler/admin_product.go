package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go-storefront/apps/api/model"
	"go-storefront/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminListProducts 后台商品列表：搜索/分类/排序，不分页 (后台表格一次拉全量)
func (h *Handler) AdminListProducts(c *gin.Context) {
	query := h.db.Model(&model.Product{})

	if v := c.Query("search"); v != "" {
		like := "%" + v + "%"
		query = query.Where("name LIKE ? OR description LIKE ? OR sku LIKE ?", like, like, like)
	}
	if v := c.Query("category"); v != "" {
		query = query.Where("category_id = ?", v)
	}

	order := "created_at DESC"
	switch c.DefaultQuery("sort", "newest") {
	case "name":
		order = "name ASC"
	case "price-low":
		order = "price ASC"
	case "price-high":
		order = "price DESC"
	case "stock":
		order = "stock ASC"
	}

	var products []model.Product
	if err := query.Preload("Category").Order(order).Find(&products).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to fetch products")
		return
	}

	response.Success(c, gin.H{"products": products})
}

type productReq struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Sku         string   `json:"sku"`
	Featured    bool     `json:"featured"`
	CategoryID  int64    `json:"categoryId"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
}

// validateProductReq 校验必填项和分类是否存在，excludeID 用于更新时跳过自身的 SKU 查重
// 返回 false 时已经写好了错误响应
func (h *Handler) validateProductReq(c *gin.Context, req *productReq, excludeID int64) bool {
	if req.Name == "" || req.Price <= 0 || req.CategoryID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "Name, price, and category are required")
		return false
	}

	// SKU 查重
	if req.Sku != "" {
		var cnt int64
		q := h.db.Model(&model.Product{}).Where("sku = ?", req.Sku)
		if excludeID > 0 {
			q = q.Where("id <> ?", excludeID)
		}
		q.Count(&cnt)
		if cnt > 0 {
			response.Error(c, http.StatusConflict, response.CodeConflict, "Product with this SKU already exists")
			return false
		}
	}

	// 分类必须存在
	var cat model.Category
	if err := h.db.First(&cat, req.CategoryID).Error; err != nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Category not found")
		return false
	}
	return true
}

func marshalImages(images []string) string {
	if len(images) == 0 {
		return ""
	}
	b, _ := json.Marshal(images)
	return string(b)
}

// AdminCreateProduct 新建商品
func (h *Handler) AdminCreateProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid json")
		return
	}
	if !h.validateProductReq(c, &req, 0) {
		return
	}

	p := model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Sku:         req.Sku,
		Featured:    req.Featured,
		CategoryID:  req.CategoryID,
		Image:       req.Image,
		Images:      marshalImages(req.Images),
	}
	if err := h.db.Create(&p).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to create product")
		return
	}

	h.db.Preload("Category").First(&p, p.ID)
	response.Success(c, gin.H{"message": "Product created successfully", "product": p})
}

// AdminGetProduct 商品详情 (后台)
func (h *Handler) AdminGetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid id")
		return
	}

	var p model.Product
	if err := h.db.Preload("Category").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Database error")
		return
	}
	response.Success(c, gin.H{"product": p})
}

// AdminUpdateProduct 编辑商品 (库存也从这里改)
func (h *Handler) AdminUpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid id")
		return
	}

	var p model.Product
	if err := h.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Database error")
		return
	}

	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid json")
		return
	}
	if !h.validateProductReq(c, &req, id) {
		return
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"price":       req.Price,
		"stock":       req.Stock,
		"sku":         req.Sku,
		"featured":    req.Featured,
		"category_id": req.CategoryID,
		"image":       req.Image,
		"images":      marshalImages(req.Images),
	}
	if err := h.db.Model(&p).Updates(updates).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to update product")
		return
	}

	h.db.Preload("Category").First(&p, id)
	response.Success(c, gin.H{"message": "Product updated successfully", "product": p})
}

// AdminDeleteProduct 删除商品，有历史订单的不允许删
func (h *Handler) AdminDeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid id")
		return
	}

	var p model.Product
	if err := h.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Database error")
		return
	}

	var itemCount int64
	h.db.Model(&model.OrderItem{}).Where("product_id = ?", id).Count(&itemCount)
	if itemCount > 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "Cannot delete product with existing orders")
		return
	}

	if err := h.db.Delete(&p).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to delete product")
		return
	}
	response.Success(c, gin.H{"message": "Product deleted successfully"})
}
