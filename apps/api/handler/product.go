package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"go-storefront/apps/api/model"
	"go-storefront/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListProducts 商品列表：筛选 + 排序 + 分页
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}

	query := h.db.Model(&model.Product{})

	if v := c.Query("categoryId"); v != "" {
		query = query.Where("category_id = ?", v)
	}
	if v := c.Query("search"); v != "" {
		like := "%" + v + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if v := c.Query("minPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			query = query.Where("price >= ?", p)
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			query = query.Where("price <= ?", p)
		}
	}
	if c.Query("featured") == "true" {
		query = query.Where("featured = ?", true)
	}

	// 排序键映射到 列+方向
	order := "created_at DESC"
	switch c.DefaultQuery("sortBy", "newest") {
	case "price-low":
		order = "price ASC"
	case "price-high":
		order = "price DESC"
	case "name":
		order = "name ASC"
	}

	var total int64
	query.Count(&total)

	var products []model.Product
	if err := query.Preload("Category").Order(order).
		Offset((page - 1) * limit).Limit(limit).Find(&products).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to fetch products")
		return
	}

	response.Success(c, gin.H{
		"products":   products,
		"pagination": paginationMeta(page, limit, total),
	})
}

// ListFeaturedProducts 精选商品：featured 且有库存，最多 8 个
func (h *Handler) ListFeaturedProducts(c *gin.Context) {
	var products []model.Product
	if err := h.db.Preload("Category").
		Where("featured = ? AND stock > 0", true).
		Order("created_at DESC").Limit(8).Find(&products).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to fetch products")
		return
	}
	response.Success(c, gin.H{"products": products, "count": len(products)})
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
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

type categoryWithCount struct {
	model.Category
	ProductCount int64 `json:"productCount"`
}

// ListCategories 分类列表，附带商品数
func (h *Handler) ListCategories(c *gin.Context) {
	var categories []model.Category
	if err := h.db.Order("name ASC").Find(&categories).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to fetch categories")
		return
	}

	result := make([]categoryWithCount, 0, len(categories))
	for _, cat := range categories {
		var cnt int64
		h.db.Model(&model.Product{}).Where("category_id = ?", cat.ID).Count(&cnt)
		result = append(result, categoryWithCount{Category: cat, ProductCount: cnt})
	}

	response.Success(c, gin.H{"categories": result, "count": len(result)})
}

type pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

func paginationMeta(page, limit int, total int64) pagination {
	return pagination{
		Page:       page,
		Limit:      limit,
		TotalCount: total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}
