package handler

import (
	"errors"
	"net/http"
	"strconv"

	"go-storefront/apps/api/model"
	"go-storefront/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminListCategories 分类列表 (后台)
func (h *Handler) AdminListCategories(c *gin.Context) {
	h.ListCategories(c)
}

type categoryReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AdminCreateCategory 新建分类
func (h *Handler) AdminCreateCategory(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid json")
		return
	}
	if req.Name == "" {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "Name is required")
		return
	}

	var cnt int64
	h.db.Model(&model.Category{}).Where("name = ?", req.Name).Count(&cnt)
	if cnt > 0 {
		response.Error(c, http.StatusConflict, response.CodeConflict, "Category with this name already exists")
		return
	}

	cat := model.Category{Name: req.Name, Description: req.Description}
	if err := h.db.Create(&cat).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to create category")
		return
	}
	response.Success(c, gin.H{"message": "Category created successfully", "category": cat})
}

// AdminUpdateCategory 编辑分类
func (h *Handler) AdminUpdateCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid id")
		return
	}

	var cat model.Category
	if err := h.db.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Category not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Database error")
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid json")
		return
	}
	if req.Name == "" {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "Name is required")
		return
	}

	updates := map[string]interface{}{"name": req.Name, "description": req.Description}
	if err := h.db.Model(&cat).Updates(updates).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to update category")
		return
	}
	response.Success(c, gin.H{"message": "Category updated successfully", "category": cat})
}

// AdminDeleteCategory 删除分类，下面还挂着商品的不允许删
func (h *Handler) AdminDeleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid id")
		return
	}

	var cat model.Category
	if err := h.db.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Category not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Database error")
		return
	}

	var productCount int64
	h.db.Model(&model.Product{}).Where("category_id = ?", id).Count(&productCount)
	if productCount > 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "Cannot delete category with existing products")
		return
	}

	if err := h.db.Delete(&cat).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to delete category")
		return
	}
	response.Success(c, gin.H{"message": "Category deleted successfully"})
}
