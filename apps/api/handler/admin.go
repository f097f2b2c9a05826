package handler

import (
	"net/http"
	"strconv"

	"go-storefront/apps/api/model"
	"go-storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

// Dashboard 后台首页汇总数据
func (h *Handler) Dashboard(c *gin.Context) {
	var totalProducts, totalOrders, totalUsers int64
	h.db.Model(&model.Product{}).Count(&totalProducts)
	h.db.Model(&model.Order{}).Count(&totalOrders)
	h.db.Model(&model.User{}).Count(&totalUsers)

	// 营收只统计已发货/已送达的订单
	var totalRevenue float64
	h.db.Model(&model.Order{}).
		Where("status IN ?", []string{model.OrderStatusShipped, model.OrderStatusDelivered}).
		Select("COALESCE(SUM(total), 0)").Scan(&totalRevenue)

	var recentOrders []model.Order
	h.db.Preload("User").Order("created_at DESC").Limit(10).Find(&recentOrders)

	// 低库存预警 (少于 10 件)
	var lowStockProducts []model.Product
	h.db.Where("stock < ?", 10).Order("stock ASC").Limit(10).Find(&lowStockProducts)

	response.Success(c, gin.H{
		"totalProducts":    totalProducts,
		"totalOrders":      totalOrders,
		"totalUsers":       totalUsers,
		"totalRevenue":     totalRevenue,
		"recentOrders":     recentOrders,
		"lowStockProducts": lowStockProducts,
	})
}

// AdminListUsers 用户分页列表
func (h *Handler) AdminListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	h.db.Model(&model.User{}).Count(&total)

	var users []model.User
	if err := h.db.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&users).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to fetch users")
		return
	}

	response.Success(c, gin.H{
		"users":      users,
		"pagination": paginationMeta(page, limit, total),
	})
}

// AdminDeleteUser 删除用户 (硬删除)
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid id")
		return
	}

	res := h.db.Delete(&model.User{}, id)
	if res.Error != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to delete user")
		return
	}
	if res.RowsAffected == 0 {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "User not found")
		return
	}
	response.Success(c, gin.H{"message": "User deleted successfully"})
}

type toggleUserReq struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// AdminToggleUser 禁用/启用账号
func (h *Handler) AdminToggleUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid id")
		return
	}
	var req toggleUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "disabled field is required")
		return
	}

	res := h.db.Model(&model.User{}).Where("id = ?", id).Update("is_disabled", *req.Disabled)
	if res.Error != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to update user")
		return
	}
	if res.RowsAffected == 0 {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "User not found")
		return
	}
	response.Success(c, gin.H{"message": "User status updated"})
}
