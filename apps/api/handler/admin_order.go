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

// AdminListOrders 后台订单列表：按单号/用户搜索、状态过滤、排序
func (h *Handler) AdminListOrders(c *gin.Context) {
	query := h.db.Model(&model.Order{})

	if v := c.Query("search"); v != "" {
		like := "%" + v + "%"
		query = query.Joins("LEFT JOIN users ON users.id = orders.user_id")
		// 纯数字的搜索词同时按订单 ID 精确匹配
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			query = query.Where("orders.id = ? OR orders.order_no LIKE ? OR users.name LIKE ? OR users.email LIKE ?", id, like, like, like)
		} else {
			query = query.Where("orders.order_no LIKE ? OR users.name LIKE ? OR users.email LIKE ?", like, like, like)
		}
	}
	if v := c.Query("status"); v != "" {
		query = query.Where("orders.status = ?", v)
	}

	order := "orders.created_at DESC"
	switch c.DefaultQuery("sort", "newest") {
	case "oldest":
		order = "orders.created_at ASC"
	case "total-high":
		order = "orders.total DESC"
	case "total-low":
		order = "orders.total ASC"
	}

	var orders []model.Order
	if err := query.Preload("User").Preload("Items.Product").
		Preload("Payments").Preload("Files").
		Order(order).Find(&orders).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to fetch orders")
		return
	}

	response.Success(c, gin.H{"orders": orders})
}

// AdminGetOrder 后台订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid id")
		return
	}

	var order model.Order
	if err := h.db.Preload("User").Preload("Items.Product").
		Preload("Payments").Preload("Files").
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Order not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Database error")
		return
	}
	response.Success(c, gin.H{"order": order})
}

type updateOrderStatusReq struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// AdminUpdateOrderStatus 修改订单状态
// 七种枚举值任意覆盖，不校验状态迁移的先后关系
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid id")
		return
	}

	var req updateOrderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid json")
		return
	}
	if req.Status == "" {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "Status is required")
		return
	}
	if !model.ValidOrderStatus(req.Status) {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "Invalid status")
		return
	}

	var order model.Order
	if err := h.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Order not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Database error")
		return
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if err := h.db.Model(&order).Updates(updates).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to update order status")
		return
	}

	h.db.Preload("User").Preload("Items.Product").Preload("Payments").Preload("Files").First(&order, id)
	response.Success(c, gin.H{"message": "Order status updated successfully", "order": order})
}
