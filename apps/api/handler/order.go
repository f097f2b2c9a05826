package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go-storefront/apps/api/middleware"
	"go-storefront/apps/api/model"
	"go-storefront/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderItemReq struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"` // 下单时价格，直接信任前端传值，服务端不重算
}

type createOrderReq struct {
	Items           []orderItemReq `json:"items"`
	ShippingAddress string         `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
	Subtotal        float64        `json:"subtotal"`
	Tax             float64        `json:"tax"`
	Shipping        float64        `json:"shipping"`
	Total           float64        `json:"total"`
	Notes           string         `json:"notes"`
}

var errInsufficientStock = errors.New("insufficient stock")

// CreateOrder 下单核心逻辑：要么 订单+明细+支付记录+扣库存 全部落库，要么什么都不留
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid json")
		return
	}

	// 空清单在任何查询之前就拒绝
	if len(req.Items) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "Order items are required")
		return
	}
	if req.ShippingAddress == "" || req.PaymentMethod == "" {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "Shipping address and payment method are required")
		return
	}
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "Invalid payment method")
		return
	}
	for _, it := range req.Items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "Invalid order item")
			return
		}
	}

	// 1. 批量查出所有商品，做预检查
	// 预检查只是提前给出友好报错，真正的保障是事务里的条件扣减
	ids := make([]int64, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.ProductID)
	}
	var products []model.Product
	if err := h.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Database error")
		return
	}
	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, it := range req.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, fmt.Sprintf("Product %d not found", it.ProductID))
			return
		}
		if p.Stock < it.Quantity {
			response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, fmt.Sprintf("Insufficient stock for product %s", p.Name))
			return
		}
	}

	userID := middleware.UserID(c)

	// 2. 单个事务内完成 订单/明细/支付/扣库存，任一步失败全部回滚
	var order model.Order
	err := h.db.Transaction(func(tx *gorm.DB) error {
		order = model.Order{
			OrderNo:         uuid.New().String(),
			UserID:          userID,
			Status:          model.OrderStatusPending,
			Subtotal:        req.Subtotal,
			Tax:             req.Tax,
			Shipping:        req.Shipping,
			Total:           req.Total,
			ShippingAddress: req.ShippingAddress,
			Notes:           req.Notes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, it := range req.Items {
			item := model.OrderItem{
				OrderID:   order.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Price, // 下单时价格快照
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		payment := model.Payment{
			OrderID: order.ID,
			Amount:  req.Total,
			Method:  req.PaymentMethod,
			Status:  model.PaymentStatusPending,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		// 条件扣减：stock >= quantity 才会命中，防止并发把库存扣成负数
		// 同一商品出现多次就是多次独立扣减，每次都带守卫
		for _, it := range req.Items {
			res := tx.Model(&model.Product{}).
				Where("id = ? AND stock >= ?", it.ProductID, it.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errInsufficientStock
			}
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, errInsufficientStock) {
			response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "Insufficient stock")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to create order")
		return
	}

	// 回读带明细的订单返回给前端
	h.db.Preload("Items").Preload("Payments").First(&order, order.ID)

	response.Created(c, gin.H{
		"message": "Order created successfully",
		"orderId": order.ID,
		"orderNo": order.OrderNo,
		"order":   order,
	})
}

// ListMyOrders 本人订单分页列表
func (h *Handler) ListMyOrders(c *gin.Context) {
	userID := middleware.UserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var total int64
	h.db.Model(&model.Order{}).Where("user_id = ?", userID).Count(&total)

	var orders []model.Order
	if err := h.db.Where("user_id = ?", userID).
		Preload("Items.Product").Preload("Payments").Preload("Files").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to fetch orders")
		return
	}

	response.Success(c, gin.H{
		"orders":     orders,
		"pagination": paginationMeta(page, limit, total),
	})
}

// GetOrder 订单详情，本人或管理员可见
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid id")
		return
	}

	var order model.Order
	if err := h.db.Preload("Items.Product").Preload("Payments").Preload("Files").
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Order not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Database error")
		return
	}

	if !middleware.IsAdmin(c) && order.UserID != middleware.UserID(c) {
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Forbidden")
		return
	}

	response.Success(c, gin.H{"order": order})
}
