package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"go-storefront/apps/api/middleware"
	"go-storefront/apps/api/model"
	"go-storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

// 购物车存 Redis Hash：key=cart:{userId}，field=productId，value=数量
// 结账不读购物车，下单接口带完整的商品清单
func cartKey(userID int64) string {
	return fmt.Sprintf("cart:%d", userID)
}

type cartItemView struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Stock     int     `json:"stock"`
	Quantity  int     `json:"quantity"`
}

// GetCart 购物车列表，实时关联商品现价和库存
func (h *Handler) GetCart(c *gin.Context) {
	userID := middleware.UserID(c)

	val, err := h.rdb.HGetAll(c.Request.Context(), cartKey(userID)).Result()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Redis error")
		return
	}

	items := make([]cartItemView, 0, len(val))
	var totalPrice float64
	for k, v := range val {
		productID, _ := strconv.ParseInt(k, 10, 64)
		quantity, _ := strconv.Atoi(v)

		var p model.Product
		if err := h.db.First(&p, productID).Error; err != nil {
			// 商品已被删除，顺手清掉这条
			h.rdb.HDel(c.Request.Context(), cartKey(userID), k)
			continue
		}
		items = append(items, cartItemView{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Image:     p.Image,
			Stock:     p.Stock,
			Quantity:  quantity,
		})
		totalPrice += p.Price * float64(quantity)
	}

	response.Success(c, gin.H{"items": items, "totalPrice": totalPrice})
}

type addCartItemReq struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// AddCartItem 加购，数量累加
func (h *Handler) AddCartItem(c *gin.Context) {
	var req addCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid json")
		return
	}
	if req.Quantity <= 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "quantity must be positive")
		return
	}

	var p model.Product
	if err := h.db.First(&p, req.ProductID).Error; err != nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Product not found")
		return
	}

	userID := middleware.UserID(c)
	field := strconv.FormatInt(req.ProductID, 10)
	if err := h.rdb.HIncrBy(c.Request.Context(), cartKey(userID), field, int64(req.Quantity)).Err(); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Redis error")
		return
	}

	response.Success(c, gin.H{"message": "Item added to cart"})
}

type updateCartItemReq struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem 直接覆盖数量，<=0 等价于删除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid id")
		return
	}
	var req updateCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid json")
		return
	}

	userID := middleware.UserID(c)
	field := strconv.FormatInt(productID, 10)

	if req.Quantity <= 0 {
		if err := h.rdb.HDel(c.Request.Context(), cartKey(userID), field).Err(); err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Redis error")
			return
		}
		response.Success(c, gin.H{"message": "Item removed from cart"})
		return
	}

	if err := h.rdb.HSet(c.Request.Context(), cartKey(userID), field, req.Quantity).Err(); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Redis error")
		return
	}
	response.Success(c, gin.H{"message": "Cart updated"})
}

// RemoveCartItem 删除一条
func (h *Handler) RemoveCartItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid id")
		return
	}

	userID := middleware.UserID(c)
	field := strconv.FormatInt(productID, 10)
	if err := h.rdb.HDel(c.Request.Context(), cartKey(userID), field).Err(); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Redis error")
		return
	}
	response.Success(c, gin.H{"message": "Item removed from cart"})
}

// ClearCart 清空
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.rdb.Del(c.Request.Context(), cartKey(middleware.UserID(c))).Err(); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Redis delete error")
		return
	}
	response.Success(c, gin.H{"message": "Cart cleared"})
}
