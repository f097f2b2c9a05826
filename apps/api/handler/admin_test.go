package handler

import (
	"fmt"
	"net/http"
	"testing"

	"go-storefront/apps/api/model"

	"github.com/stretchr/testify/require"
)

func TestAdminRoutes_RoleGate(t *testing.T) {
	e := newTestEnv(t)
	_, buyerToken := e.createUser(t, "Buyer", "buyer@example.com", model.RoleBuyer)

	// 未登录 401
	w := e.doJSON(t, http.MethodGet, "/api/v1/admin/dashboard", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "AUTH_REQUIRED", decodeBody(t, w)["code"])

	// 买家 403
	w = e.doJSON(t, http.MethodGet, "/api/v1/admin/dashboard", buyerToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "FORBIDDEN", decodeBody(t, w)["code"])
}

func TestAdminUpdateOrderStatus_AllValues(t *testing.T) {
	e := newTestEnv(t)
	buyer, _ := e.createUser(t, "Buyer", "buyer@example.com", model.RoleBuyer)
	_, adminToken := e.createUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	order := e.createOrder(t, buyer.ID)
	path := fmt.Sprintf("/api/v1/admin/orders/%d/status", order.ID)

	// 七种合法值都可以随意覆盖，不管当前处于哪个状态
	statuses := []string{
		model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusProcessing,
		model.OrderStatusShipped, model.OrderStatusDelivered, model.OrderStatusCancelled,
		model.OrderStatusRefunded,
	}
	for _, s := range statuses {
		w := e.doJSON(t, http.MethodPatch, path, adminToken, map[string]any{"status": s})
		require.Equal(t, http.StatusOK, w.Code, "status %s: %s", s, w.Body.String())

		var got model.Order
		e.db.First(&got, order.ID)
		require.Equal(t, s, got.Status)
	}

	// 倒退也允许：DELIVERED 之后还能回 PENDING
	w := e.doJSON(t, http.MethodPatch, path, adminToken, map[string]any{"status": model.OrderStatusPending})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminUpdateOrderStatus_Invalid(t *testing.T) {
	e := newTestEnv(t)
	buyer, _ := e.createUser(t, "Buyer", "buyer@example.com", model.RoleBuyer)
	_, adminToken := e.createUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	order := e.createOrder(t, buyer.ID)
	path := fmt.Sprintf("/api/v1/admin/orders/%d/status", order.ID)

	w := e.doJSON(t, http.MethodPatch, path, adminToken, map[string]any{"status": "SHIPPING"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "VALIDATION_FAILED", decodeBody(t, w)["code"])

	w = e.doJSON(t, http.MethodPatch, path, adminToken, map[string]any{"status": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 状态保持原值
	var got model.Order
	e.db.First(&got, order.ID)
	require.Equal(t, model.OrderStatusPending, got.Status)

	w = e.doJSON(t, http.MethodPatch, "/api/v1/admin/orders/9999/status", adminToken,
		map[string]any{"status": model.OrderStatusShipped})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminUpdateOrderStatus_Notes(t *testing.T) {
	e := newTestEnv(t)
	buyer, _ := e.createUser(t, "Buyer", "buyer@example.com", model.RoleBuyer)
	_, adminToken := e.createUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	order := e.createOrder(t, buyer.ID)
	path := fmt.Sprintf("/api/v1/admin/orders/%d/status", order.ID)

	notes := "tracking no. 12345"
	w := e.doJSON(t, http.MethodPatch, path, adminToken, map[string]any{
		"status": model.OrderStatusShipped, "notes": notes,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got model.Order
	e.db.First(&got, order.ID)
	require.Equal(t, notes, got.Notes)

	// 不带 notes 字段的更新不动已有备注
	w = e.doJSON(t, http.MethodPatch, path, adminToken, map[string]any{"status": model.OrderStatusDelivered})
	require.Equal(t, http.StatusOK, w.Code)
	e.db.First(&got, order.ID)
	require.Equal(t, notes, got.Notes)
}

func TestDashboard(t *testing.T) {
	e := newTestEnv(t)
	buyer, _ := e.createUser(t, "Buyer", "buyer@example.com", model.RoleBuyer)
	_, adminToken := e.createUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	cat := e.createCategory(t, "Shoes")
	e.createProduct(t, "Running Shoes", "RS-001", 129.99, 3, cat.ID)
	e.createProduct(t, "Sandals", "SA-001", 49.99, 50, cat.ID)

	// 营收只算 SHIPPED/DELIVERED
	shipped := e.createOrder(t, buyer.ID)
	e.db.Model(&model.Order{}).Where("id = ?", shipped.ID).
		Updates(map[string]any{"status": model.OrderStatusShipped, "total": 200.0})
	delivered := e.createOrder(t, buyer.ID)
	e.db.Model(&model.Order{}).Where("id = ?", delivered.ID).
		Updates(map[string]any{"status": model.OrderStatusDelivered, "total": 50.0})
	e.createOrder(t, buyer.ID) // PENDING, total 100，不计入营收

	w := e.doJSON(t, http.MethodGet, "/api/v1/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.EqualValues(t, 2, body["totalProducts"])
	require.EqualValues(t, 3, body["totalOrders"])
	require.EqualValues(t, 2, body["totalUsers"])
	require.InDelta(t, 250.0, body["totalRevenue"].(float64), 0.001)
	require.Len(t, body["recentOrders"].([]any), 3)

	// 低库存只有 RS-001 (库存 3 < 10)
	lowStock := body["lowStockProducts"].([]any)
	require.Len(t, lowStock, 1)
	require.Equal(t, "Running Shoes", lowStock[0].(map[string]any)["name"])
}

func TestAdminProductCRUD(t *testing.T) {
	e := newTestEnv(t)
	_, adminToken := e.createUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	cat := e.createCategory(t, "Shoes")

	// 创建
	w := e.doJSON(t, http.MethodPost, "/api/v1/admin/products", adminToken, map[string]any{
		"name": "Running Shoes", "description": "desc", "price": 129.99,
		"stock": 10, "sku": "RS-001", "featured": true, "categoryId": cat.ID,
		"images": []string{"a.jpg", "b.jpg"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decodeBody(t, w)["product"].(map[string]any)
	productID := int64(created["id"].(float64))

	// SKU 重复 409
	w = e.doJSON(t, http.MethodPost, "/api/v1/admin/products", adminToken, map[string]any{
		"name": "Other", "price": 1.0, "sku": "RS-001", "categoryId": cat.ID,
	})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "CONFLICT", decodeBody(t, w)["code"])

	// 更新自己保留同 SKU 不算冲突
	path := fmt.Sprintf("/api/v1/admin/products/%d", productID)
	w = e.doJSON(t, http.MethodPut, path, adminToken, map[string]any{
		"name": "Running Shoes v2", "price": 139.99, "stock": 7, "sku": "RS-001", "categoryId": cat.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var p model.Product
	e.db.First(&p, productID)
	require.Equal(t, "Running Shoes v2", p.Name)
	require.Equal(t, 139.99, p.Price)
	require.Equal(t, 7, p.Stock)

	// 缺必填项 400
	w = e.doJSON(t, http.MethodPost, "/api/v1/admin/products", adminToken, map[string]any{
		"name": "No price", "categoryId": cat.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 分类不存在 404
	w = e.doJSON(t, http.MethodPost, "/api/v1/admin/products", adminToken, map[string]any{
		"name": "X", "price": 1.0, "categoryId": 9999,
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	// 删除
	w = e.doJSON(t, http.MethodDelete, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cnt int64
	e.db.Model(&model.Product{}).Count(&cnt)
	require.Zero(t, cnt)

	// 原来占用的 SKU 删除后可以重新使用
	w = e.doJSON(t, http.MethodPost, "/api/v1/admin/products", adminToken, map[string]any{
		"name": "Running Shoes reissue", "price": 119.99, "sku": "RS-001", "categoryId": cat.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAdminDeleteProduct_WithOrdersBlocked(t *testing.T) {
	e := newTestEnv(t)
	buyer, _ := e.createUser(t, "Buyer", "buyer@example.com", model.RoleBuyer)
	_, adminToken := e.createUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	cat := e.createCategory(t, "Shoes")
	p := e.createProduct(t, "Running Shoes", "RS-001", 129.99, 10, cat.ID)

	order := e.createOrder(t, buyer.ID)
	require.NoError(t, e.db.Create(&model.OrderItem{
		OrderID: order.ID, ProductID: p.ID, Quantity: 1, Price: 129.99,
	}).Error)

	w := e.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/products/%d", p.ID), adminToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var cnt int64
	e.db.Model(&model.Product{}).Count(&cnt)
	require.EqualValues(t, 1, cnt)
}

func TestAdminCategoryCRUD(t *testing.T) {
	e := newTestEnv(t)
	_, adminToken := e.createUser(t, "Admin", "admin@example.com", model.RoleAdmin)

	w := e.doJSON(t, http.MethodPost, "/api/v1/admin/categories", adminToken, map[string]any{
		"name": "Shoes", "description": "Footwear",
	})
	require.Equal(t, http.StatusOK, w.Code)
	created := decodeBody(t, w)["category"].(map[string]any)
	catID := int64(created["id"].(float64))

	// 重名 409
	w = e.doJSON(t, http.MethodPost, "/api/v1/admin/categories", adminToken, map[string]any{"name": "Shoes"})
	require.Equal(t, http.StatusConflict, w.Code)

	// 编辑
	path := fmt.Sprintf("/api/v1/admin/categories/%d", catID)
	w = e.doJSON(t, http.MethodPut, path, adminToken, map[string]any{"name": "Footwear"})
	require.Equal(t, http.StatusOK, w.Code)

	// 挂着商品时不允许删
	e.createProduct(t, "Running Shoes", "RS-001", 129.99, 10, catID)
	w = e.doJSON(t, http.MethodDelete, path, adminToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 商品清掉之后可以删
	e.db.Where("category_id = ?", catID).Delete(&model.Product{})
	w = e.doJSON(t, http.MethodDelete, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminListOrders_SearchAndFilter(t *testing.T) {
	e := newTestEnv(t)
	buyer, _ := e.createUser(t, "Alice Buyer", "alice@example.com", model.RoleBuyer)
	other, _ := e.createUser(t, "Bob Buyer", "bob@example.com", model.RoleBuyer)
	_, adminToken := e.createUser(t, "Admin", "admin@example.com", model.RoleAdmin)

	o1 := e.createOrder(t, buyer.ID)
	e.db.Model(&model.Order{}).Where("id = ?", o1.ID).Update("status", model.OrderStatusShipped)
	e.createOrder(t, other.ID)

	// 按状态过滤
	w := e.doJSON(t, http.MethodGet, "/api/v1/admin/orders?status=SHIPPED", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decodeBody(t, w)["orders"].([]any)
	require.Len(t, orders, 1)

	// 按用户邮箱搜索
	w = e.doJSON(t, http.MethodGet, "/api/v1/admin/orders?search=bob@", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders = decodeBody(t, w)["orders"].([]any)
	require.Len(t, orders, 1)

	// 不过滤拉全量
	w = e.doJSON(t, http.MethodGet, "/api/v1/admin/orders", adminToken, nil)
	orders = decodeBody(t, w)["orders"].([]any)
	require.Len(t, orders, 2)
}

func TestAdminUserManagement(t *testing.T) {
	e := newTestEnv(t)
	target, _ := e.createUser(t, "Target", "target@example.com", model.RoleBuyer)
	_, adminToken := e.createUser(t, "Admin", "admin@example.com", model.RoleAdmin)

	w := e.doJSON(t, http.MethodGet, "/api/v1/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeBody(t, w)["users"].([]any), 2)

	// 禁用
	path := fmt.Sprintf("/api/v1/admin/users/%d/status", target.ID)
	w = e.doJSON(t, http.MethodPatch, path, adminToken, map[string]any{"disabled": true})
	require.Equal(t, http.StatusOK, w.Code)

	var got model.User
	e.db.First(&got, target.ID)
	require.True(t, got.IsDisabled)

	// disabled 字段缺失 400
	w = e.doJSON(t, http.MethodPatch, path, adminToken, map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 删除
	w = e.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d", target.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d", target.ID), adminToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
