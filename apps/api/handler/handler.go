package handler

import (
	"go-storefront/apps/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Handler 持有所有外部依赖，按请求分发
type Handler struct {
	db        *gorm.DB
	rdb       *redis.Client
	uploadDir string
}

func New(db *gorm.DB, rdb *redis.Client, uploadDir string) *Handler {
	return &Handler{db: db, rdb: rdb, uploadDir: uploadDir}
}

// RegisterRoutes 挂载全部路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	// 公开接口
	{
		v1.POST("/auth/register", h.Register)
		v1.POST("/auth/login", h.Login)

		v1.GET("/products", h.ListProducts)
		v1.GET("/products/featured", h.ListFeaturedProducts)
		v1.GET("/products/:id", h.GetProduct)
		v1.GET("/categories", h.ListCategories)
	}

	// 登录后接口
	authed := v1.Group("/", middleware.AuthRequired())
	{
		authed.GET("/auth/me", h.Me)
		authed.PUT("/auth/password", h.UpdatePassword)

		authed.GET("/cart", h.GetCart)
		authed.POST("/cart/items", h.AddCartItem)
		authed.PUT("/cart/items/:productId", h.UpdateCartItem)
		authed.DELETE("/cart/items/:productId", h.RemoveCartItem)
		authed.DELETE("/cart", h.ClearCart)

		authed.POST("/orders", h.CreateOrder)
		authed.GET("/orders", h.ListMyOrders)
		authed.GET("/orders/:id", h.GetOrder)

		authed.POST("/orders/:id/files", h.UploadOrderFile)
		authed.GET("/orders/:id/files", h.ListOrderFiles)
		authed.GET("/orders/:id/files/:fileId", h.DownloadOrderFile)
		authed.DELETE("/orders/:id/files/:fileId", h.DeleteOrderFile)
	}

	// 管理端接口，整组要求 ADMIN 角色
	admin := v1.Group("/admin", middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/dashboard", h.Dashboard)

		admin.GET("/products", h.AdminListProducts)
		admin.POST("/products", h.AdminCreateProduct)
		admin.GET("/products/:id", h.AdminGetProduct)
		admin.PUT("/products/:id", h.AdminUpdateProduct)
		admin.DELETE("/products/:id", h.AdminDeleteProduct)

		admin.GET("/categories", h.AdminListCategories)
		admin.POST("/categories", h.AdminCreateCategory)
		admin.PUT("/categories/:id", h.AdminUpdateCategory)
		admin.DELETE("/categories/:id", h.AdminDeleteCategory)

		admin.GET("/orders", h.AdminListOrders)
		admin.GET("/orders/:id", h.AdminGetOrder)
		admin.PATCH("/orders/:id/status", h.AdminUpdateOrderStatus)
		admin.GET("/orders/:id/files/:fileId", h.AdminDownloadOrderFile)

		admin.GET("/users", h.AdminListUsers)
		admin.DELETE("/users/:id", h.AdminDeleteUser)
		admin.PATCH("/users/:id/status", h.AdminToggleUser)
	}
}
