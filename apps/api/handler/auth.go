package handler

import (
	"errors"
	"net/http"

	"go-storefront/apps/api/middleware"
	"go-storefront/apps/api/model"
	"go-storefront/pkg/jwt"
	"go-storefront/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register 注册，角色在创建时固定 (BUYER/ADMIN)
func (h *Handler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid json")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "Missing required fields")
		return
	}
	if req.Role != model.RoleBuyer && req.Role != model.RoleAdmin {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "Invalid role")
		return
	}

	var cnt int64
	h.db.Model(&model.User{}).Where("email = ?", req.Email).Count(&cnt)
	if cnt > 0 {
		response.Error(c, http.StatusConflict, response.CodeConflict, "User with this email already exists")
		return
	}

	// 密码加密存储
	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to encrypt password")
		return
	}

	u := model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPwd),
		Role:     req.Role,
	}
	if err := h.db.Create(&u).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to create user")
		return
	}

	response.Success(c, gin.H{"message": "User created successfully", "user": u})
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 登录，返回 JWT
func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid json")
		return
	}

	var u model.User
	if err := h.db.Where("email = ?", req.Email).First(&u).Error; err != nil {
		// 查不到也按 401 返回，不暴露邮箱是否存在
		response.Error(c, http.StatusUnauthorized, response.CodeAuthRequired, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		response.Error(c, http.StatusUnauthorized, response.CodeAuthRequired, "Invalid email or password")
		return
	}

	if u.IsDisabled {
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Account disabled")
		return
	}

	token, err := jwt.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to generate token")
		return
	}

	response.Success(c, gin.H{"token": token, "user": u})
}

// Me 当前用户信息
func (h *Handler) Me(c *gin.Context) {
	var u model.User
	if err := h.db.First(&u, middleware.UserID(c)).Error; err != nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "User not found")
		return
	}
	response.Success(c, gin.H{"user": u})
}

type updatePasswordReq struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// UpdatePassword 修改密码，需要验证旧密码
func (h *Handler) UpdatePassword(c *gin.Context) {
	var req updatePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid json")
		return
	}

	var u model.User
	if err := h.db.First(&u, middleware.UserID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Database error")
		return
	}

	// 1. 验证旧密码
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.OldPassword)); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "Old password is incorrect")
		return
	}

	// 2. 加密新密码
	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to encrypt password")
		return
	}

	// 3. 更新数据库
	if err := h.db.Model(&u).Update("password", string(hashedPwd)).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to update password")
		return
	}

	response.Success(c, gin.H{"message": "Password updated successfully"})
}
