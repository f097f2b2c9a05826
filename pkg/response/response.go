package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码，对应各自的 HTTP 状态码
const (
	CodeAuthRequired     = "AUTH_REQUIRED"     // 401 未登录
	CodeForbidden        = "FORBIDDEN"         // 403 角色/归属不符
	CodeNotFound         = "NOT_FOUND"         // 404 实体不存在
	CodeValidationFailed = "VALIDATION_FAILED" // 400 参数非法
	CodeConflict         = "CONFLICT"          // 409 SKU/邮箱重复
	CodeInternal         = "INTERNAL"          // 500 意外失败
)

// ErrorBody 统一错误响应结构体
type ErrorBody struct {
	Error string `json:"error"` // 提示信息
	Code  string `json:"code"`  // 业务错误码
}

// Success 成功响应
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, data)
}

// Created 创建成功响应 (201)
func Created(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, data)
}

// Error 失败响应
func Error(ctx *gin.Context, httpStatus int, code, msg string) {
	ctx.JSON(httpStatus, ErrorBody{Error: msg, Code: code})
}

// AbortError 中间件里使用，终止后续 Handler
func AbortError(ctx *gin.Context, httpStatus int, code, msg string) {
	ctx.AbortWithStatusJSON(httpStatus, ErrorBody{Error: msg, Code: code})
}
