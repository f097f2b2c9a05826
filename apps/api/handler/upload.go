package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go-storefront/apps/api/middleware"
	"go-storefront/apps/api/model"
	"go-storefront/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 支付凭证允许的 MIME 类型 (统一的允许清单)
var allowedUploadTypes = map[string]bool{
	"application/pdf":    true,
	"image/jpeg":         true,
	"image/jpg":          true,
	"image/png":          true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

const maxUploadSize = 10 << 20 // 10 MiB

// storedFileName 生成防碰撞的磁盘文件名：{毫秒时间戳}_{随机8位}.{扩展名}
func storedFileName(original string) string {
	ext := strings.TrimPrefix(filepath.Ext(original), ".")
	if ext == "" {
		ext = "bin"
	}
	random := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%d_%s.%s", time.Now().UnixMilli(), random, ext)
}

// loadOrderForCaller 查订单并做归属校验 (本人或管理员)
// 返回 nil 时已经写好了错误响应
func (h *Handler) loadOrderForCaller(c *gin.Context) *model.Order {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid id")
		return nil
	}

	var order model.Order
	if err := h.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Order not found")
			return nil
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Database error")
		return nil
	}

	if !middleware.IsAdmin(c) && order.UserID != middleware.UserID(c) {
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Forbidden")
		return nil
	}
	return &order
}

// UploadOrderFile 上传支付凭证
// 校验全部通过之后才落盘，拒绝时磁盘上不留半成品
func (h *Handler) UploadOrderFile(c *gin.Context) {
	order := h.loadOrderForCaller(c)
	if order == nil {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "No file uploaded")
		return
	}

	mimeType := fh.Header.Get("Content-Type")
	if !allowedUploadTypes[mimeType] {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "File type not supported")
		return
	}
	if fh.Size > maxUploadSize {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "File size too large. Maximum size is 10MB.")
		return
	}

	src, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to read file")
		return
	}
	defer src.Close()

	stored := storedFileName(fh.Filename)
	dstPath := filepath.Join(h.uploadDir, stored)

	dst, err := os.Create(dstPath)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to save file")
		return
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dstPath)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to save file")
		return
	}
	dst.Close()

	// 先写盘后插库：两步之间崩溃会留下孤儿文件，接受这个窗口
	record := model.FileUpload{
		OrderID:  order.ID,
		FileName: fh.Filename,
		FilePath: stored,
		FileSize: fh.Size,
		MimeType: mimeType,
	}
	if err := h.db.Create(&record).Error; err != nil {
		os.Remove(dstPath)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to save file record")
		return
	}

	response.Success(c, gin.H{"message": "File uploaded successfully", "file": record})
}

// ListOrderFiles 某订单的凭证列表
func (h *Handler) ListOrderFiles(c *gin.Context) {
	order := h.loadOrderForCaller(c)
	if order == nil {
		return
	}

	var files []model.FileUpload
	if err := h.db.Where("order_id = ?", order.ID).
		Order("uploaded_at DESC").Find(&files).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to fetch files")
		return
	}
	response.Success(c, gin.H{"files": files})
}

// loadOrderFile 查订单下指定的文件记录
func (h *Handler) loadOrderFile(c *gin.Context, orderID int64) *model.FileUpload {
	fileID, err := strconv.ParseInt(c.Param("fileId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidationFailed, "invalid file id")
		return nil
	}

	var record model.FileUpload
	if err := h.db.Where("id = ? AND order_id = ?", fileID, orderID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "File not found")
			return nil
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Database error")
		return nil
	}
	return &record
}

// DownloadOrderFile 下载凭证，按附件返回原始文件名
func (h *Handler) DownloadOrderFile(c *gin.Context) {
	order := h.loadOrderForCaller(c)
	if order == nil {
		return
	}
	record := h.loadOrderFile(c, order.ID)
	if record == nil {
		return
	}

	diskPath := filepath.Join(h.uploadDir, record.FilePath)
	if _, err := os.Stat(diskPath); err != nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "File not found on disk")
		return
	}

	c.Header("Content-Type", record.MimeType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.FileName))
	c.File(diskPath)
}

// AdminDownloadOrderFile 管理端下载，不做归属校验 (路由组已挂 AdminRequired)
func (h *Handler) AdminDownloadOrderFile(c *gin.Context) {
	h.DownloadOrderFile(c)
}

// DeleteOrderFile 删除凭证：先尽力删磁盘，失败只记日志，库里记录照删
// 宁可磁盘残留孤儿文件，也不留指向不存在文件的记录
func (h *Handler) DeleteOrderFile(c *gin.Context) {
	order := h.loadOrderForCaller(c)
	if order == nil {
		return
	}
	record := h.loadOrderFile(c, order.ID)
	if record == nil {
		return
	}

	diskPath := filepath.Join(h.uploadDir, record.FilePath)
	if err := os.Remove(diskPath); err != nil && !os.IsNotExist(err) {
		log.Printf("Disk delete error for %s: %v", record.FilePath, err)
	}

	if err := h.db.Delete(&model.FileUpload{}, record.ID).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to delete file record")
		return
	}

	response.Success(c, gin.H{"message": "File deleted successfully"})
}
