package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go-storefront/apps/api/model"
	"go-storefront/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 测试环境：SQLite 文件库 + miniredis + 临时上传目录，走真实路由
type testEnv struct {
	r         *gin.Engine
	db        *gorm.DB
	rdb       *redis.Client
	uploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{}, &model.Category{}, &model.Product{},
		&model.Order{}, &model.OrderItem{}, &model.Payment{}, &model.FileUpload{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	uploadDir := filepath.Join(dir, "uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		t.Fatalf("mkdir uploads: %v", err)
	}

	r := gin.New()
	New(db, rdb, uploadDir).RegisterRoutes(r)

	return &testEnv{r: r, db: db, rdb: rdb, uploadDir: uploadDir}
}

// createUser 建用户并签发 Token
func (e *testEnv) createUser(t *testing.T, name, email, role string) (model.User, string) {
	t.Helper()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	u := model.User{Name: name, Email: email, Password: string(hashed), Role: role}
	if err := e.db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := jwt.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return u, token
}

func (e *testEnv) createCategory(t *testing.T, name string) model.Category {
	t.Helper()
	cat := model.Category{Name: name, Description: name + " description"}
	if err := e.db.Create(&cat).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return cat
}

func (e *testEnv) createProduct(t *testing.T, name, sku string, price float64, stock int, categoryID int64) model.Product {
	t.Helper()
	p := model.Product{Name: name, Sku: sku, Price: price, Stock: stock, CategoryID: categoryID}
	if err := e.db.Create(&p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func (e *testEnv) createOrder(t *testing.T, userID int64) model.Order {
	t.Helper()
	o := model.Order{
		OrderNo: uuid.New().String(),
		UserID:  userID,
		Status:  model.OrderStatusPending,
		Total:   100,
	}
	if err := e.db.Create(&o).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}

// doJSON 发送 JSON 请求，token 为空则不带 Authorization
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return m
}
