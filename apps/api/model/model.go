package model

import "time"

// 订单状态枚举 (七种)
const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
	OrderStatusRefunded   = "REFUNDED"
)

// ValidOrderStatus 校验状态值是否在七种枚举之内
// 状态机是宽松的：管理员可以覆盖为任意合法值，不校验相邻关系
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// 用户角色
const (
	RoleBuyer = "BUYER"
	RoleAdmin = "ADMIN"
)

// 支付方式
const (
	PaymentMethodBankTransfer   = "BANK_TRANSFER"
	PaymentMethodCreditCard     = "CREDIT_CARD"
	PaymentMethodCashOnDelivery = "CASH_ON_DELIVERY"
)

// ValidPaymentMethod 校验支付方式
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCreditCard, PaymentMethodCashOnDelivery:
		return true
	}
	return false
}

// 支付状态
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

// User 用户表，角色注册时确定，不提供升级入口
type User struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"type:varchar(255);not null" json:"-"` // bcrypt 哈希，永不下发
	Role       string    `gorm:"type:varchar(20);default:'BUYER'" json:"role"`
	IsDisabled bool      `gorm:"default:false" json:"isDisabled"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Category 商品分类
type Category struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

// Product 商品表，库存只在下单扣减和后台编辑时变化
type Product struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	Sku         string    `gorm:"type:varchar(64);uniqueIndex" json:"sku"`
	Image       string    `gorm:"type:varchar(255)" json:"image"`
	Images      string    `gorm:"type:text" json:"images"` // JSON 数组字符串
	Featured    bool      `gorm:"default:false" json:"featured"`
	CategoryID  int64     `gorm:"index;not null" json:"categoryId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// Order 订单主表，金额字段创建后不可变
type Order struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	OrderNo         string    `gorm:"type:varchar(64);uniqueIndex" json:"orderNo"`
	UserID          int64     `gorm:"index" json:"userId"`
	Status          string    `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	Subtotal        float64   `gorm:"type:decimal(10,2)" json:"subtotal"`
	Tax             float64   `gorm:"type:decimal(10,2)" json:"tax"`
	Shipping        float64   `gorm:"type:decimal(10,2)" json:"shipping"`
	Total           float64   `gorm:"type:decimal(10,2)" json:"total"`
	ShippingAddress string    `gorm:"type:text" json:"shippingAddress"` // 下单时的地址快照
	Notes           string    `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	User     *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items    []OrderItem  `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payments []Payment    `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
	Files    []FileUpload `gorm:"foreignKey:OrderID" json:"files,omitempty"`
}

// OrderItem 订单明细，Price 为下单时价格，与商品现价解耦，创建后不再变动
type OrderItem struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	OrderID   int64     `gorm:"index" json:"orderId"`
	ProductID int64     `gorm:"index" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"type:decimal(10,2)" json:"price"`
	CreatedAt time.Time `json:"createdAt"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// Payment 支付记录
type Payment struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	OrderID       int64     `gorm:"index" json:"orderId"`
	Amount        float64   `gorm:"type:decimal(10,2)" json:"amount"`
	Method        string    `gorm:"type:varchar(32)" json:"method"`
	Status        string    `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	TransactionID string    `gorm:"type:varchar(128)" json:"transactionId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FileUpload 支付凭证文件，原始文件名和 MIME 只存在库里
// 磁盘上的名字是生成的，从磁盘名推不回原名
type FileUpload struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	OrderID    int64     `gorm:"index" json:"orderId"`
	FileName   string    `gorm:"type:varchar(255)" json:"fileName"` // 用户上传的原始名
	FilePath   string    `gorm:"type:varchar(255)" json:"filePath"` // 磁盘上的生成名
	FileSize   int64     `json:"fileSize"`
	MimeType   string    `gorm:"type:varchar(100)" json:"mimeType"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploadedAt"`
}

func (User) TableName() string       { return "users" }
func (Category) TableName() string   { return "categories" }
func (Product) TableName() string    { return "products" }
func (Order) TableName() string      { return "orders" }
func (OrderItem) TableName() string  { return "order_items" }
func (Payment) TableName() string    { return "payments" }
func (FileUpload) TableName() string { return "file_uploads" }
