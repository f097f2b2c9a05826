package main

import (
	"log"

	"go-storefront/apps/api/model"
	"go-storefront/pkg/config"
	"go-storefront/pkg/database"

	"golang.org/x/crypto/bcrypt"
)

// 初始化演示数据：分类、商品、管理员和买家账号
func main() {
	c, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.InitMySQL(c.Mysql)
	if err != nil {
		log.Fatalf("Failed to init mysql: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{}, &model.Category{}, &model.Product{},
		&model.Order{}, &model.OrderItem{}, &model.Payment{}, &model.FileUpload{},
	); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	categories := []model.Category{
		{Name: "Men's Clothing", Description: "Premium clothing for men"},
		{Name: "Women's Clothing", Description: "Elegant clothing for women"},
		{Name: "Accessories", Description: "Fashion accessories and more"},
		{Name: "Shoes", Description: "Premium footwear collection"},
	}
	for i := range categories {
		if err := db.Create(&categories[i]).Error; err != nil {
			log.Fatalf("Failed to create category: %v", err)
		}
	}

	products := []model.Product{
		{Name: "Classic White Shirt", Description: "A timeless white shirt made from premium cotton.", Price: 59.99, Stock: 50, Sku: "WS-001", Featured: true, CategoryID: categories[1].ID},
		{Name: "Denim Jacket", Description: "Classic denim jacket with modern fit.", Price: 89.99, Stock: 30, Sku: "DJ-001", Featured: true, CategoryID: categories[0].ID},
		{Name: "Leather Handbag", Description: "Elegant leather handbag with premium craftsmanship.", Price: 199.99, Stock: 15, Sku: "LH-001", Featured: true, CategoryID: categories[2].ID},
		{Name: "Running Shoes", Description: "Comfortable running shoes with advanced cushioning.", Price: 129.99, Stock: 25, Sku: "RS-001", Featured: true, CategoryID: categories[3].ID},
		{Name: "Casual T-Shirt", Description: "Comfortable cotton t-shirt for everyday wear.", Price: 29.99, Stock: 100, Sku: "CT-001", CategoryID: categories[0].ID},
		{Name: "Summer Dress", Description: "Light and flowing summer dress.", Price: 79.99, Stock: 20, Sku: "SD-001", Featured: true, CategoryID: categories[1].ID},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			log.Fatalf("Failed to create product: %v", err)
		}
	}

	adminPwd, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	buyerPwd, _ := bcrypt.GenerateFromPassword([]byte("buyer123"), bcrypt.DefaultCost)

	users := []model.User{
		{Name: "Admin User", Email: "admin@storefront.local", Password: string(adminPwd), Role: model.RoleAdmin},
		{Name: "John Buyer", Email: "buyer@example.com", Password: string(buyerPwd), Role: model.RoleBuyer},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
	}

	log.Println("Database seeded successfully!")
	log.Println("Admin: admin@storefront.local / admin123")
	log.Println("Buyer: buyer@example.com / buyer123")
}
