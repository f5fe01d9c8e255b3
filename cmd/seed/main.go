package main

import (
	"context"

	"github.com/shopfront/internal/config"
	"github.com/shopfront/internal/logger"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/repository"
	"github.com/shopfront/internal/service"

	"github.com/shopspring/decimal"
)

type seedProduct struct {
	Name        string
	Description string
	Price       string
	Stock       int
	ImageURL    string
}

var demoProducts = []seedProduct{
	{Name: "Desk Lamp", Description: "Adjustable LED desk lamp with warm and cool modes.", Price: "19.99", Stock: 40, ImageURL: "/static/img/desk-lamp.jpg"},
	{Name: "Ceramic Mug", Description: "350ml stoneware mug, dishwasher safe.", Price: "8.50", Stock: 120, ImageURL: "/static/img/mug.jpg"},
	{Name: "Canvas Backpack", Description: "Waxed canvas backpack with laptop sleeve.", Price: "64.00", Stock: 25, ImageURL: "/static/img/backpack.jpg"},
	{Name: "Wireless Mouse", Description: "Silent-click 2.4GHz mouse.", Price: "24.95", Stock: 60, ImageURL: "/static/img/mouse.jpg"},
	{Name: "Notebook A5", Description: "Dotted 160-page notebook.", Price: "6.75", Stock: 200, ImageURL: "/static/img/notebook.jpg"},
	{Name: "Water Bottle", Description: "Insulated stainless bottle, 750ml.", Price: "22.00", Stock: 0, ImageURL: "/static/img/bottle.jpg"},
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	productRepo := repository.NewProductRepository(models.DB)
	// 种子数据不投递索引任务
	productService := service.NewProductService(productRepo, nil, nil, 0)
	ctx := context.Background()

	created := 0
	for _, item := range demoProducts {
		existing, err := productRepo.GetByName(item.Name)
		if err != nil {
			stdLog.Printf("Failed to check product %s: %v", item.Name, err)
			continue
		}
		if existing != nil {
			stdLog.Printf("Product already exists: %s", item.Name)
			continue
		}
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			stdLog.Printf("Invalid price for %s: %v", item.Name, err)
			continue
		}
		product, err := productService.Create(ctx, service.ProductInput{
			Name:        item.Name,
			Description: item.Description,
			Price:       models.NewMoneyFromDecimal(price),
			Stock:       item.Stock,
			ImageURL:    item.ImageURL,
		})
		if err != nil {
			stdLog.Printf("Failed to create product %s: %v", item.Name, err)
			continue
		}
		created++
		stdLog.Printf("Created product: %s (id=%d)", product.Name, product.ID)
	}
	stdLog.Printf("Seed finished, %d product(s) created", created)
}
