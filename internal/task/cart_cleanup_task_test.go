package task

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/repository"
)

func setupCleanupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	db.AutoMigrate(&model.Cart{}, &model.CartItem{})
	return db
}

func TestCartCleanupTask_CleanupNow(t *testing.T) {
	db := setupCleanupTestDB(t)

	staleSession := "stale-session"
	freshSession := "fresh-session"
	userID := int64(1)

	// 闲置 8 天的游客购物车
	stale := model.Cart{SessionID: &staleSession}
	db.Create(&stale)
	db.Create(&model.CartItem{CartID: stale.ID, ProductID: 1, Quantity: 1, UnitPrice: 100, PriceType: model.PriceTypeRetail})
	db.Model(&model.Cart{}).Where("id = ?", stale.ID).
		UpdateColumn("updated_at", time.Now().Add(-8*24*time.Hour))

	// 活跃游客购物车
	db.Create(&model.Cart{SessionID: &freshSession})

	// 用户购物车闲置多久都不清
	userCart := model.Cart{UserID: &userID}
	db.Create(&userCart)
	db.Model(&model.Cart{}).Where("id = ?", userCart.ID).
		UpdateColumn("updated_at", time.Now().Add(-30*24*time.Hour))

	task := NewCartCleanupTask(repository.NewCartRepository(db))
	task.CleanupNow(context.Background())

	var carts []model.Cart
	db.Find(&carts)
	if len(carts) != 2 {
		t.Fatalf("carts = %d, want 2", len(carts))
	}
	for _, c := range carts {
		if c.ID == stale.ID {
			t.Errorf("闲置游客购物车应被清理")
		}
	}

	// 购物车项级联清掉
	var itemCount int64
	db.Model(&model.CartItem{}).Count(&itemCount)
	if itemCount != 0 {
		t.Errorf("cart_items = %d, want 0", itemCount)
	}
}
