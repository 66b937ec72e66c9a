package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/repository"
)

// ==================== CartCleanupTask 购物车清理任务 ====================

// CartCleanupTask 游客购物车清理定时任务
// 游客没有登出动作，超过闲置期的会话购物车只能靠定时清
type CartCleanupTask struct {
	cartRepo repository.CartRepository
	cron     *cron.Cron

	// 闲置期与单次清理上限
	idleDuration time.Duration
	batchSize    int
}

// NewCartCleanupTask 创建购物车清理任务
func NewCartCleanupTask(cartRepo repository.CartRepository) *CartCleanupTask {
	return &CartCleanupTask{
		cartRepo:     cartRepo,
		cron:         cron.New(cron.WithSeconds()),
		idleDuration: 7 * 24 * time.Hour,
		batchSize:    500,
	}
}

// Start 启动定时任务
func (t *CartCleanupTask) Start() {
	// 每小时执行
	_, err := t.cron.AddFunc("0 0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.cleanup(ctx)
	})
	if err != nil {
		log.Printf("[CartCleanupTask] 定时任务启动失败: %v", err)
		return
	}

	t.cron.Start()
	log.Println("[CartCleanupTask] 已启动 (每小时)")
}

// Stop 停止任务
func (t *CartCleanupTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[CartCleanupTask] 已停止")
}

// cleanup 清理超过闲置期的游客购物车
func (t *CartCleanupTask) cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-t.idleDuration)

	carts, err := t.cartRepo.FindStaleGuestCarts(ctx, cutoff, t.batchSize)
	if err != nil {
		log.Printf("[CartCleanupTask] 查询闲置购物车失败: %v", err)
		return
	}
	if len(carts) == 0 {
		return
	}

	var deleted, failed int
	for i := range carts {
		if err := t.cartRepo.Delete(ctx, carts[i].ID); err != nil {
			log.Printf("[CartCleanupTask] 删除购物车 %d 失败: %v", carts[i].ID, err)
			failed++
			continue
		}
		deleted++
	}

	log.Printf("[CartCleanupTask] 清理完成: 删除 %d, 失败 %d", deleted, failed)
}

// CleanupNow 立即执行一次清理
func (t *CartCleanupTask) CleanupNow(ctx context.Context) {
	t.cleanup(ctx)
}
