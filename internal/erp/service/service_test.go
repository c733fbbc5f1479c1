package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/entity"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/eventbus"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/repository"
)

type testEnv struct {
	repos    *repository.Repositories
	bus      *eventbus.Bus
	services *Services
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()
	repos := repository.NewRepositories()
	bus := eventbus.New()
	services := NewServices(repos, bus, nil, nil, "", zap.NewNop())
	return &testEnv{repos: repos, bus: bus, services: services}
}

// seedAllocatedOrder 直接种一条已分配订单和配套分配单（不走审批流）
func seedAllocatedOrder(t *testing.T, env *testEnv, orderID string, alloc entity.Allocation, skus ...string) *entity.Order {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	o := &entity.Order{
		ID:        orderID,
		OrderNo:   "ORD-TEST-" + orderID,
		Title:     "测试订单" + orderID,
		Status:    entity.OrderStatusAllocated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, sku := range skus {
		o.Items = append(o.Items, entity.OrderItem{
			ID:          orderID + "-item-" + sku,
			OrderID:     orderID,
			SKU:         sku,
			ProductName: "产品" + sku,
			Quantity:    float64(100 * (i + 1)),
			Unit:        "pcs",
		})
	}
	if err := env.repos.Order.Create(ctx, o); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	alloc.ID = "alloc-" + orderID
	alloc.OrderID = orderID
	alloc.CreatedAt = now
	if err := env.repos.Allocation.Create(ctx, &alloc); err != nil {
		t.Fatalf("seed allocation: %v", err)
	}
	return o
}

func stageByKey(t *testing.T, p *entity.ProcurementProgress, key string) *entity.ProcurementStage {
	t.Helper()
	idx := p.StageIndex(key)
	if idx < 0 {
		t.Fatalf("stage %s not found", key)
	}
	return &p.Stages[idx]
}
