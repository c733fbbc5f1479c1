package service

import (
	"context"
	"errors"
	"testing"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/entity"
)

// TestAccessoryCreateInHouseOnly 辅料进度只为自制包装创建
func TestAccessoryCreateInHouseOnly(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	o := seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType: entity.PackagingExternal,
		PaymentMethod: entity.PaymentCreditTerms,
		CardType:      entity.CardTypeNone,
	}, "SKU-A")

	if _, err := env.services.AccessoryProgress.Create(ctx, "ord-001", o.Items[0]); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("external packaging: %v, want ErrInvalidStatus", err)
	}
}

// TestAccessoryCreateTemplate 固定5项清单，长周期件创建即开工
func TestAccessoryCreateTemplate(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	o := seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType: entity.PackagingInHouse,
		PaymentMethod: entity.PaymentCreditTerms,
		CardType:      entity.CardTypeNone,
	}, "SKU-A")

	p, err := env.services.AccessoryProgress.Create(ctx, "ord-001", o.Items[0])
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(p.Items) != 5 {
		t.Fatalf("item count = %d, want 5", len(p.Items))
	}
	for _, it := range p.Items {
		if entity.IsLongCycleAccessory(it.Type) && it.Status != entity.StageInProgress {
			t.Fatalf("long-cycle %s = %s, want in_progress", it.Type, it.Status)
		}
		if !entity.IsLongCycleAccessory(it.Type) && it.Status != entity.StageNotStarted {
			t.Fatalf("short-cycle %s = %s, want not_started", it.Type, it.Status)
		}
	}
	if p.OverallProgress != 0 {
		t.Fatalf("OverallProgress = %d, want 0", p.OverallProgress)
	}
}

// TestAccessoryUpdateStatusAndCosts 字段合并：状态改完成度、成本改总成本
func TestAccessoryUpdateStatusAndCosts(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	o := seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType: entity.PackagingInHouse,
		PaymentMethod: entity.PaymentCreditTerms,
		CardType:      entity.CardTypeNone,
	}, "SKU-A")
	p, _ := env.services.AccessoryProgress.Create(ctx, "ord-001", o.Items[0])

	completed := entity.StageCompleted
	blisterCost := 1500.0
	moldCost := 8000.0

	p, err := env.services.AccessoryProgress.Update(ctx, p.ID, &UpdateAccessoryRequest{
		Items: []UpdateAccessoryItem{
			{Type: entity.AccessoryBlister, Status: &completed, UnitCost: &blisterCost},
		},
		MoldCost: &moldCost,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if p.OverallProgress != 41 {
		t.Fatalf("OverallProgress = %d, want 41", p.OverallProgress)
	}
	if p.TotalCost != 9500 {
		t.Fatalf("TotalCost = %v, want 9500", p.TotalCost)
	}

	idx := p.ItemIndex(entity.AccessoryBlister)
	if p.Items[idx].CompletedAt == nil {
		t.Fatalf("completed item missing completion date")
	}
}

// TestAccessoryCompleteItemsBatch 批量完成吸塑+纸托 → 82
func TestAccessoryCompleteItemsBatch(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	o := seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType: entity.PackagingInHouse,
		PaymentMethod: entity.PaymentCreditTerms,
		CardType:      entity.CardTypeNone,
	}, "SKU-A")
	p, _ := env.services.AccessoryProgress.Create(ctx, "ord-001", o.Items[0])

	p, err := env.services.AccessoryProgress.CompleteItems(ctx, p.ID, []string{entity.AccessoryBlister, entity.AccessoryTray})
	if err != nil {
		t.Fatalf("CompleteItems: %v", err)
	}
	if p.OverallProgress != 82 {
		t.Fatalf("OverallProgress = %d, want 82", p.OverallProgress)
	}

	// 剩余三项全部完成后封顶100
	p, err = env.services.AccessoryProgress.CompleteItems(ctx, p.ID, []string{entity.AccessoryCarton, entity.AccessoryBarcode, entity.AccessoryLabel})
	if err != nil {
		t.Fatalf("CompleteItems: %v", err)
	}
	if p.OverallProgress != 100 {
		t.Fatalf("OverallProgress = %d, want 100", p.OverallProgress)
	}
}

// TestAccessoryUpdateUnknownItemType 未知项类型整单拒绝，合法项也不落盘
func TestAccessoryUpdateUnknownItemType(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	o := seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType: entity.PackagingInHouse,
		PaymentMethod: entity.PaymentCreditTerms,
		CardType:      entity.CardTypeNone,
	}, "SKU-A")
	p, _ := env.services.AccessoryProgress.Create(ctx, "ord-001", o.Items[0])

	completed := entity.StageCompleted
	if _, err := env.services.AccessoryProgress.Update(ctx, p.ID, &UpdateAccessoryRequest{
		Items: []UpdateAccessoryItem{
			{Type: entity.AccessoryBlister, Status: &completed},
			{Type: "ribbon", Status: &completed},
		},
	}); err == nil {
		t.Fatalf("unknown item type must fail")
	}

	// 同批的吸塑补丁不得落盘
	after, _ := env.services.AccessoryProgress.Get(ctx, p.ID)
	idx := after.ItemIndex(entity.AccessoryBlister)
	if after.Items[idx].Status != entity.StageInProgress {
		t.Fatalf("blister = %s after rejected update, want in_progress", after.Items[idx].Status)
	}
	if after.Items[idx].CompletedAt != nil {
		t.Fatalf("blister completion date set by rejected update")
	}
	if after.OverallProgress != 0 {
		t.Fatalf("OverallProgress = %d after rejected update, want 0", after.OverallProgress)
	}
}
