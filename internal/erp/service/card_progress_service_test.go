package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/entity"
)

func seedSKU(t *testing.T, env *testEnv, code string, designFinalized bool) {
	t.Helper()
	now := time.Now()
	err := env.repos.SKU.Create(context.Background(), &entity.SKU{
		ID:              "sku-" + code,
		Code:            code,
		Name:            "产品" + code,
		DesignFinalized: designFinalized,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("seed sku: %v", err)
	}
}

// TestCardCreateStageCounts 三种卡片类型的阶段数：8/5/7
func TestCardCreateStageCounts(t *testing.T) {
	tests := []struct {
		cardType string
		want     int
	}{
		{entity.CardTypeFinished, 8},
		{entity.CardTypeDesign, 5},
		{entity.CardTypeNone, 7},
	}

	for _, tt := range tests {
		t.Run(tt.cardType, func(t *testing.T) {
			env := setupServices(t)
			ctx := context.Background()

			o := seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
				PackagingType: entity.PackagingInHouse,
				PaymentMethod: entity.PaymentCreditTerms,
				CardType:      tt.cardType,
			}, "SKU-A")

			p, err := env.services.CardProgress.Create(ctx, "ord-001", o.Items[0])
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if len(p.Stages) != tt.want {
				t.Fatalf("stage count = %d, want %d", len(p.Stages), tt.want)
			}
			// 未定稿SKU只有第一个阶段开工
			if p.Stages[0].Status != entity.StageInProgress {
				t.Fatalf("first stage = %s, want in_progress", p.Stages[0].Status)
			}
			if p.CurrentStage != 0 {
				t.Fatalf("CurrentStage = %d, want 0", p.CurrentStage)
			}
		})
	}
}

// TestCardCreatePreFinalized 已定稿SKU前4阶段预完成，进度80（design类型5阶段）
func TestCardCreatePreFinalized(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	seedSKU(t, env, "SKU-A", true)
	o := seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType: entity.PackagingInHouse,
		PaymentMethod: entity.PaymentCreditTerms,
		CardType:      entity.CardTypeDesign,
	}, "SKU-A")

	p, err := env.services.CardProgress.Create(ctx, "ord-001", o.Items[0])
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 4; i++ {
		if p.Stages[i].Status != entity.StageCompleted {
			t.Fatalf("stage %d = %s, want completed", i, p.Stages[i].Status)
		}
	}
	if p.Stages[4].Status != entity.StageNotStarted {
		t.Fatalf("stage 4 = %s, want not_started", p.Stages[4].Status)
	}
	if p.OverallProgress != 80 {
		t.Fatalf("OverallProgress = %d, want 80", p.OverallProgress)
	}
	if p.CurrentStage != 4 {
		t.Fatalf("CurrentStage = %d, want 4", p.CurrentStage)
	}
}

func TestCardCreateIdempotent(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	o := seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType: entity.PackagingInHouse,
		PaymentMethod: entity.PaymentCreditTerms,
		CardType:      entity.CardTypeNone,
	}, "SKU-A")

	first, _ := env.services.CardProgress.Create(ctx, "ord-001", o.Items[0])
	second, err := env.services.CardProgress.Create(ctx, "ord-001", o.Items[0])
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("idempotent create returned different records")
	}
}

// TestCardUpdateStageCascadeAndGuard 完成级联激活下一阶段；跳级完成被拒绝
func TestCardUpdateStageCascadeAndGuard(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	o := seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType: entity.PackagingInHouse,
		PaymentMethod: entity.PaymentCreditTerms,
		CardType:      entity.CardTypeDesign,
	}, "SKU-A")

	p, _ := env.services.CardProgress.Create(ctx, "ord-001", o.Items[0])
	status := entity.StageCompleted

	// 前序未完成时完成第3个阶段必须失败且状态不变
	before := p.OverallProgress
	if _, err := env.services.CardProgress.UpdateStage(ctx, p.ID, p.Stages[2].ID, &UpdateCardStageRequest{Status: &status}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("out-of-order completion: %v, want ErrInvalidTransition", err)
	}
	after, _ := env.services.CardProgress.Get(ctx, p.ID)
	if after.OverallProgress != before || after.Stages[2].Status != entity.StageNotStarted {
		t.Fatalf("state changed after rejected transition")
	}

	// 顺序完成第1个阶段，级联激活第2个
	p, err := env.services.CardProgress.UpdateStage(ctx, p.ID, p.Stages[0].ID, &UpdateCardStageRequest{Status: &status})
	if err != nil {
		t.Fatalf("UpdateStage: %v", err)
	}
	if p.Stages[0].Status != entity.StageCompleted {
		t.Fatalf("stage 0 = %s, want completed", p.Stages[0].Status)
	}
	if p.Stages[0].CompletedAt == nil {
		t.Fatalf("completed stage missing completion date")
	}
	if p.Stages[1].Status != entity.StageInProgress {
		t.Fatalf("stage 1 = %s, want in_progress (cascade)", p.Stages[1].Status)
	}
	if p.OverallProgress != 20 {
		t.Fatalf("OverallProgress = %d, want 20", p.OverallProgress)
	}
}

// TestCardMarkDelayed 延期标记不计入完成度
func TestCardMarkDelayed(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	o := seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType: entity.PackagingInHouse,
		PaymentMethod: entity.PaymentCreditTerms,
		CardType:      entity.CardTypeFinished,
	}, "SKU-A")

	p, _ := env.services.CardProgress.Create(ctx, "ord-001", o.Items[0])

	p, err := env.services.CardProgress.MarkDelayed(ctx, p.ID, p.Stages[0].ID, "供应商排期冲突")
	if err != nil {
		t.Fatalf("MarkDelayed: %v", err)
	}
	if p.Stages[0].Status != entity.StageDelayed {
		t.Fatalf("stage 0 = %s, want delayed", p.Stages[0].Status)
	}
	if p.Stages[0].Remarks != "供应商排期冲突" {
		t.Fatalf("remarks = %s", p.Stages[0].Remarks)
	}
	if p.OverallProgress != 0 {
		t.Fatalf("OverallProgress = %d, want 0 (delayed does not count)", p.OverallProgress)
	}
}
