package service

import (
	"context"
	"errors"
	"testing"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/entity"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/repository"
)

// TestProcurementCreateCreditTerms 月结+零预付：定金跳过、生产启动、尾款预完成
func TestProcurementCreateCreditTerms(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType: entity.PackagingInHouse,
		PaymentMethod: entity.PaymentCreditTerms,
		CardType:      entity.CardTypeFinished,
	}, "SKU-A")

	p, err := env.services.ProcurementProgress.Create(ctx, "ord-001")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got := stageByKey(t, p, entity.StageDepositPayment); got.Status != entity.StageSkipped {
		t.Fatalf("deposit stage = %s, want skipped", got.Status)
	}
	if got := stageByKey(t, p, entity.StageDepositPayment); got.CompletedAt == nil {
		t.Fatalf("skipped deposit stage missing completion date")
	}
	if got := stageByKey(t, p, entity.StageArrangeProduction); got.Status != entity.StageInProgress {
		t.Fatalf("arrange production = %s, want in_progress", got.Status)
	}
	if got := stageByKey(t, p, entity.StageFinalPayment); got.Status != entity.StageCompleted {
		t.Fatalf("final payment = %s, want completed", got.Status)
	}

	// 其余4个阶段未开始
	notStarted := 0
	for _, st := range p.Stages {
		if st.Status == entity.StageNotStarted {
			notStarted++
		}
	}
	if notStarted != 4 {
		t.Fatalf("not_started stages = %d, want 4", notStarted)
	}

	// round(100×2/7) = 29
	if p.OverallProgress != 29 {
		t.Fatalf("OverallProgress = %d, want 29", p.OverallProgress)
	}
}

// TestProcurementCreateZeroPrepayment 非月结但预付为0同样跳过定金
func TestProcurementCreateZeroPrepayment(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType:    entity.PackagingExternal,
		PaymentMethod:    entity.PaymentPayOnDelivery,
		PrepaymentAmount: 0,
		CardType:         entity.CardTypeNone,
	}, "SKU-A")

	p, err := env.services.ProcurementProgress.Create(ctx, "ord-001")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got := stageByKey(t, p, entity.StageDepositPayment); got.Status != entity.StageSkipped {
		t.Fatalf("deposit stage = %s, want skipped", got.Status)
	}
	if got := stageByKey(t, p, entity.StageArrangeProduction); got.Status != entity.StageInProgress {
		t.Fatalf("arrange production = %s, want in_progress", got.Status)
	}
	// 非月结尾款不预完成
	if got := stageByKey(t, p, entity.StageFinalPayment); got.Status != entity.StageNotStarted {
		t.Fatalf("final payment = %s, want not_started", got.Status)
	}
}

// TestProcurementCreateWithPrepayment 有预付款的定金阶段直接开工
func TestProcurementCreateWithPrepayment(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType:    entity.PackagingInHouse,
		PaymentMethod:    entity.PaymentCashOnDelivery,
		PrepaymentAmount: 5000,
		CardType:         entity.CardTypeDesign,
	}, "SKU-A")

	p, err := env.services.ProcurementProgress.Create(ctx, "ord-001")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got := stageByKey(t, p, entity.StageDepositPayment); got.Status != entity.StageInProgress {
		t.Fatalf("deposit stage = %s, want in_progress", got.Status)
	}
	if got := stageByKey(t, p, entity.StageArrangeProduction); got.Status != entity.StageNotStarted {
		t.Fatalf("arrange production = %s, want not_started (deposit not skipped)", got.Status)
	}
	if p.OverallProgress != 0 {
		t.Fatalf("OverallProgress = %d, want 0", p.OverallProgress)
	}
	if p.CurrentStage != 0 {
		t.Fatalf("CurrentStage = %d, want 0", p.CurrentStage)
	}
}

// TestProcurementCreateIdempotent 重复创建返回现有记录
func TestProcurementCreateIdempotent(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType: entity.PackagingInHouse,
		PaymentMethod: entity.PaymentCreditTerms,
		CardType:      entity.CardTypeNone,
	}, "SKU-A")

	first, err := env.services.ProcurementProgress.Create(ctx, "ord-001")
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	second, err := env.services.ProcurementProgress.Create(ctx, "ord-001")
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("idempotent create returned different records: %s vs %s", first.ID, second.ID)
	}

	all, _ := env.repos.ProcurementProgress.FindAll(ctx)
	if len(all) != 1 {
		t.Fatalf("progress records = %d, want 1", len(all))
	}
}

func TestProcurementCreateMissingAllocation(t *testing.T) {
	env := setupServices(t)

	if _, err := env.services.ProcurementProgress.Create(context.Background(), "ord-none"); !errors.Is(err, ErrMissingAllocation) {
		t.Fatalf("Create without allocation: %v, want ErrMissingAllocation", err)
	}
}

// TestProcurementCascade 完成普通阶段激活最近的not_started阶段，且进度不回退
func TestProcurementCascade(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType: entity.PackagingInHouse,
		PaymentMethod: entity.PaymentCreditTerms,
		CardType:      entity.CardTypeFinished,
	}, "SKU-A")

	p, _ := env.services.ProcurementProgress.Create(ctx, "ord-001")
	before := p.OverallProgress

	status := entity.StageCompleted
	p, err := env.services.ProcurementProgress.UpdateStage(ctx, p.ID, entity.StageArrangeProduction, &UpdateStageRequest{Status: &status})
	if err != nil {
		t.Fatalf("UpdateStage: %v", err)
	}

	// 安排生产之后最近的not_started是卡片供应
	if got := stageByKey(t, p, entity.StageCardSupply); got.Status != entity.StageInProgress {
		t.Fatalf("card supply = %s, want in_progress (cascade target)", got.Status)
	}
	// 只激活一个
	if got := stageByKey(t, p, entity.StagePackagingProduction); got.Status != entity.StageNotStarted {
		t.Fatalf("packaging production = %s, want not_started", got.Status)
	}
	if p.OverallProgress < before {
		t.Fatalf("progress decreased: %d -> %d", before, p.OverallProgress)
	}
}

// TestProcurementCardSupplyNoCascade 卡片供应独立完成不激活后续阶段
func TestProcurementCardSupplyNoCascade(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType:    entity.PackagingInHouse,
		PaymentMethod:    entity.PaymentPayOnDelivery,
		PrepaymentAmount: 3000,
		CardType:         entity.CardTypeFinished,
	}, "SKU-A")

	p, _ := env.services.ProcurementProgress.Create(ctx, "ord-001")
	if p.OverallProgress != 0 {
		t.Fatalf("initial progress = %d, want 0", p.OverallProgress)
	}

	status := entity.StageCompleted
	p, err := env.services.ProcurementProgress.UpdateStage(ctx, p.ID, entity.StageCardSupply, &UpdateStageRequest{Status: &status})
	if err != nil {
		t.Fatalf("UpdateStage: %v", err)
	}

	// 安排生产仍未开始
	if got := stageByKey(t, p, entity.StageArrangeProduction); got.Status != entity.StageNotStarted {
		t.Fatalf("arrange production = %s, want not_started (no cascade)", got.Status)
	}
	if got := stageByKey(t, p, entity.StagePackagingProduction); got.Status != entity.StageNotStarted {
		t.Fatalf("packaging production = %s, want not_started (no cascade)", got.Status)
	}
	// 恰好涨1/7
	if p.OverallProgress != 14 {
		t.Fatalf("OverallProgress = %d, want 14", p.OverallProgress)
	}
}

func TestProcurementUpdateUnknownStage(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType: entity.PackagingInHouse,
		PaymentMethod: entity.PaymentCreditTerms,
		CardType:      entity.CardTypeNone,
	}, "SKU-A")

	p, _ := env.services.ProcurementProgress.Create(ctx, "ord-001")

	status := entity.StageCompleted
	if _, err := env.services.ProcurementProgress.UpdateStage(ctx, p.ID, "customs_clearance", &UpdateStageRequest{Status: &status}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("unknown stage key: %v, want ErrNotFound", err)
	}

	// 状态未被改动
	after, _ := env.services.ProcurementProgress.Get(ctx, p.ID)
	if after.OverallProgress != p.OverallProgress {
		t.Fatalf("progress changed after failed update: %d -> %d", p.OverallProgress, after.OverallProgress)
	}
}

// TestConfirmPaymentAndCardDelivery 便捷入口归结为对应阶段完成
func TestConfirmPaymentAndCardDelivery(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	seedAllocatedOrder(t, env, "ord-001", entity.Allocation{
		PackagingType:    entity.PackagingInHouse,
		PaymentMethod:    entity.PaymentCashOnDelivery,
		PrepaymentAmount: 2000,
		CardType:         entity.CardTypeFinished,
	}, "SKU-A")

	if _, err := env.services.ProcurementProgress.Create(ctx, "ord-001"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	p, err := env.services.Order.ConfirmPayment(ctx, "ord-001", PaymentKindDeposit)
	if err != nil {
		t.Fatalf("ConfirmPayment deposit: %v", err)
	}
	if got := stageByKey(t, p, entity.StageDepositPayment); got.Status != entity.StageCompleted {
		t.Fatalf("deposit stage = %s, want completed", got.Status)
	}
	// 定金完成级联激活安排生产
	if got := stageByKey(t, p, entity.StageArrangeProduction); got.Status != entity.StageInProgress {
		t.Fatalf("arrange production = %s, want in_progress", got.Status)
	}

	p, err = env.services.Order.ConfirmCardDelivery(ctx, "ord-001")
	if err != nil {
		t.Fatalf("ConfirmCardDelivery: %v", err)
	}
	if got := stageByKey(t, p, entity.StageCardSupply); got.Status != entity.StageCompleted {
		t.Fatalf("card supply = %s, want completed", got.Status)
	}

	if _, err := env.services.Order.ConfirmPayment(ctx, "ord-001", "interim"); err == nil {
		t.Fatalf("unknown payment kind must fail")
	}
}
