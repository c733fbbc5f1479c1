package entity

import (
	"math"
	"time"
)

// 阶段状态
const (
	StageNotStarted = "not_started"
	StageInProgress = "in_progress"
	StageCompleted  = "completed"
	StageSkipped    = "skipped"
	StageDelayed    = "delayed" // 仅卡片流程使用
)

// 采购进度阶段（固定7个）
const (
	StageDepositPayment      = "deposit_payment"
	StageArrangeProduction   = "arrange_production"
	StageCardSupply          = "card_supply"
	StagePackagingProduction = "packaging_production"
	StageFinalPayment        = "final_payment"
	StageArrangeShipment     = "arrange_shipment"
	StageReceiptConfirmation = "receipt_confirmation"
)

// ProcurementStage 采购进度阶段
// Cascades=false的阶段完成后不激活后续阶段（卡片供应与付款/生产属并行时间线）。
type ProcurementStage struct {
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Status      string     `json:"status"` // not_started/in_progress/completed/skipped
	Cascades    bool       `json:"cascades"`
	CompletedAt *time.Time `json:"completed_at"`
	Remarks     string     `json:"remarks"`
}

// ProcurementProgress 采购进度：一单一条，7阶段付款/生产/发货流程
type ProcurementProgress struct {
	ID              string             `json:"id"`
	OrderID         string             `json:"order_id"`
	Stages          []ProcurementStage `json:"stages"`
	OverallProgress int                `json:"overall_progress"`
	CurrentStage    int                `json:"current_stage"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ProcurementStageTemplate 采购阶段模板（固定顺序）
func ProcurementStageTemplate() []ProcurementStage {
	return []ProcurementStage{
		{Key: StageDepositPayment, Name: "支付定金", Status: StageNotStarted, Cascades: true},
		{Key: StageArrangeProduction, Name: "安排生产", Status: StageNotStarted, Cascades: true},
		{Key: StageCardSupply, Name: "卡片供应", Status: StageNotStarted, Cascades: false},
		{Key: StagePackagingProduction, Name: "包装生产", Status: StageNotStarted, Cascades: true},
		{Key: StageFinalPayment, Name: "支付尾款", Status: StageNotStarted, Cascades: true},
		{Key: StageArrangeShipment, Name: "安排发货", Status: StageNotStarted, Cascades: true},
		{Key: StageReceiptConfirmation, Name: "收货确认", Status: StageNotStarted, Cascades: true},
	}
}

// StageDone 阶段是否算作完成（skipped等同完成）
func StageDone(status string) bool {
	return status == StageCompleted || status == StageSkipped
}

// Recalculate 重算总进度和当前阶段游标
func (p *ProcurementProgress) Recalculate() {
	done := 0
	current := -1
	for i, st := range p.Stages {
		if StageDone(st.Status) {
			done++
		}
		if current < 0 && st.Status == StageInProgress {
			current = i
		}
	}
	p.OverallProgress = PercentOf(done, len(p.Stages))
	if current < 0 {
		current = done
	}
	p.CurrentStage = current
}

// StageIndex 按key查找阶段下标，不存在返回-1
func (p *ProcurementProgress) StageIndex(key string) int {
	for i, st := range p.Stages {
		if st.Key == key {
			return i
		}
	}
	return -1
}

// PercentOf 完成比例取整（四舍五入）
func PercentOf(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}
