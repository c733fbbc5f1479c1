package entity

import "time"

// 卡片阶段
const (
	CardStageRequirementConfirm = "requirement_confirm"
	CardStageArtworkDesign      = "artwork_design"
	CardStageInternalReview     = "internal_review"
	CardStageDesignFinalize     = "design_finalize"
	CardStagePlateMaking        = "plate_making"
	CardStagePrinting           = "printing"
	CardStageShipToFactory      = "ship_to_factory"
	CardStageShipToWarehouse    = "ship_to_warehouse"
	CardStageSendToFactory      = "send_to_factory"
	CardStageProofSample        = "proof_sample"
	CardStageProofReview        = "proof_review"
	CardStageArchive            = "archive"
)

// CardStage 卡片设计阶段
type CardStage struct {
	ID            string     `json:"id"`
	Key           string     `json:"key"`
	Name          string     `json:"name"`
	Order         int        `json:"order"`
	Status        string     `json:"status"` // not_started/in_progress/completed/delayed
	AssigneeRole  string     `json:"assignee_role"`
	EstimatedDays int        `json:"estimated_days"`
	ActualDays    int        `json:"actual_days"`
	CompletedAt   *time.Time `json:"completed_at"`
	Remarks       string     `json:"remarks"`
}

// CardProgress 卡片（包装画稿）进度：一个订单行项一条，阶段集合由卡片类型决定
type CardProgress struct {
	ID              string      `json:"id"`
	OrderID         string      `json:"order_id"`
	SKU             string      `json:"sku"`
	CardType        string      `json:"card_type"`
	Stages          []CardStage `json:"stages"`
	OverallProgress int         `json:"overall_progress"`
	CurrentStage    int         `json:"current_stage"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// 卡片阶段负责角色
const (
	RoleMerchandiser = "merchandiser"
	RoleDesigner     = "designer"
	RoleDesignLead   = "design_lead"
	RoleSupplier     = "supplier"
	RoleWarehouse    = "warehouse"
)

type cardStageSpec struct {
	key  string
	name string
	role string
	days int
}

// 前4个阶段三种模板一致：SKU设计已定稿时整段预置完成。
var cardCommonStages = []cardStageSpec{
	{CardStageRequirementConfirm, "需求确认", RoleMerchandiser, 1},
	{CardStageArtworkDesign, "画稿设计", RoleDesigner, 3},
	{CardStageInternalReview, "内部审稿", RoleDesignLead, 1},
	{CardStageDesignFinalize, "设计定稿", RoleDesigner, 1},
}

var cardTailStages = map[string][]cardStageSpec{
	// 成品卡：印刷到位后两段交接发运，共8阶段
	CardTypeFinished: {
		{CardStagePlateMaking, "制版", RoleSupplier, 2},
		{CardStagePrinting, "印刷", RoleSupplier, 3},
		{CardStageShipToFactory, "发货工厂", RoleMerchandiser, 2},
		{CardStageShipToWarehouse, "到仓确认", RoleWarehouse, 1},
	},
	// 设计稿：发送工厂即止，共5阶段
	CardTypeDesign: {
		{CardStageSendToFactory, "发送工厂", RoleMerchandiser, 1},
	},
	// 无需供卡：内部打样归档，不交接工厂，共7阶段
	CardTypeNone: {
		{CardStageProofSample, "内部打样", RoleSupplier, 2},
		{CardStageProofReview, "样品确认", RoleDesignLead, 1},
		{CardStageArchive, "归档", RoleDesigner, 1},
	},
}

// CardStageTemplate 按卡片类型生成阶段模板；未知类型返回nil
func CardStageTemplate(cardType string) []CardStage {
	tail, ok := cardTailStages[cardType]
	if !ok {
		return nil
	}
	specs := make([]cardStageSpec, 0, len(cardCommonStages)+len(tail))
	specs = append(specs, cardCommonStages...)
	specs = append(specs, tail...)

	stages := make([]CardStage, len(specs))
	for i, sp := range specs {
		stages[i] = CardStage{
			Key:           sp.key,
			Name:          sp.name,
			Order:         i,
			Status:        StageNotStarted,
			AssigneeRole:  sp.role,
			EstimatedDays: sp.days,
		}
	}
	return stages
}

// Recalculate 重算总进度和当前阶段游标（仅completed计入）
func (p *CardProgress) Recalculate() {
	done := 0
	current := -1
	for i, st := range p.Stages {
		if st.Status == StageCompleted {
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
