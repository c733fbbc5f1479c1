package entity

import "time"

// 辅料项类型（封闭枚举，权重见accessoryWeights）
const (
	AccessoryBlister = "blister"
	AccessoryTray    = "tray"
	AccessoryCarton  = "carton"
	AccessoryBarcode = "barcode"
	AccessoryLabel   = "label"
)

// 完成度权重：长周期件（吸塑、纸托）各41分，短周期件各6分
var accessoryWeights = map[string]int{
	AccessoryBlister: 41,
	AccessoryTray:    41,
	AccessoryCarton:  6,
	AccessoryBarcode: 6,
	AccessoryLabel:   6,
}

var accessoryNames = map[string]string{
	AccessoryBlister: "吸塑",
	AccessoryTray:    "纸托",
	AccessoryCarton:  "彩盒",
	AccessoryBarcode: "条码",
	AccessoryLabel:   "标签",
}

var accessoryLongCycle = map[string]bool{
	AccessoryBlister: true,
	AccessoryTray:    true,
}

// AccessoryItem 辅料制作项
type AccessoryItem struct {
	Type        string     `json:"type"`
	Name        string     `json:"name"`
	Status      string     `json:"status"` // not_started/in_progress/completed
	UnitCost    *float64   `json:"unit_cost"`
	CompletedAt *time.Time `json:"completed_at"`
	Remarks     string     `json:"remarks"`
}

// AccessoryProgress 辅料进度：自制包装的订单行项一条，固定5项清单
type AccessoryProgress struct {
	ID      string          `json:"id"`
	OrderID string          `json:"order_id"`
	SKU     string          `json:"sku"`
	Items   []AccessoryItem `json:"items"`

	// 成本：5项单项成本 + 模具费 + 刀模费，与进度无关
	MoldCost *float64 `json:"mold_cost"`
	DieCost  *float64 `json:"die_cost"`

	OverallProgress int       `json:"overall_progress"`
	TotalCost       float64   `json:"total_cost"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AccessoryItemTemplate 固定5项清单；长周期件创建即开工
func AccessoryItemTemplate() []AccessoryItem {
	types := []string{AccessoryBlister, AccessoryTray, AccessoryCarton, AccessoryBarcode, AccessoryLabel}
	items := make([]AccessoryItem, len(types))
	for i, t := range types {
		status := StageNotStarted
		if accessoryLongCycle[t] {
			status = StageInProgress
		}
		items[i] = AccessoryItem{Type: t, Name: accessoryNames[t], Status: status}
	}
	return items
}

// AccessoryCompletion 加权完成度：完成项贡献其权重，总和封顶100。
// 纯函数，供成本编辑和批量操作复用。
func AccessoryCompletion(items []AccessoryItem) int {
	sum := 0
	for _, it := range items {
		if it.Status == StageCompleted {
			sum += accessoryWeights[it.Type]
		}
	}
	if sum > 100 {
		sum = 100
	}
	return sum
}

// IsLongCycleAccessory 是否长周期件
func IsLongCycleAccessory(itemType string) bool {
	return accessoryLongCycle[itemType]
}

// Recalculate 重算完成度和总成本
func (p *AccessoryProgress) Recalculate() {
	p.OverallProgress = AccessoryCompletion(p.Items)

	total := 0.0
	for _, it := range p.Items {
		if it.UnitCost != nil {
			total += *it.UnitCost
		}
	}
	if p.MoldCost != nil {
		total += *p.MoldCost
	}
	if p.DieCost != nil {
		total += *p.DieCost
	}
	p.TotalCost = total
}

// ItemIndex 按类型查找辅料项下标，不存在返回-1
func (p *AccessoryProgress) ItemIndex(itemType string) int {
	for i, it := range p.Items {
		if it.Type == itemType {
			return i
		}
	}
	return -1
}
