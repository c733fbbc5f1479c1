package entity

import "time"

// 产品形态：外发包装到货即成品，自制包装到货为半成品
const (
	ProductTypeFinished     = "finished"
	ProductTypeSemiFinished = "semi_finished"
)

// 检验状态
const (
	InspectionStatusPending   = "pending"
	InspectionStatusCompleted = "completed"
)

// 检验结果
const (
	InspectionResultPassed = "passed"
	InspectionResultFailed = "failed"
)

// ArrivalInspection 到货检验：已分配订单的每个行项一条，去重键(order, sku)
type ArrivalInspection struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	OrderID     string `json:"order_id"`
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
	ProductType string `json:"product_type"` // finished/semi_finished

	IsArrived   bool       `json:"is_arrived"`
	ArrivalDate *time.Time `json:"arrival_date"`
	ExpectedQty float64    `json:"expected_qty"`
	ArrivalQty  float64    `json:"arrival_qty"`

	Status    string   `json:"status"` // pending/completed
	Result    string   `json:"result"` // passed/failed
	Inspector string   `json:"inspector"`
	Photos    []string `json:"photos"`
	Notes     string   `json:"notes"`

	// 同步器维护的三路进度快照
	ProcurementPercent int `json:"procurement_percent"`
	CardPercent        int `json:"card_percent"`
	AccessoryPercent   int `json:"accessory_percent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
