package entity

import "time"

// 排产默认值：7天交期、默认机台和包装线
const (
	DefaultScheduleLeadDays = 7
	DefaultMachine          = "PKG-01"
	DefaultPackagingLine    = "standard"
)

// ProductionSchedule 排产记录：半成品检验合格后生成，去重键(order, sku)
type ProductionSchedule struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	OrderID       string    `json:"order_id"`
	SKU           string    `json:"sku"`
	ProductName   string    `json:"product_name"`
	Quantity      float64   `json:"quantity"`
	Machine       string    `json:"machine"`
	PackagingLine string    `json:"packaging_line"`
	PlannedStart  time.Time `json:"planned_start"`
	PlannedEnd    time.Time `json:"planned_end"`
	Status        string    `json:"status"` // planned/in_progress/completed
	CreatedAt     time.Time `json:"created_at"`
}

// 排产状态
const (
	ScheduleStatusPlanned    = "planned"
	ScheduleStatusInProgress = "in_progress"
	ScheduleStatusCompleted  = "completed"
)

// QualityIntake 成品入库质检：成品检验合格后生成，去重键(order, sku)
type QualityIntake struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	OrderID     string    `json:"order_id"`
	SKU         string    `json:"sku"`
	ProductName string    `json:"product_name"`
	ExpectedQty float64   `json:"expected_qty"`
	ReceivedQty float64   `json:"received_qty"`
	Status      string    `json:"status"` // pending/accepted/rejected
	CreatedAt   time.Time `json:"created_at"`
}

// 入库质检状态
const (
	IntakeStatusPending  = "pending"
	IntakeStatusAccepted = "accepted"
	IntakeStatusRejected = "rejected"
)

// RejectedOrder 不合格待处理单：检验不合格时生成，去重键(order, sku)，
// 重复不合格只追加原因不再新建。
type RejectedOrder struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	OrderID         string    `json:"order_id"`
	SKU             string    `json:"sku"`
	ProductType     string    `json:"product_type"`
	RejectionReason string    `json:"rejection_reason"`
	Status          string    `json:"status"` // open/resolved
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// 不合格单状态
const (
	RejectedStatusOpen     = "open"
	RejectedStatusResolved = "resolved"
)
