package entity

import "time"

// Order 采购申请单
type Order struct {
	ID       string `json:"id"`
	OrderNo  string `json:"order_no"`
	Title    string `json:"title"`
	Status   string `json:"status"` // pending/submitted/approved/rejected/allocated/in_production/shipped/completed/cancelled
	Priority string `json:"priority"`

	// 审批
	RequestedBy string     `json:"requested_by"`
	SubmittedAt *time.Time `json:"submitted_at"`
	ApprovedBy  *string    `json:"approved_by"`
	ApprovedAt  *time.Time `json:"approved_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes"`

	Items []OrderItem `json:"items"`
}

// OrderItem 订单行项
type OrderItem struct {
	ID          string   `json:"id"`
	OrderID     string   `json:"order_id"`
	SKU         string   `json:"sku"`
	ProductName string   `json:"product_name"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	UnitPrice   *float64 `json:"unit_price"`
	TotalAmount *float64 `json:"total_amount"`
	SortOrder   int      `json:"sort_order"`
}

// 订单状态
const (
	OrderStatusPending      = "pending"
	OrderStatusSubmitted    = "submitted"
	OrderStatusApproved     = "approved"
	OrderStatusRejected     = "rejected"
	OrderStatusAllocated    = "allocated"
	OrderStatusInProduction = "in_production"
	OrderStatusShipped      = "shipped"
	OrderStatusCompleted    = "completed"
	OrderStatusCancelled    = "cancelled"
)

var allocatedOrLater = map[string]bool{
	OrderStatusAllocated:    true,
	OrderStatusInProduction: true,
	OrderStatusShipped:      true,
	OrderStatusCompleted:    true,
}

// IsAllocatedOrLater 订单是否已进入分配后的生命周期
func IsAllocatedOrLater(status string) bool {
	return allocatedOrLater[status]
}
