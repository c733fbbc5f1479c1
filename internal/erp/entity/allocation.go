package entity

import "time"

// Allocation 分配单：审批通过后一单一条，固定包装归属、付款方式和卡片类型。
// 创建后对进度引擎只读。
type Allocation struct {
	ID               string  `json:"id"`
	OrderID          string  `json:"order_id"`
	PackagingType    string  `json:"packaging_type"` // external/in_house
	PaymentMethod    string  `json:"payment_method"` // pay_on_delivery/cash_on_delivery/credit_terms
	PrepaymentAmount float64 `json:"prepayment_amount"`
	CardType         string  `json:"card_type"` // finished/design/none

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	Notes     string    `json:"notes"`
}

// 包装类型
const (
	PackagingExternal = "external"
	PackagingInHouse  = "in_house"
)

// 付款方式
const (
	PaymentPayOnDelivery  = "pay_on_delivery"
	PaymentCashOnDelivery = "cash_on_delivery"
	PaymentCreditTerms    = "credit_terms"
)

// 卡片类型
const (
	CardTypeFinished = "finished"
	CardTypeDesign   = "design"
	CardTypeNone     = "none"
)

// SKU 产品档案
type SKU struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	DesignFinalized bool      `json:"design_finalized"` // 卡片设计是否在下单前已定稿
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
