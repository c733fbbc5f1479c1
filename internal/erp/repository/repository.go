package repository

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// 集合名（ChangeEvent.Collection取值）
const (
	CollectionOrders              = "orders"
	CollectionAllocations         = "allocations"
	CollectionSKUs                = "skus"
	CollectionProcurementProgress = "procurement_progress"
	CollectionCardProgress        = "card_progress"
	CollectionAccessoryProgress   = "accessory_progress"
	CollectionInspections         = "inspections"
	CollectionSchedules           = "production_schedules"
	CollectionQualityIntakes      = "quality_intakes"
	CollectionRejectedOrders      = "rejected_orders"
)

// Repositories ERP内存集合汇总。显式持有、按引用注入，不做全局单例。
type Repositories struct {
	Order               *OrderRepository
	Allocation          *AllocationRepository
	SKU                 *SKURepository
	ProcurementProgress *ProcurementProgressRepository
	CardProgress        *CardProgressRepository
	AccessoryProgress   *AccessoryProgressRepository
	Inspection          *InspectionRepository
	Schedule            *ScheduleRepository
	QualityIntake       *QualityIntakeRepository
	RejectedOrder       *RejectedOrderRepository
}

// NewRepositories 创建ERP集合汇总
func NewRepositories() *Repositories {
	return &Repositories{
		Order:               NewOrderRepository(),
		Allocation:          NewAllocationRepository(),
		SKU:                 NewSKURepository(),
		ProcurementProgress: NewProcurementProgressRepository(),
		CardProgress:        NewCardProgressRepository(),
		AccessoryProgress:   NewAccessoryProgressRepository(),
		Inspection:          NewInspectionRepository(),
		Schedule:            NewScheduleRepository(),
		QualityIntake:       NewQualityIntakeRepository(),
		RejectedOrder:       NewRejectedOrderRepository(),
	}
}

// codeSeq 业务编码序列 {prefix}-{year}-{4位}
type codeSeq struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

func (c *codeSeq) Next() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return fmt.Sprintf("%s-%s-%04d", c.prefix, time.Now().Format("2006"), c.seq)
}
