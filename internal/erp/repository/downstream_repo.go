package repository

import (
	"context"
	"sync"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/entity"
)

// ScheduleRepository 排产记录集合
type ScheduleRepository struct {
	notifier

	mu    sync.RWMutex
	items map[string]*entity.ProductionSchedule
	byKey map[string]string
	order []string
	codes codeSeq
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{
		notifier: notifier{collection: CollectionSchedules},
		items:    make(map[string]*entity.ProductionSchedule),
		byKey:    make(map[string]string),
		codes:    codeSeq{prefix: "SCH"},
	}
}

// GenerateCode 生成排产编码 SCH-{year}-{4位}
func (r *ScheduleRepository) GenerateCode(ctx context.Context) (string, error) {
	return r.codes.Next(), nil
}

// Create 创建排产记录；同一(order, sku)重复创建返回ErrDuplicate
func (r *ScheduleRepository) Create(ctx context.Context, s *entity.ProductionSchedule) error {
	key := orderSKUKey(s.OrderID, s.SKU)
	r.mu.Lock()
	if _, ok := r.byKey[key]; ok {
		r.mu.Unlock()
		return ErrDuplicate
	}
	r.items[s.ID] = s
	r.byKey[key] = s.ID
	r.order = append(r.order, s.ID)
	r.mu.Unlock()

	r.emit(ActionCreated, s.ID, s.OrderID)
	return nil
}

// FindByOrderSKU 按(order, sku)查找排产记录
func (r *ScheduleRepository) FindByOrderSKU(ctx context.Context, orderID, sku string) (*entity.ProductionSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byKey[orderSKUKey(orderID, sku)]
	if !ok {
		return nil, ErrNotFound
	}
	return r.items[id], nil
}

// FindAll 全部排产记录（按创建顺序）
func (r *ScheduleRepository) FindAll(ctx context.Context) ([]entity.ProductionSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.ProductionSchedule, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.items[id])
	}
	return out, nil
}

// QualityIntakeRepository 入库质检集合
type QualityIntakeRepository struct {
	notifier

	mu    sync.RWMutex
	items map[string]*entity.QualityIntake
	byKey map[string]string
	order []string
	codes codeSeq
}

func NewQualityIntakeRepository() *QualityIntakeRepository {
	return &QualityIntakeRepository{
		notifier: notifier{collection: CollectionQualityIntakes},
		items:    make(map[string]*entity.QualityIntake),
		byKey:    make(map[string]string),
		codes:    codeSeq{prefix: "QI"},
	}
}

// GenerateCode 生成质检编码 QI-{year}-{4位}
func (r *QualityIntakeRepository) GenerateCode(ctx context.Context) (string, error) {
	return r.codes.Next(), nil
}

// Create 创建入库质检；同一(order, sku)重复创建返回ErrDuplicate
func (r *QualityIntakeRepository) Create(ctx context.Context, q *entity.QualityIntake) error {
	key := orderSKUKey(q.OrderID, q.SKU)
	r.mu.Lock()
	if _, ok := r.byKey[key]; ok {
		r.mu.Unlock()
		return ErrDuplicate
	}
	r.items[q.ID] = q
	r.byKey[key] = q.ID
	r.order = append(r.order, q.ID)
	r.mu.Unlock()

	r.emit(ActionCreated, q.ID, q.OrderID)
	return nil
}

// FindByOrderSKU 按(order, sku)查找入库质检
func (r *QualityIntakeRepository) FindByOrderSKU(ctx context.Context, orderID, sku string) (*entity.QualityIntake, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byKey[orderSKUKey(orderID, sku)]
	if !ok {
		return nil, ErrNotFound
	}
	return r.items[id], nil
}

// FindAll 全部入库质检（按创建顺序）
func (r *QualityIntakeRepository) FindAll(ctx context.Context) ([]entity.QualityIntake, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.QualityIntake, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.items[id])
	}
	return out, nil
}

// RejectedOrderRepository 不合格待处理集合
type RejectedOrderRepository struct {
	notifier

	mu    sync.RWMutex
	items map[string]*entity.RejectedOrder
	byKey map[string]string
	order []string
	codes codeSeq
}

func NewRejectedOrderRepository() *RejectedOrderRepository {
	return &RejectedOrderRepository{
		notifier: notifier{collection: CollectionRejectedOrders},
		items:    make(map[string]*entity.RejectedOrder),
		byKey:    make(map[string]string),
		codes:    codeSeq{prefix: "REJ"},
	}
}

// GenerateCode 生成不合格单编码 REJ-{year}-{4位}
func (r *RejectedOrderRepository) GenerateCode(ctx context.Context) (string, error) {
	return r.codes.Next(), nil
}

// Create 创建不合格单；同一(order, sku)重复创建返回ErrDuplicate
func (r *RejectedOrderRepository) Create(ctx context.Context, rej *entity.RejectedOrder) error {
	key := orderSKUKey(rej.OrderID, rej.SKU)
	r.mu.Lock()
	if _, ok := r.byKey[key]; ok {
		r.mu.Unlock()
		return ErrDuplicate
	}
	r.items[rej.ID] = rej
	r.byKey[key] = rej.ID
	r.order = append(r.order, rej.ID)
	r.mu.Unlock()

	r.emit(ActionCreated, rej.ID, rej.OrderID)
	return nil
}

// Update 更新不合格单
func (r *RejectedOrderRepository) Update(ctx context.Context, rej *entity.RejectedOrder) error {
	r.mu.Lock()
	if _, ok := r.items[rej.ID]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	r.items[rej.ID] = rej
	r.mu.Unlock()

	r.emit(ActionUpdated, rej.ID, rej.OrderID)
	return nil
}

// FindByOrderSKU 按(order, sku)查找不合格单
func (r *RejectedOrderRepository) FindByOrderSKU(ctx context.Context, orderID, sku string) (*entity.RejectedOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byKey[orderSKUKey(orderID, sku)]
	if !ok {
		return nil, ErrNotFound
	}
	return r.items[id], nil
}

// FindAll 全部不合格单（按创建顺序）
func (r *RejectedOrderRepository) FindAll(ctx context.Context) ([]entity.RejectedOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.RejectedOrder, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.items[id])
	}
	return out, nil
}
