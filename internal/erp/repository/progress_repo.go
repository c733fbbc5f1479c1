package repository

import (
	"context"
	"sync"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/entity"
)

// ProcurementProgressRepository 采购进度集合（一单一条）
type ProcurementProgressRepository struct {
	notifier

	mu      sync.RWMutex
	items   map[string]*entity.ProcurementProgress
	byOrder map[string]string
	order   []string
}

func NewProcurementProgressRepository() *ProcurementProgressRepository {
	return &ProcurementProgressRepository{
		notifier: notifier{collection: CollectionProcurementProgress},
		items:    make(map[string]*entity.ProcurementProgress),
		byOrder:  make(map[string]string),
	}
}

// Create 创建采购进度；同一订单重复创建返回ErrDuplicate
func (r *ProcurementProgressRepository) Create(ctx context.Context, p *entity.ProcurementProgress) error {
	r.mu.Lock()
	if _, ok := r.byOrder[p.OrderID]; ok {
		r.mu.Unlock()
		return ErrDuplicate
	}
	r.items[p.ID] = p
	r.byOrder[p.OrderID] = p.ID
	r.order = append(r.order, p.ID)
	r.mu.Unlock()

	r.emit(ActionCreated, p.ID, p.OrderID)
	return nil
}

// Update 更新采购进度
func (r *ProcurementProgressRepository) Update(ctx context.Context, p *entity.ProcurementProgress) error {
	r.mu.Lock()
	if _, ok := r.items[p.ID]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	r.items[p.ID] = p
	r.mu.Unlock()

	r.emit(ActionUpdated, p.ID, p.OrderID)
	return nil
}

// FindByID 按ID查找采购进度
func (r *ProcurementProgressRepository) FindByID(ctx context.Context, id string) (*entity.ProcurementProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// FindByOrderID 按订单查找采购进度
func (r *ProcurementProgressRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.ProcurementProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byOrder[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	return r.items[id], nil
}

// FindAll 全部采购进度（按创建顺序）
func (r *ProcurementProgressRepository) FindAll(ctx context.Context) ([]entity.ProcurementProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.ProcurementProgress, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.items[id])
	}
	return out, nil
}

// orderSKUKey (order, sku)去重键
func orderSKUKey(orderID, sku string) string {
	return orderID + "|" + sku
}

// CardProgressRepository 卡片进度集合（一个订单行项一条）
type CardProgressRepository struct {
	notifier

	mu    sync.RWMutex
	items map[string]*entity.CardProgress
	byKey map[string]string
	order []string
}

func NewCardProgressRepository() *CardProgressRepository {
	return &CardProgressRepository{
		notifier: notifier{collection: CollectionCardProgress},
		items:    make(map[string]*entity.CardProgress),
		byKey:    make(map[string]string),
	}
}

// Create 创建卡片进度；同一(order, sku)重复创建返回ErrDuplicate
func (r *CardProgressRepository) Create(ctx context.Context, p *entity.CardProgress) error {
	key := orderSKUKey(p.OrderID, p.SKU)
	r.mu.Lock()
	if _, ok := r.byKey[key]; ok {
		r.mu.Unlock()
		return ErrDuplicate
	}
	r.items[p.ID] = p
	r.byKey[key] = p.ID
	r.order = append(r.order, p.ID)
	r.mu.Unlock()

	r.emit(ActionCreated, p.ID, p.OrderID)
	return nil
}

// Update 更新卡片进度
func (r *CardProgressRepository) Update(ctx context.Context, p *entity.CardProgress) error {
	r.mu.Lock()
	if _, ok := r.items[p.ID]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	r.items[p.ID] = p
	r.mu.Unlock()

	r.emit(ActionUpdated, p.ID, p.OrderID)
	return nil
}

// FindByID 按ID查找卡片进度
func (r *CardProgressRepository) FindByID(ctx context.Context, id string) (*entity.CardProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// FindByOrderSKU 按(order, sku)查找卡片进度
func (r *CardProgressRepository) FindByOrderSKU(ctx context.Context, orderID, sku string) (*entity.CardProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byKey[orderSKUKey(orderID, sku)]
	if !ok {
		return nil, ErrNotFound
	}
	return r.items[id], nil
}

// FindByOrderID 订单下全部卡片进度
func (r *CardProgressRepository) FindByOrderID(ctx context.Context, orderID string) ([]entity.CardProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.CardProgress
	for _, id := range r.order {
		if r.items[id].OrderID == orderID {
			out = append(out, *r.items[id])
		}
	}
	return out, nil
}

// FindAll 全部卡片进度（按创建顺序）
func (r *CardProgressRepository) FindAll(ctx context.Context) ([]entity.CardProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.CardProgress, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.items[id])
	}
	return out, nil
}

// AccessoryProgressRepository 辅料进度集合（自制包装的订单行项一条）
type AccessoryProgressRepository struct {
	notifier

	mu    sync.RWMutex
	items map[string]*entity.AccessoryProgress
	byKey map[string]string
	order []string
}

func NewAccessoryProgressRepository() *AccessoryProgressRepository {
	return &AccessoryProgressRepository{
		notifier: notifier{collection: CollectionAccessoryProgress},
		items:    make(map[string]*entity.AccessoryProgress),
		byKey:    make(map[string]string),
	}
}

// Create 创建辅料进度；同一(order, sku)重复创建返回ErrDuplicate
func (r *AccessoryProgressRepository) Create(ctx context.Context, p *entity.AccessoryProgress) error {
	key := orderSKUKey(p.OrderID, p.SKU)
	r.mu.Lock()
	if _, ok := r.byKey[key]; ok {
		r.mu.Unlock()
		return ErrDuplicate
	}
	r.items[p.ID] = p
	r.byKey[key] = p.ID
	r.order = append(r.order, p.ID)
	r.mu.Unlock()

	r.emit(ActionCreated, p.ID, p.OrderID)
	return nil
}

// Update 更新辅料进度
func (r *AccessoryProgressRepository) Update(ctx context.Context, p *entity.AccessoryProgress) error {
	r.mu.Lock()
	if _, ok := r.items[p.ID]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	r.items[p.ID] = p
	r.mu.Unlock()

	r.emit(ActionUpdated, p.ID, p.OrderID)
	return nil
}

// FindByID 按ID查找辅料进度
func (r *AccessoryProgressRepository) FindByID(ctx context.Context, id string) (*entity.AccessoryProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// FindByOrderSKU 按(order, sku)查找辅料进度
func (r *AccessoryProgressRepository) FindByOrderSKU(ctx context.Context, orderID, sku string) (*entity.AccessoryProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byKey[orderSKUKey(orderID, sku)]
	if !ok {
		return nil, ErrNotFound
	}
	return r.items[id], nil
}

// FindByOrderID 订单下全部辅料进度
func (r *AccessoryProgressRepository) FindByOrderID(ctx context.Context, orderID string) ([]entity.AccessoryProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.AccessoryProgress
	for _, id := range r.order {
		if r.items[id].OrderID == orderID {
			out = append(out, *r.items[id])
		}
	}
	return out, nil
}

// FindAll 全部辅料进度（按创建顺序）
func (r *AccessoryProgressRepository) FindAll(ctx context.Context) ([]entity.AccessoryProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.AccessoryProgress, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.items[id])
	}
	return out, nil
}
