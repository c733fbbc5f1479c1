package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/entity"
)

// OrderRepository 订单集合
type OrderRepository struct {
	notifier

	mu    sync.RWMutex
	items map[string]*entity.Order
	order []string
	codes codeSeq
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		notifier: notifier{collection: CollectionOrders},
		items:    make(map[string]*entity.Order),
		codes:    codeSeq{prefix: "ORD"},
	}
}

// GenerateCode 生成订单编码 ORD-{year}-{4位}
func (r *OrderRepository) GenerateCode(ctx context.Context) (string, error) {
	return r.codes.Next(), nil
}

// Create 创建订单
func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	r.mu.Lock()
	if _, ok := r.items[o.ID]; ok {
		r.mu.Unlock()
		return ErrDuplicate
	}
	r.items[o.ID] = o
	r.order = append(r.order, o.ID)
	r.mu.Unlock()

	r.emit(ActionCreated, o.ID, o.ID)
	return nil
}

// Update 更新订单
func (r *OrderRepository) Update(ctx context.Context, o *entity.Order) error {
	r.mu.Lock()
	if _, ok := r.items[o.ID]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	r.items[o.ID] = o
	r.mu.Unlock()

	r.emit(ActionUpdated, o.ID, o.ID)
	return nil
}

// FindByID 按ID查找订单
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

// FindAll 订单列表（按创建顺序，支持status/search过滤和分页；pageSize<=0不分页）
func (r *OrderRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []entity.Order
	for _, id := range r.order {
		o := r.items[id]
		if status := filters["status"]; status != "" && o.Status != status {
			continue
		}
		if search := filters["search"]; search != "" &&
			!strings.Contains(o.OrderNo, search) && !strings.Contains(o.Title, search) {
			continue
		}
		matched = append(matched, *o)
	}

	total := int64(len(matched))
	if pageSize <= 0 {
		return matched, total, nil
	}
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []entity.Order{}, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// FindAllocatedOrLater 已进入分配后生命周期的订单（同步器重扫入口）
func (r *OrderRepository) FindAllocatedOrLater(ctx context.Context) ([]*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*entity.Order
	for _, id := range r.order {
		o := r.items[id]
		if entity.IsAllocatedOrLater(o.Status) {
			matched = append(matched, o)
		}
	}
	return matched, nil
}
