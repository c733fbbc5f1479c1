package repository

import (
	"context"
	"sync"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/entity"
)

// InspectionRepository 到货检验集合
type InspectionRepository struct {
	notifier

	mu    sync.RWMutex
	items map[string]*entity.ArrivalInspection
	byKey map[string]string
	order []string
	codes codeSeq
}

func NewInspectionRepository() *InspectionRepository {
	return &InspectionRepository{
		notifier: notifier{collection: CollectionInspections},
		items:    make(map[string]*entity.ArrivalInspection),
		byKey:    make(map[string]string),
		codes:    codeSeq{prefix: "INS"},
	}
}

// GenerateCode 生成检验编码 INS-{year}-{4位}
func (r *InspectionRepository) GenerateCode(ctx context.Context) (string, error) {
	return r.codes.Next(), nil
}

// Create 创建检验记录；同一(order, sku)重复创建返回ErrDuplicate
func (r *InspectionRepository) Create(ctx context.Context, insp *entity.ArrivalInspection) error {
	key := orderSKUKey(insp.OrderID, insp.SKU)
	r.mu.Lock()
	if _, ok := r.byKey[key]; ok {
		r.mu.Unlock()
		return ErrDuplicate
	}
	r.items[insp.ID] = insp
	r.byKey[key] = insp.ID
	r.order = append(r.order, insp.ID)
	r.mu.Unlock()

	r.emit(ActionCreated, insp.ID, insp.OrderID)
	return nil
}

// Update 更新检验记录
func (r *InspectionRepository) Update(ctx context.Context, insp *entity.ArrivalInspection) error {
	r.mu.Lock()
	if _, ok := r.items[insp.ID]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	r.items[insp.ID] = insp
	r.mu.Unlock()

	r.emit(ActionUpdated, insp.ID, insp.OrderID)
	return nil
}

// FindByID 按ID查找检验记录
func (r *InspectionRepository) FindByID(ctx context.Context, id string) (*entity.ArrivalInspection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	insp, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return insp, nil
}

// FindByOrderSKU 按(order, sku)查找检验记录
func (r *InspectionRepository) FindByOrderSKU(ctx context.Context, orderID, sku string) (*entity.ArrivalInspection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byKey[orderSKUKey(orderID, sku)]
	if !ok {
		return nil, ErrNotFound
	}
	return r.items[id], nil
}

// FindAll 检验列表（按创建顺序，支持status/result/order_id过滤和分页）
func (r *InspectionRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ArrivalInspection, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []entity.ArrivalInspection
	for _, id := range r.order {
		insp := r.items[id]
		if status := filters["status"]; status != "" && insp.Status != status {
			continue
		}
		if result := filters["result"]; result != "" && insp.Result != result {
			continue
		}
		if orderID := filters["order_id"]; orderID != "" && insp.OrderID != orderID {
			continue
		}
		matched = append(matched, *insp)
	}

	total := int64(len(matched))
	if pageSize <= 0 {
		return matched, total, nil
	}
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []entity.ArrivalInspection{}, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// CountPending 待检数量（仪表盘用）
func (r *InspectionRepository) CountPending(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, insp := range r.items {
		if insp.Status == entity.InspectionStatusPending {
			n++
		}
	}
	return n
}
