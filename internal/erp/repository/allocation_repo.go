package repository

import (
	"context"
	"sync"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/entity"
)

// AllocationRepository 分配单集合（一单一条）
type AllocationRepository struct {
	notifier

	mu      sync.RWMutex
	items   map[string]*entity.Allocation
	byOrder map[string]string
}

func NewAllocationRepository() *AllocationRepository {
	return &AllocationRepository{
		notifier: notifier{collection: CollectionAllocations},
		items:    make(map[string]*entity.Allocation),
		byOrder:  make(map[string]string),
	}
}

// Create 创建分配单；同一订单重复创建返回ErrDuplicate
func (r *AllocationRepository) Create(ctx context.Context, a *entity.Allocation) error {
	r.mu.Lock()
	if _, ok := r.byOrder[a.OrderID]; ok {
		r.mu.Unlock()
		return ErrDuplicate
	}
	r.items[a.ID] = a
	r.byOrder[a.OrderID] = a.ID
	r.mu.Unlock()

	r.emit(ActionCreated, a.ID, a.OrderID)
	return nil
}

// FindByID 按ID查找分配单
func (r *AllocationRepository) FindByID(ctx context.Context, id string) (*entity.Allocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

// FindByOrderID 按订单查找分配单
func (r *AllocationRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.Allocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byOrder[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	return r.items[id], nil
}

// SKURepository 产品档案集合
type SKURepository struct {
	notifier

	mu     sync.RWMutex
	items  map[string]*entity.SKU
	byCode map[string]string
}

func NewSKURepository() *SKURepository {
	return &SKURepository{
		notifier: notifier{collection: CollectionSKUs},
		items:    make(map[string]*entity.SKU),
		byCode:   make(map[string]string),
	}
}

// Create 创建SKU
func (r *SKURepository) Create(ctx context.Context, s *entity.SKU) error {
	r.mu.Lock()
	if _, ok := r.byCode[s.Code]; ok {
		r.mu.Unlock()
		return ErrDuplicate
	}
	r.items[s.ID] = s
	r.byCode[s.Code] = s.ID
	r.mu.Unlock()

	r.emit(ActionCreated, s.ID, "")
	return nil
}

// Update 更新SKU
func (r *SKURepository) Update(ctx context.Context, s *entity.SKU) error {
	r.mu.Lock()
	if _, ok := r.items[s.ID]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	r.items[s.ID] = s
	r.byCode[s.Code] = s.ID
	r.mu.Unlock()

	r.emit(ActionUpdated, s.ID, "")
	return nil
}

// FindByCode 按编码查找SKU
func (r *SKURepository) FindByCode(ctx context.Context, code string) (*entity.SKU, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	return r.items[id], nil
}
