package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/entity"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/repository"
)

// AccessoryProgressService 辅料进度引擎：自制包装的固定5项清单，加权完成度
type AccessoryProgressService struct {
	progressRepo   *repository.AccessoryProgressRepository
	allocationRepo *repository.AllocationRepository
	logger         *zap.Logger
}

func NewAccessoryProgressService(
	progressRepo *repository.AccessoryProgressRepository,
	allocationRepo *repository.AllocationRepository,
	logger *zap.Logger,
) *AccessoryProgressService {
	return &AccessoryProgressService{
		progressRepo:   progressRepo,
		allocationRepo: allocationRepo,
		logger:         logger,
	}
}

// Create 按行项初始化辅料进度，仅自制包装订单调用。幂等。
func (s *AccessoryProgressService) Create(ctx context.Context, orderID string, item entity.OrderItem) (*entity.AccessoryProgress, error) {
	if existing, err := s.progressRepo.FindByOrderSKU(ctx, orderID, item.SKU); err == nil {
		return existing, nil
	}

	alloc, err := s.allocationRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, ErrMissingAllocation
	}
	if alloc.PackagingType != entity.PackagingInHouse {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	p := &entity.AccessoryProgress{
		ID:        uuid.New().String()[:32],
		OrderID:   orderID,
		SKU:       item.SKU,
		Items:     entity.AccessoryItemTemplate(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.Recalculate()

	if err := s.progressRepo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return s.progressRepo.FindByOrderSKU(ctx, orderID, item.SKU)
		}
		return nil, err
	}

	s.logger.Info("辅料进度已创建",
		zap.String("order_id", orderID),
		zap.String("sku", item.SKU))
	return p, nil
}

// UpdateAccessoryItem 单项补丁
type UpdateAccessoryItem struct {
	Type     string   `json:"type" binding:"required"`
	Status   *string  `json:"status"`
	UnitCost *float64 `json:"unit_cost"`
	Remarks  *string  `json:"remarks"`
}

// UpdateAccessoryRequest 辅料进度补丁：成本编辑和状态变更走同一入口
type UpdateAccessoryRequest struct {
	Items    []UpdateAccessoryItem `json:"items"`
	MoldCost *float64              `json:"mold_cost"`
	DieCost  *float64              `json:"die_cost"`
}

// Update 字段合并式更新：逐项套补丁后重算完成度和总成本
func (s *AccessoryProgressService) Update(ctx context.Context, id string, req *UpdateAccessoryRequest) (*entity.AccessoryProgress, error) {
	p, err := s.progressRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 先整体校验再套补丁，失败的请求不留半截状态
	for _, patch := range req.Items {
		if p.ItemIndex(patch.Type) < 0 {
			return nil, repository.ErrNotFound
		}
	}

	for _, patch := range req.Items {
		it := &p.Items[p.ItemIndex(patch.Type)]
		if patch.Status != nil {
			completing := *patch.Status == entity.StageCompleted && it.Status != entity.StageCompleted
			it.Status = *patch.Status
			if completing {
				now := time.Now()
				it.CompletedAt = &now
			}
		}
		if patch.UnitCost != nil {
			it.UnitCost = patch.UnitCost
		}
		if patch.Remarks != nil {
			it.Remarks = *patch.Remarks
		}
	}
	if req.MoldCost != nil {
		p.MoldCost = req.MoldCost
	}
	if req.DieCost != nil {
		p.DieCost = req.DieCost
	}

	p.Recalculate()
	p.UpdatedAt = time.Now()
	if err := s.progressRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CompleteItems 批量完成指定类型的辅料项
func (s *AccessoryProgressService) CompleteItems(ctx context.Context, id string, types []string) (*entity.AccessoryProgress, error) {
	req := &UpdateAccessoryRequest{}
	status := entity.StageCompleted
	for _, t := range types {
		req.Items = append(req.Items, UpdateAccessoryItem{Type: t, Status: &status})
	}
	return s.Update(ctx, id, req)
}

// Get 辅料进度详情
func (s *AccessoryProgressService) Get(ctx context.Context, id string) (*entity.AccessoryProgress, error) {
	return s.progressRepo.FindByID(ctx, id)
}

// GetByOrderSKU 按(order, sku)查辅料进度
func (s *AccessoryProgressService) GetByOrderSKU(ctx context.Context, orderID, sku string) (*entity.AccessoryProgress, error) {
	return s.progressRepo.FindByOrderSKU(ctx, orderID, sku)
}

// List 全部辅料进度
func (s *AccessoryProgressService) List(ctx context.Context) ([]entity.AccessoryProgress, error) {
	return s.progressRepo.FindAll(ctx)
}
