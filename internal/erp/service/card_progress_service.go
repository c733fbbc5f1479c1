package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/entity"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/repository"
)

// CardProgressService 卡片进度引擎：按卡片类型选阶段模板，一个订单行项一条
type CardProgressService struct {
	progressRepo   *repository.CardProgressRepository
	allocationRepo *repository.AllocationRepository
	skuRepo        *repository.SKURepository
	logger         *zap.Logger
}

func NewCardProgressService(
	progressRepo *repository.CardProgressRepository,
	allocationRepo *repository.AllocationRepository,
	skuRepo *repository.SKURepository,
	logger *zap.Logger,
) *CardProgressService {
	return &CardProgressService{
		progressRepo:   progressRepo,
		allocationRepo: allocationRepo,
		skuRepo:        skuRepo,
		logger:         logger,
	}
}

// Create 按行项初始化卡片进度。幂等：已存在直接返回现有记录。
// SKU在下单前已定稿时，前4个公共设计阶段整段预置完成。
func (s *CardProgressService) Create(ctx context.Context, orderID string, item entity.OrderItem) (*entity.CardProgress, error) {
	if existing, err := s.progressRepo.FindByOrderSKU(ctx, orderID, item.SKU); err == nil {
		return existing, nil
	}

	alloc, err := s.allocationRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, ErrMissingAllocation
	}

	stages := entity.CardStageTemplate(alloc.CardType)
	if stages == nil {
		return nil, fmt.Errorf("未知卡片类型: %s", alloc.CardType)
	}

	designFinalized := false
	if sku, err := s.skuRepo.FindByCode(ctx, item.SKU); err == nil {
		designFinalized = sku.DesignFinalized
	}

	now := time.Now()
	for i := range stages {
		stages[i].ID = uuid.New().String()[:32]
	}
	if designFinalized {
		// 定稿SKU只预置完成设计段，后续阶段等人工启动
		for i := 0; i < 4 && i < len(stages); i++ {
			stages[i].Status = entity.StageCompleted
			stages[i].CompletedAt = &now
			stages[i].Remarks = "下单前已定稿"
		}
	} else {
		stages[0].Status = entity.StageInProgress
	}

	p := &entity.CardProgress{
		ID:        uuid.New().String()[:32],
		OrderID:   orderID,
		SKU:       item.SKU,
		CardType:  alloc.CardType,
		Stages:    stages,
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

	s.logger.Info("卡片进度已创建",
		zap.String("order_id", orderID),
		zap.String("sku", item.SKU),
		zap.String("card_type", alloc.CardType),
		zap.Int("stage_count", len(stages)))
	return p, nil
}

// UpdateCardStageRequest 卡片阶段补丁
type UpdateCardStageRequest struct {
	Status      *string    `json:"status"`
	ActualDays  *int       `json:"actual_days"`
	CompletedAt *time.Time `json:"completed_at"`
	Remarks     *string    `json:"remarks"`
}

// UpdateStage 按阶段ID应用补丁。完成校验前序阶段全部completed，
// 否则返回ErrInvalidTransition且状态不变；完成后无条件级联激活下一个not_started阶段。
func (s *CardProgressService) UpdateStage(ctx context.Context, progressID, stageID string, req *UpdateCardStageRequest) (*entity.CardProgress, error) {
	p, err := s.progressRepo.FindByID(ctx, progressID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, st := range p.Stages {
		if st.ID == stageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, repository.ErrNotFound
	}

	completing := req.Status != nil && *req.Status == entity.StageCompleted && p.Stages[idx].Status != entity.StageCompleted
	if completing {
		for i := 0; i < idx; i++ {
			if p.Stages[i].Status != entity.StageCompleted {
				return nil, ErrInvalidTransition
			}
		}
	}

	stage := &p.Stages[idx]
	if req.Status != nil {
		stage.Status = *req.Status
	}
	if req.ActualDays != nil {
		stage.ActualDays = *req.ActualDays
	}
	if req.Remarks != nil {
		stage.Remarks = *req.Remarks
	}
	if req.CompletedAt != nil {
		stage.CompletedAt = req.CompletedAt
	} else if completing {
		now := time.Now()
		stage.CompletedAt = &now
	}

	if completing {
		for i := idx + 1; i < len(p.Stages); i++ {
			if p.Stages[i].Status == entity.StageNotStarted {
				p.Stages[i].Status = entity.StageInProgress
				break
			}
		}
	}

	p.Recalculate()
	p.UpdatedAt = time.Now()
	if err := s.progressRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// MarkDelayed 标记阶段延期
func (s *CardProgressService) MarkDelayed(ctx context.Context, progressID, stageID, remarks string) (*entity.CardProgress, error) {
	status := entity.StageDelayed
	req := &UpdateCardStageRequest{Status: &status}
	if remarks != "" {
		req.Remarks = &remarks
	}
	return s.UpdateStage(ctx, progressID, stageID, req)
}

// Get 卡片进度详情
func (s *CardProgressService) Get(ctx context.Context, id string) (*entity.CardProgress, error) {
	return s.progressRepo.FindByID(ctx, id)
}

// GetByOrderSKU 按(order, sku)查卡片进度
func (s *CardProgressService) GetByOrderSKU(ctx context.Context, orderID, sku string) (*entity.CardProgress, error) {
	return s.progressRepo.FindByOrderSKU(ctx, orderID, sku)
}

// List 全部卡片进度
func (s *CardProgressService) List(ctx context.Context) ([]entity.CardProgress, error) {
	return s.progressRepo.FindAll(ctx)
}
