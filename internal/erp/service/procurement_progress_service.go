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

// ProcurementProgressService 采购进度引擎：一单一条的7阶段付款/生产/发货流程
type ProcurementProgressService struct {
	progressRepo   *repository.ProcurementProgressRepository
	allocationRepo *repository.AllocationRepository
	logger         *zap.Logger
}

func NewProcurementProgressService(
	progressRepo *repository.ProcurementProgressRepository,
	allocationRepo *repository.AllocationRepository,
	logger *zap.Logger,
) *ProcurementProgressService {
	return &ProcurementProgressService{
		progressRepo:   progressRepo,
		allocationRepo: allocationRepo,
		logger:         logger,
	}
}

// Create 按分配单初始化采购进度。幂等：已存在直接返回现有记录。
//
// 两个门控条件：
//   - skipDeposit：月结或预付为0，定金阶段直接跳过并激活安排生产
//   - creditTerms：月结客户尾款阶段创建即完成
func (s *ProcurementProgressService) Create(ctx context.Context, orderID string) (*entity.ProcurementProgress, error) {
	if existing, err := s.progressRepo.FindByOrderID(ctx, orderID); err == nil {
		return existing, nil
	}

	alloc, err := s.allocationRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, ErrMissingAllocation
	}

	skipDeposit := alloc.PaymentMethod == entity.PaymentCreditTerms || alloc.PrepaymentAmount == 0
	creditTerms := alloc.PaymentMethod == entity.PaymentCreditTerms

	now := time.Now()
	stages := entity.ProcurementStageTemplate()
	if skipDeposit {
		stages[0].Status = entity.StageSkipped
		stages[0].CompletedAt = &now
		stages[1].Status = entity.StageInProgress
	} else if alloc.PrepaymentAmount > 0 {
		stages[0].Status = entity.StageInProgress
	}
	if creditTerms {
		for i := range stages {
			if stages[i].Key == entity.StageFinalPayment {
				stages[i].Status = entity.StageCompleted
				stages[i].CompletedAt = &now
				stages[i].Remarks = "月结客户，无需支付尾款"
				break
			}
		}
	}

	p := &entity.ProcurementProgress{
		ID:        uuid.New().String()[:32],
		OrderID:   orderID,
		Stages:    stages,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.Recalculate()

	if err := s.progressRepo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return s.progressRepo.FindByOrderID(ctx, orderID)
		}
		return nil, err
	}

	s.logger.Info("采购进度已创建",
		zap.String("order_id", orderID),
		zap.Bool("skip_deposit", skipDeposit),
		zap.Bool("credit_terms", creditTerms))
	return p, nil
}

// UpdateStageRequest 阶段补丁
type UpdateStageRequest struct {
	Status      *string    `json:"status"`
	CompletedAt *time.Time `json:"completed_at"`
	Remarks     *string    `json:"remarks"`
}

// UpdateStage 按阶段key应用补丁。补丁置为completed且该阶段Cascades时，
// 从该阶段向后激活最近一个not_started阶段；卡片供应不级联。
func (s *ProcurementProgressService) UpdateStage(ctx context.Context, progressID, stageKey string, req *UpdateStageRequest) (*entity.ProcurementProgress, error) {
	p, err := s.progressRepo.FindByID(ctx, progressID)
	if err != nil {
		return nil, err
	}

	idx := p.StageIndex(stageKey)
	if idx < 0 {
		return nil, repository.ErrNotFound
	}

	stage := &p.Stages[idx]
	completing := req.Status != nil && *req.Status == entity.StageCompleted && stage.Status != entity.StageCompleted

	if req.Status != nil {
		stage.Status = *req.Status
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

	if completing && stage.Cascades {
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

// Get 采购进度详情
func (s *ProcurementProgressService) Get(ctx context.Context, id string) (*entity.ProcurementProgress, error) {
	return s.progressRepo.FindByID(ctx, id)
}

// GetByOrder 按订单查采购进度
func (s *ProcurementProgressService) GetByOrder(ctx context.Context, orderID string) (*entity.ProcurementProgress, error) {
	return s.progressRepo.FindByOrderID(ctx, orderID)
}

// List 全部采购进度
func (s *ProcurementProgressService) List(ctx context.Context) ([]entity.ProcurementProgress, error) {
	return s.progressRepo.FindAll(ctx)
}
