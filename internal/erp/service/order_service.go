package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/entity"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/repository"
)

// OrderService 订单服务：申请、审批、分配，以及分配后的进度引擎触发
type OrderService struct {
	orderRepo      *repository.OrderRepository
	allocationRepo *repository.AllocationRepository
	procurementSvc *ProcurementProgressService
	cardSvc        *CardProgressService
	accessorySvc   *AccessoryProgressService
	logger         *zap.Logger
}

func NewOrderService(
	orderRepo *repository.OrderRepository,
	allocationRepo *repository.AllocationRepository,
	procurementSvc *ProcurementProgressService,
	cardSvc *CardProgressService,
	accessorySvc *AccessoryProgressService,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		allocationRepo: allocationRepo,
		procurementSvc: procurementSvc,
		cardSvc:        cardSvc,
		accessorySvc:   accessorySvc,
		logger:         logger,
	}
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	Title    string            `json:"title" binding:"required"`
	Priority string            `json:"priority"`
	Notes    string            `json:"notes"`
	Items    []CreateOrderItem `json:"items" binding:"required"`
}

type CreateOrderItem struct {
	SKU         string   `json:"sku" binding:"required"`
	ProductName string   `json:"product_name" binding:"required"`
	Quantity    float64  `json:"quantity" binding:"required"`
	Unit        string   `json:"unit"`
	UnitPrice   *float64 `json:"unit_price"`
}

// CreateOrder 创建采购申请单
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req *CreateOrderRequest) (*entity.Order, error) {
	code, err := s.orderRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("生成订单编码失败: %w", err)
	}

	now := time.Now()
	o := &entity.Order{
		ID:          uuid.New().String()[:32],
		OrderNo:     code,
		Title:       req.Title,
		Status:      entity.OrderStatusPending,
		Priority:    req.Priority,
		RequestedBy: userID,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if o.Priority == "" {
		o.Priority = "normal"
	}

	for i, item := range req.Items {
		unit := item.Unit
		if unit == "" {
			unit = "pcs"
		}
		var total *float64
		if item.UnitPrice != nil {
			t := *item.UnitPrice * item.Quantity
			total = &t
		}
		o.Items = append(o.Items, entity.OrderItem{
			ID:          uuid.New().String()[:32],
			OrderID:     o.ID,
			SKU:         item.SKU,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Unit:        unit,
			UnitPrice:   item.UnitPrice,
			TotalAmount: total,
			SortOrder:   i + 1,
		})
	}

	if err := s.orderRepo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Submit 提交审批
func (s *OrderService) Submit(ctx context.Context, id string) (*entity.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != entity.OrderStatusPending && o.Status != entity.OrderStatusRejected {
		return nil, ErrInvalidStatus
	}
	now := time.Now()
	o.Status = entity.OrderStatusSubmitted
	o.SubmittedAt = &now
	o.UpdatedAt = now
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Approve 审批通过
func (s *OrderService) Approve(ctx context.Context, id, approverID string) (*entity.Order, error) {
	return s.review(ctx, id, approverID, entity.OrderStatusApproved)
}

// Reject 审批驳回
func (s *OrderService) Reject(ctx context.Context, id, approverID string) (*entity.Order, error) {
	return s.review(ctx, id, approverID, entity.OrderStatusRejected)
}

func (s *OrderService) review(ctx context.Context, id, approverID, status string) (*entity.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != entity.OrderStatusSubmitted {
		return nil, ErrInvalidStatus
	}
	now := time.Now()
	o.Status = status
	o.ApprovedBy = &approverID
	o.ApprovedAt = &now
	o.UpdatedAt = now
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// AllocateRequest 分配请求：固化包装归属、付款方式和卡片类型
type AllocateRequest struct {
	PackagingType    string  `json:"packaging_type" binding:"required"`
	PaymentMethod    string  `json:"payment_method" binding:"required"`
	PrepaymentAmount float64 `json:"prepayment_amount"`
	CardType         string  `json:"card_type" binding:"required"`
	Notes            string  `json:"notes"`
}

// Allocate 分配订单：创建分配单、把订单推进到allocated，
// 然后逐个触发三路进度引擎（辅料仅自制包装）。
func (s *OrderService) Allocate(ctx context.Context, orderID, userID string, req *AllocateRequest) (*entity.Allocation, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != entity.OrderStatusApproved {
		return nil, ErrInvalidStatus
	}
	// 三个枚举先行校验，避免分配单落盘后引擎创建才失败
	if err := validateAllocateRequest(req); err != nil {
		return nil, err
	}

	alloc := &entity.Allocation{
		ID:               uuid.New().String()[:32],
		OrderID:          orderID,
		PackagingType:    req.PackagingType,
		PaymentMethod:    req.PaymentMethod,
		PrepaymentAmount: req.PrepaymentAmount,
		CardType:         req.CardType,
		CreatedBy:        userID,
		CreatedAt:        time.Now(),
		Notes:            req.Notes,
	}
	if err := s.allocationRepo.Create(ctx, alloc); err != nil {
		return nil, err
	}

	o.Status = entity.OrderStatusAllocated
	o.UpdatedAt = time.Now()
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if _, err := s.procurementSvc.Create(ctx, orderID); err != nil {
		return nil, fmt.Errorf("创建采购进度失败: %w", err)
	}
	for _, item := range o.Items {
		if _, err := s.cardSvc.Create(ctx, orderID, item); err != nil {
			return nil, fmt.Errorf("创建卡片进度失败 sku=%s: %w", item.SKU, err)
		}
		if req.PackagingType == entity.PackagingInHouse {
			if _, err := s.accessorySvc.Create(ctx, orderID, item); err != nil {
				return nil, fmt.Errorf("创建辅料进度失败 sku=%s: %w", item.SKU, err)
			}
		}
	}

	s.logger.Info("订单已分配",
		zap.String("order_id", orderID),
		zap.String("packaging_type", req.PackagingType),
		zap.String("payment_method", req.PaymentMethod),
		zap.String("card_type", req.CardType))
	return alloc, nil
}

func validateAllocateRequest(req *AllocateRequest) error {
	switch req.PackagingType {
	case entity.PackagingExternal, entity.PackagingInHouse:
	default:
		return fmt.Errorf("未知包装类型 %s: %w", req.PackagingType, ErrInvalidStatus)
	}
	switch req.PaymentMethod {
	case entity.PaymentPayOnDelivery, entity.PaymentCashOnDelivery, entity.PaymentCreditTerms:
	default:
		return fmt.Errorf("未知付款方式 %s: %w", req.PaymentMethod, ErrInvalidStatus)
	}
	switch req.CardType {
	case entity.CardTypeFinished, entity.CardTypeDesign, entity.CardTypeNone:
	default:
		return fmt.Errorf("未知卡片类型 %s: %w", req.CardType, ErrInvalidStatus)
	}
	return nil
}

// 付款类型
const (
	PaymentKindDeposit = "deposit"
	PaymentKindFinal   = "final"
)

// ConfirmPayment 付款确认，内部归结为采购进度的定金/尾款阶段完成
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID, kind string) (*entity.ProcurementProgress, error) {
	var stageKey string
	switch kind {
	case PaymentKindDeposit:
		stageKey = entity.StageDepositPayment
	case PaymentKindFinal:
		stageKey = entity.StageFinalPayment
	default:
		return nil, fmt.Errorf("未知付款类型: %s", kind)
	}

	p, err := s.procurementSvc.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	status := entity.StageCompleted
	return s.procurementSvc.UpdateStage(ctx, p.ID, stageKey, &UpdateStageRequest{Status: &status})
}

// ConfirmCardDelivery 卡片到厂确认，归结为卡片供应阶段完成（不级联）
func (s *OrderService) ConfirmCardDelivery(ctx context.Context, orderID string) (*entity.ProcurementProgress, error) {
	p, err := s.procurementSvc.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	status := entity.StageCompleted
	return s.procurementSvc.UpdateStage(ctx, p.ID, entity.StageCardSupply, &UpdateStageRequest{Status: &status})
}

// Get 订单详情
func (s *OrderService) Get(ctx context.Context, id string) (*entity.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// List 订单列表
func (s *OrderService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Order, int64, error) {
	return s.orderRepo.FindAll(ctx, page, pageSize, filters)
}

// GetAllocation 按订单查分配单
func (s *OrderService) GetAllocation(ctx context.Context, orderID string) (*entity.Allocation, error) {
	return s.allocationRepo.FindByOrderID(ctx, orderID)
}
