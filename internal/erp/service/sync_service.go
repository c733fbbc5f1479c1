package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/entity"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/eventbus"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/repository"
)

// SyncService 跨模块同步器。订阅订单/分配/三路进度集合的变更，
// 把到货检验记录维持为已分配订单行项的投影；检验完成后按结果
// 派生排产、入库质检或不合格单，并在总线上发布联动事件。
//
// 变更通知按事件里的OrderID收敛重扫范围；Resync是全量兜底。
type SyncService struct {
	repos  *repository.Repositories
	bus    *eventbus.Bus
	logger *zap.Logger

	unsubscribes []func()
}

func NewSyncService(repos *repository.Repositories, bus *eventbus.Bus, logger *zap.Logger) *SyncService {
	return &SyncService{
		repos:  repos,
		bus:    bus,
		logger: logger,
	}
}

// Start 挂接集合订阅。只订阅上游集合，检验/下游集合的变更
// 由同步器自己产生，订阅会造成自环。
func (s *SyncService) Start() {
	sources := []interface {
		Subscribe(repository.Listener) func()
	}{
		s.repos.Order,
		s.repos.Allocation,
		s.repos.ProcurementProgress,
		s.repos.CardProgress,
		s.repos.AccessoryProgress,
	}
	for _, src := range sources {
		s.unsubscribes = append(s.unsubscribes, src.Subscribe(s.onChange))
	}
}

// Stop 退订全部集合
func (s *SyncService) Stop() {
	for _, unsub := range s.unsubscribes {
		unsub()
	}
	s.unsubscribes = nil
}

func (s *SyncService) onChange(ev repository.ChangeEvent) {
	if ev.OrderID == "" {
		return
	}
	if err := s.SyncOrder(context.Background(), ev.OrderID); err != nil {
		s.logger.Warn("同步订单失败",
			zap.String("collection", ev.Collection),
			zap.String("order_id", ev.OrderID),
			zap.Error(err))
	}
}

// Resync 全量重扫：遍历全部已分配订单补齐检验记录。启动兜底用。
func (s *SyncService) Resync(ctx context.Context) error {
	orders, err := s.repos.Order.FindAllocatedOrLater(ctx)
	if err != nil {
		return err
	}
	for _, o := range orders {
		if err := s.SyncOrder(ctx, o.ID); err != nil {
			s.logger.Warn("重扫订单失败", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	return nil
}

// SyncOrder 同步单个订单：已分配订单的每个行项保证有一条检验记录，
// 已有的只刷新三路进度快照。缺失分配单记日志跳过，不算失败。
func (s *SyncService) SyncOrder(ctx context.Context, orderID string) error {
	o, err := s.repos.Order.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !entity.IsAllocatedOrLater(o.Status) {
		return nil
	}

	alloc, err := s.repos.Allocation.FindByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Warn("已分配订单缺少分配单，跳过", zap.String("order_id", orderID))
		return nil
	}

	productType := entity.ProductTypeSemiFinished
	if alloc.PackagingType == entity.PackagingExternal {
		productType = entity.ProductTypeFinished
	}

	for _, item := range o.Items {
		procPct, cardPct, accPct := s.progressSnapshot(ctx, orderID, item.SKU)

		insp, err := s.repos.Inspection.FindByOrderSKU(ctx, orderID, item.SKU)
		if errors.Is(err, repository.ErrNotFound) {
			code, _ := s.repos.Inspection.GenerateCode(ctx)
			now := time.Now()
			insp = &entity.ArrivalInspection{
				ID:                 uuid.New().String()[:32],
				Code:               code,
				OrderID:            orderID,
				SKU:                item.SKU,
				ProductName:        item.ProductName,
				ProductType:        productType,
				ExpectedQty:        item.Quantity,
				Status:             entity.InspectionStatusPending,
				ProcurementPercent: procPct,
				CardPercent:        cardPct,
				AccessoryPercent:   accPct,
				CreatedAt:          now,
				UpdatedAt:          now,
			}
			if err := s.repos.Inspection.Create(ctx, insp); err != nil && !errors.Is(err, repository.ErrDuplicate) {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		if insp.ProcurementPercent != procPct || insp.CardPercent != cardPct || insp.AccessoryPercent != accPct {
			insp.ProcurementPercent = procPct
			insp.CardPercent = cardPct
			insp.AccessoryPercent = accPct
			insp.UpdatedAt = time.Now()
			if err := s.repos.Inspection.Update(ctx, insp); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *SyncService) progressSnapshot(ctx context.Context, orderID, sku string) (proc, card, acc int) {
	if p, err := s.repos.ProcurementProgress.FindByOrderID(ctx, orderID); err == nil {
		proc = p.OverallProgress
	}
	if p, err := s.repos.CardProgress.FindByOrderSKU(ctx, orderID, sku); err == nil {
		card = p.OverallProgress
	}
	if p, err := s.repos.AccessoryProgress.FindByOrderSKU(ctx, orderID, sku); err == nil {
		acc = p.OverallProgress
	}
	return proc, card, acc
}

// CompleteInspectionRequest 完成检验请求
type CompleteInspectionRequest struct {
	Inspector  string   `json:"inspector" binding:"required"`
	ArrivalQty float64  `json:"arrival_qty"`
	Result     string   `json:"result" binding:"required"` // passed/failed
	Photos     []string `json:"photos"`
	Notes      string   `json:"notes"`
}

// CompleteInspection 完成检验并派生下游联动：
// 合格半成品进排产、合格成品进入库质检、不合格进待处理队列。
// 三路联动都按(order, sku)去重，重复完成不产生新记录或新事件。
func (s *SyncService) CompleteInspection(ctx context.Context, id string, req *CompleteInspectionRequest) (*entity.ArrivalInspection, error) {
	insp, err := s.repos.Inspection.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Result != entity.InspectionResultPassed && req.Result != entity.InspectionResultFailed {
		return nil, fmt.Errorf("未知检验结果: %s", req.Result)
	}

	now := time.Now()
	insp.Status = entity.InspectionStatusCompleted
	insp.Result = req.Result
	insp.Inspector = req.Inspector
	insp.IsArrived = true
	insp.ArrivalDate = &now
	insp.ArrivalQty = req.ArrivalQty
	insp.Photos = append(insp.Photos, req.Photos...)
	insp.Notes = req.Notes
	insp.UpdatedAt = now
	if err := s.repos.Inspection.Update(ctx, insp); err != nil {
		return nil, err
	}

	switch req.Result {
	case entity.InspectionResultPassed:
		if insp.ProductType == entity.ProductTypeSemiFinished {
			err = s.createSchedule(ctx, insp)
		} else {
			err = s.createQualityIntake(ctx, insp)
		}
	case entity.InspectionResultFailed:
		err = s.createRejectedOrder(ctx, insp, req.Notes)
	}
	if err != nil {
		return nil, err
	}
	return insp, nil
}

func (s *SyncService) createSchedule(ctx context.Context, insp *entity.ArrivalInspection) error {
	if _, err := s.repos.Schedule.FindByOrderSKU(ctx, insp.OrderID, insp.SKU); err == nil {
		return nil
	}

	code, _ := s.repos.Schedule.GenerateCode(ctx)
	now := time.Now()
	sched := &entity.ProductionSchedule{
		ID:            uuid.New().String()[:32],
		Code:          code,
		OrderID:       insp.OrderID,
		SKU:           insp.SKU,
		ProductName:   insp.ProductName,
		Quantity:      insp.ArrivalQty,
		Machine:       entity.DefaultMachine,
		PackagingLine: entity.DefaultPackagingLine,
		PlannedStart:  now,
		PlannedEnd:    now.AddDate(0, 0, entity.DefaultScheduleLeadDays),
		Status:        entity.ScheduleStatusPlanned,
		CreatedAt:     now,
	}
	if err := s.repos.Schedule.Create(ctx, sched); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		return err
	}

	s.bus.Publish(eventbus.Event{
		Topic:   eventbus.TopicScheduleCreated,
		OrderID: sched.OrderID,
		SKU:     sched.SKU,
		Payload: sched,
	})
	s.logger.Info("已生成排产记录",
		zap.String("order_id", sched.OrderID),
		zap.String("sku", sched.SKU),
		zap.String("code", sched.Code))
	return nil
}

func (s *SyncService) createQualityIntake(ctx context.Context, insp *entity.ArrivalInspection) error {
	if _, err := s.repos.QualityIntake.FindByOrderSKU(ctx, insp.OrderID, insp.SKU); err == nil {
		return nil
	}

	code, _ := s.repos.QualityIntake.GenerateCode(ctx)
	qi := &entity.QualityIntake{
		ID:          uuid.New().String()[:32],
		Code:        code,
		OrderID:     insp.OrderID,
		SKU:         insp.SKU,
		ProductName: insp.ProductName,
		ExpectedQty: insp.ExpectedQty,
		ReceivedQty: insp.ArrivalQty,
		Status:      entity.IntakeStatusPending,
		CreatedAt:   time.Now(),
	}
	if err := s.repos.QualityIntake.Create(ctx, qi); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		return err
	}

	s.bus.Publish(eventbus.Event{
		Topic:   eventbus.TopicQualityIntakeCreated,
		OrderID: qi.OrderID,
		SKU:     qi.SKU,
		Payload: qi,
	})
	s.logger.Info("已生成入库质检",
		zap.String("order_id", qi.OrderID),
		zap.String("sku", qi.SKU),
		zap.String("code", qi.Code))
	return nil
}

// createRejectedOrder 不合格单同样按(order, sku)去重：
// 重复不合格只追加原因，不再新建记录、不再发事件。
func (s *SyncService) createRejectedOrder(ctx context.Context, insp *entity.ArrivalInspection, notes string) error {
	reason := fmt.Sprintf("%s检验不合格", productTypeName(insp.ProductType))
	if notes != "" {
		reason = fmt.Sprintf("%s: %s", reason, notes)
	}

	if existing, err := s.repos.RejectedOrder.FindByOrderSKU(ctx, insp.OrderID, insp.SKU); err == nil {
		existing.RejectionReason = reason
		existing.UpdatedAt = time.Now()
		return s.repos.RejectedOrder.Update(ctx, existing)
	}

	code, _ := s.repos.RejectedOrder.GenerateCode(ctx)
	now := time.Now()
	rej := &entity.RejectedOrder{
		ID:              uuid.New().String()[:32],
		Code:            code,
		OrderID:         insp.OrderID,
		SKU:             insp.SKU,
		ProductType:     insp.ProductType,
		RejectionReason: reason,
		Status:          entity.RejectedStatusOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repos.RejectedOrder.Create(ctx, rej); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		return err
	}

	s.bus.Publish(eventbus.Event{
		Topic:   eventbus.TopicRejectedOrderCreated,
		OrderID: rej.OrderID,
		SKU:     rej.SKU,
		Payload: rej,
	})
	s.logger.Info("已生成不合格待处理单",
		zap.String("order_id", rej.OrderID),
		zap.String("sku", rej.SKU),
		zap.String("reason", reason))
	return nil
}

func productTypeName(productType string) string {
	if productType == entity.ProductTypeFinished {
		return "成品"
	}
	return "半成品"
}

// GetInspection 检验详情
func (s *SyncService) GetInspection(ctx context.Context, id string) (*entity.ArrivalInspection, error) {
	return s.repos.Inspection.FindByID(ctx, id)
}

// ListInspections 检验列表
func (s *SyncService) ListInspections(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ArrivalInspection, int64, error) {
	return s.repos.Inspection.FindAll(ctx, page, pageSize, filters)
}

// ListSchedules 排产列表
func (s *SyncService) ListSchedules(ctx context.Context) ([]entity.ProductionSchedule, error) {
	return s.repos.Schedule.FindAll(ctx)
}

// ListQualityIntakes 入库质检列表
func (s *SyncService) ListQualityIntakes(ctx context.Context) ([]entity.QualityIntake, error) {
	return s.repos.QualityIntake.FindAll(ctx)
}

// ListRejectedOrders 不合格单列表
func (s *SyncService) ListRejectedOrders(ctx context.Context) ([]entity.RejectedOrder, error) {
	return s.repos.RejectedOrder.FindAll(ctx)
}
