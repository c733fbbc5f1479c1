package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/entity"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/repository"
)

const (
	dashboardCacheKey = "erp:dashboard:summary"
	dashboardCacheTTL = 30 * time.Second
)

// DashboardService 看板汇总。Redis缓存30秒，未配置Redis时直接现算。
type DashboardService struct {
	repos  *repository.Repositories
	rdb    *redis.Client
	logger *zap.Logger
}

func NewDashboardService(repos *repository.Repositories, rdb *redis.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		repos:  repos,
		rdb:    rdb,
		logger: logger,
	}
}

// DashboardSummary 看板汇总数据
type DashboardSummary struct {
	OrderTotal        int            `json:"order_total"`
	OrdersByStatus    map[string]int `json:"orders_by_status"`
	PendingInspection int            `json:"pending_inspection"`
	OpenRejections    int            `json:"open_rejections"`
	ScheduleTotal     int            `json:"schedule_total"`
	IntakeTotal       int            `json:"intake_total"`
	AvgProcurementPct int            `json:"avg_procurement_pct"`
	AvgCardPct        int            `json:"avg_card_pct"`
	AvgAccessoryPct   int            `json:"avg_accessory_pct"`
	GeneratedAt       time.Time      `json:"generated_at"`
}

// GetSummary 看板汇总，带缓存
func (s *DashboardService) GetSummary(ctx context.Context) (*DashboardSummary, error) {
	if s.rdb != nil {
		if data, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var cached DashboardSummary
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.rdb.Set(ctx, dashboardCacheKey, data, dashboardCacheTTL).Err(); err != nil {
				s.logger.Warn("看板缓存写入失败", zap.Error(err))
			}
		}
	}
	return summary, nil
}

// Invalidate 主动失效缓存（检验完成等写路径调用）
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, dashboardCacheKey).Err(); err != nil {
		s.logger.Warn("看板缓存失效失败", zap.Error(err))
	}
}

func (s *DashboardService) compute(ctx context.Context) (*DashboardSummary, error) {
	orders, total, err := s.repos.Order.FindAll(ctx, 0, 0, nil)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int)
	for _, o := range orders {
		byStatus[o.Status]++
	}

	summary := &DashboardSummary{
		OrderTotal:        int(total),
		OrdersByStatus:    byStatus,
		PendingInspection: s.repos.Inspection.CountPending(ctx),
		GeneratedAt:       time.Now(),
	}

	if rejected, err := s.repos.RejectedOrder.FindAll(ctx); err == nil {
		for _, r := range rejected {
			if r.Status == entity.RejectedStatusOpen {
				summary.OpenRejections++
			}
		}
	}
	if schedules, err := s.repos.Schedule.FindAll(ctx); err == nil {
		summary.ScheduleTotal = len(schedules)
	}
	if intakes, err := s.repos.QualityIntake.FindAll(ctx); err == nil {
		summary.IntakeTotal = len(intakes)
	}

	if list, err := s.repos.ProcurementProgress.FindAll(ctx); err == nil && len(list) > 0 {
		sum := 0
		for _, p := range list {
			sum += p.OverallProgress
		}
		summary.AvgProcurementPct = sum / len(list)
	}
	if list, err := s.repos.CardProgress.FindAll(ctx); err == nil && len(list) > 0 {
		sum := 0
		for _, p := range list {
			sum += p.OverallProgress
		}
		summary.AvgCardPct = sum / len(list)
	}
	if list, err := s.repos.AccessoryProgress.FindAll(ctx); err == nil && len(list) > 0 {
		sum := 0
		for _, p := range list {
			sum += p.OverallProgress
		}
		summary.AvgAccessoryPct = sum / len(list)
	}

	return summary, nil
}
