package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/eventbus"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/repository"
)

// Services ERP服务汇总
type Services struct {
	Order               *OrderService
	ProcurementProgress *ProcurementProgressService
	CardProgress        *CardProgressService
	AccessoryProgress   *AccessoryProgressService
	Sync                *SyncService
	Dashboard           *DashboardService
	Export              *ExportService
	Upload              *UploadService
}

// NewServices 创建服务汇总。rdb和minioClient允许为nil（本地开发不起外部依赖）。
func NewServices(
	repos *repository.Repositories,
	bus *eventbus.Bus,
	rdb *redis.Client,
	minioClient *minio.Client,
	minioBucket string,
	logger *zap.Logger,
) *Services {
	procurementSvc := NewProcurementProgressService(repos.ProcurementProgress, repos.Allocation, logger)
	cardSvc := NewCardProgressService(repos.CardProgress, repos.Allocation, repos.SKU, logger)
	accessorySvc := NewAccessoryProgressService(repos.AccessoryProgress, repos.Allocation, logger)

	return &Services{
		Order:               NewOrderService(repos.Order, repos.Allocation, procurementSvc, cardSvc, accessorySvc, logger),
		ProcurementProgress: procurementSvc,
		CardProgress:        cardSvc,
		AccessoryProgress:   accessorySvc,
		Sync:                NewSyncService(repos, bus, logger),
		Dashboard:           NewDashboardService(repos, rdb, logger),
		Export:              NewExportService(repos),
		Upload:              NewUploadService(repos.Inspection, minioClient, minioBucket),
	}
}
