package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/service"
	"github.com/grandfamily/YijiaERP-sub001/internal/sse"
)

// InspectionHandler 检验与下游联动处理器
type InspectionHandler struct {
	syncSvc   *service.SyncService
	uploadSvc *service.UploadService
	hub       *sse.Hub
}

func NewInspectionHandler(syncSvc *service.SyncService, uploadSvc *service.UploadService, hub *sse.Hub) *InspectionHandler {
	return &InspectionHandler{
		syncSvc:   syncSvc,
		uploadSvc: uploadSvc,
		hub:       hub,
	}
}

// ListInspections 检验列表
// GET /api/v1/erp/inspections?status=xxx&result=xxx&order_id=xxx
func (h *InspectionHandler) ListInspections(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":   c.Query("status"),
		"result":   c.Query("result"),
		"order_id": c.Query("order_id"),
	}

	items, total, err := h.syncSvc.ListInspections(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取检验列表失败: "+err.Error())
		return
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}

// GetInspection 检验详情
// GET /api/v1/erp/inspections/:id
func (h *InspectionHandler) GetInspection(c *gin.Context) {
	inspection, err := h.syncSvc.GetInspection(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "检验记录不存在")
		return
	}
	Success(c, inspection)
}

// CompleteInspection 完成检验
// POST /api/v1/erp/inspections/:id/complete
func (h *InspectionHandler) CompleteInspection(c *gin.Context) {
	var req service.CompleteInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	inspection, err := h.syncSvc.CompleteInspection(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err, "完成检验失败")
		return
	}

	h.hub.PublishInspectionUpdate(inspection.OrderID, inspection.SKU, inspection.Status, inspection.Result)
	Success(c, inspection)
}

// UploadPhoto 上传检验照片
// POST /api/v1/erp/inspections/:id/photos
func (h *InspectionHandler) UploadPhoto(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "缺少上传文件: "+err.Error())
		return
	}
	defer file.Close()

	inspection, err := h.uploadSvc.UploadInspectionPhoto(
		c.Request.Context(),
		c.Param("id"),
		file,
		header.Filename,
		header.Size,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		ServiceError(c, err, "上传照片失败")
		return
	}
	Success(c, inspection)
}

// Resync 全量重扫检验记录
// POST /api/v1/erp/inspections/resync
func (h *InspectionHandler) Resync(c *gin.Context) {
	if err := h.syncSvc.Resync(c.Request.Context()); err != nil {
		InternalError(c, "重扫失败: "+err.Error())
		return
	}
	Success(c, nil)
}

// ListSchedules 排产列表
// GET /api/v1/erp/schedules
func (h *InspectionHandler) ListSchedules(c *gin.Context) {
	items, err := h.syncSvc.ListSchedules(c.Request.Context())
	if err != nil {
		InternalError(c, "获取排产列表失败: "+err.Error())
		return
	}
	Success(c, items)
}

// ListQualityIntakes 入库质检列表
// GET /api/v1/erp/quality-intakes
func (h *InspectionHandler) ListQualityIntakes(c *gin.Context) {
	items, err := h.syncSvc.ListQualityIntakes(c.Request.Context())
	if err != nil {
		InternalError(c, "获取入库质检列表失败: "+err.Error())
		return
	}
	Success(c, items)
}

// ListRejectedOrders 不合格单列表
// GET /api/v1/erp/rejected-orders
func (h *InspectionHandler) ListRejectedOrders(c *gin.Context) {
	items, err := h.syncSvc.ListRejectedOrders(c.Request.Context())
	if err != nil {
		InternalError(c, "获取不合格单列表失败: "+err.Error())
		return
	}
	Success(c, items)
}
