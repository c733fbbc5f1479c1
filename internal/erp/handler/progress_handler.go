package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/service"
	"github.com/grandfamily/YijiaERP-sub001/internal/sse"
)

// ProgressHandler 三路进度处理器
type ProgressHandler struct {
	procurementSvc *service.ProcurementProgressService
	cardSvc        *service.CardProgressService
	accessorySvc   *service.AccessoryProgressService
	hub            *sse.Hub
}

func NewProgressHandler(
	procurementSvc *service.ProcurementProgressService,
	cardSvc *service.CardProgressService,
	accessorySvc *service.AccessoryProgressService,
	hub *sse.Hub,
) *ProgressHandler {
	return &ProgressHandler{
		procurementSvc: procurementSvc,
		cardSvc:        cardSvc,
		accessorySvc:   accessorySvc,
		hub:            hub,
	}
}

// === 采购进度 ===

// ListProcurement 采购进度列表
// GET /api/v1/erp/progress/procurement?order_id=xxx
func (h *ProgressHandler) ListProcurement(c *gin.Context) {
	if orderID := c.Query("order_id"); orderID != "" {
		p, err := h.procurementSvc.GetByOrder(c.Request.Context(), orderID)
		if err != nil {
			NotFound(c, "采购进度不存在")
			return
		}
		Success(c, p)
		return
	}

	items, err := h.procurementSvc.List(c.Request.Context())
	if err != nil {
		InternalError(c, "获取采购进度列表失败: "+err.Error())
		return
	}
	Success(c, items)
}

// GetProcurement 采购进度详情
// GET /api/v1/erp/progress/procurement/:id
func (h *ProgressHandler) GetProcurement(c *gin.Context) {
	p, err := h.procurementSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "采购进度不存在")
		return
	}
	Success(c, p)
}

// UpdateProcurementStage 更新采购阶段
// PUT /api/v1/erp/progress/procurement/:id/stages/:key
func (h *ProgressHandler) UpdateProcurementStage(c *gin.Context) {
	var req service.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	p, err := h.procurementSvc.UpdateStage(c.Request.Context(), c.Param("id"), c.Param("key"), &req)
	if err != nil {
		ServiceError(c, err, "更新采购阶段失败")
		return
	}

	h.hub.PublishProgressUpdate("procurement", p.OrderID, "", p.OverallProgress)
	Success(c, p)
}

// === 卡片进度 ===

// ListCards 卡片进度列表
// GET /api/v1/erp/progress/cards?order_id=xxx&sku=xxx
func (h *ProgressHandler) ListCards(c *gin.Context) {
	orderID := c.Query("order_id")
	skuCode := c.Query("sku")
	if orderID != "" && skuCode != "" {
		p, err := h.cardSvc.GetByOrderSKU(c.Request.Context(), orderID, skuCode)
		if err != nil {
			NotFound(c, "卡片进度不存在")
			return
		}
		Success(c, p)
		return
	}

	items, err := h.cardSvc.List(c.Request.Context())
	if err != nil {
		InternalError(c, "获取卡片进度列表失败: "+err.Error())
		return
	}
	Success(c, items)
}

// GetCard 卡片进度详情
// GET /api/v1/erp/progress/cards/:id
func (h *ProgressHandler) GetCard(c *gin.Context) {
	p, err := h.cardSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "卡片进度不存在")
		return
	}
	Success(c, p)
}

// UpdateCardStage 更新卡片阶段
// PUT /api/v1/erp/progress/cards/:id/stages/:stageId
func (h *ProgressHandler) UpdateCardStage(c *gin.Context) {
	var req service.UpdateCardStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	p, err := h.cardSvc.UpdateStage(c.Request.Context(), c.Param("id"), c.Param("stageId"), &req)
	if err != nil {
		ServiceError(c, err, "更新卡片阶段失败")
		return
	}

	h.hub.PublishProgressUpdate("card", p.OrderID, p.SKU, p.OverallProgress)
	Success(c, p)
}

// MarkCardStageDelayed 标记卡片阶段延期
// POST /api/v1/erp/progress/cards/:id/stages/:stageId/delay
func (h *ProgressHandler) MarkCardStageDelayed(c *gin.Context) {
	var req struct {
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	p, err := h.cardSvc.MarkDelayed(c.Request.Context(), c.Param("id"), c.Param("stageId"), req.Remarks)
	if err != nil {
		ServiceError(c, err, "标记延期失败")
		return
	}

	h.hub.PublishProgressUpdate("card", p.OrderID, p.SKU, p.OverallProgress)
	Success(c, p)
}

// === 辅料进度 ===

// ListAccessories 辅料进度列表
// GET /api/v1/erp/progress/accessories?order_id=xxx&sku=xxx
func (h *ProgressHandler) ListAccessories(c *gin.Context) {
	orderID := c.Query("order_id")
	skuCode := c.Query("sku")
	if orderID != "" && skuCode != "" {
		p, err := h.accessorySvc.GetByOrderSKU(c.Request.Context(), orderID, skuCode)
		if err != nil {
			NotFound(c, "辅料进度不存在")
			return
		}
		Success(c, p)
		return
	}

	items, err := h.accessorySvc.List(c.Request.Context())
	if err != nil {
		InternalError(c, "获取辅料进度列表失败: "+err.Error())
		return
	}
	Success(c, items)
}

// GetAccessory 辅料进度详情
// GET /api/v1/erp/progress/accessories/:id
func (h *ProgressHandler) GetAccessory(c *gin.Context) {
	p, err := h.accessorySvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "辅料进度不存在")
		return
	}
	Success(c, p)
}

// UpdateAccessory 更新辅料进度（状态与成本字段合并）
// PUT /api/v1/erp/progress/accessories/:id
func (h *ProgressHandler) UpdateAccessory(c *gin.Context) {
	var req service.UpdateAccessoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	p, err := h.accessorySvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err, "更新辅料进度失败")
		return
	}

	h.hub.PublishProgressUpdate("accessory", p.OrderID, p.SKU, p.OverallProgress)
	Success(c, p)
}

// CompleteAccessoryItems 批量完成辅料项
// POST /api/v1/erp/progress/accessories/:id/complete
func (h *ProgressHandler) CompleteAccessoryItems(c *gin.Context) {
	var req struct {
		Types []string `json:"types" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	p, err := h.accessorySvc.CompleteItems(c.Request.Context(), c.Param("id"), req.Types)
	if err != nil {
		ServiceError(c, err, "批量完成辅料项失败")
		return
	}

	h.hub.PublishProgressUpdate("accessory", p.OrderID, p.SKU, p.OverallProgress)
	Success(c, p)
}
