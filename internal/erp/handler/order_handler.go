package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/service"
)

// OrderHandler 订单处理器
type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// ListOrders 订单列表
// GET /api/v1/erp/orders?status=xxx&search=xxx
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status": c.Query("status"),
		"search": c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取订单列表失败: "+err.Error())
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

// CreateOrder 创建订单
// POST /api/v1/erp/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	order, err := h.svc.CreateOrder(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		ServiceError(c, err, "创建订单失败")
		return
	}
	Created(c, order)
}

// GetOrder 订单详情
// GET /api/v1/erp/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "订单不存在")
		return
	}
	Success(c, order)
}

// SubmitOrder 提交审批
// POST /api/v1/erp/orders/:id/submit
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	order, err := h.svc.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err, "提交订单失败")
		return
	}
	Success(c, order)
}

// ApproveOrder 审批通过
// POST /api/v1/erp/orders/:id/approve
func (h *OrderHandler) ApproveOrder(c *gin.Context) {
	order, err := h.svc.Approve(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		ServiceError(c, err, "审批订单失败")
		return
	}
	Success(c, order)
}

// RejectOrder 审批驳回
// POST /api/v1/erp/orders/:id/reject
func (h *OrderHandler) RejectOrder(c *gin.Context) {
	order, err := h.svc.Reject(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		ServiceError(c, err, "驳回订单失败")
		return
	}
	Success(c, order)
}

// AllocateOrder 分配订单
// POST /api/v1/erp/orders/:id/allocate
func (h *OrderHandler) AllocateOrder(c *gin.Context) {
	var req service.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	alloc, err := h.svc.Allocate(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		ServiceError(c, err, "分配订单失败")
		return
	}
	Created(c, alloc)
}

// GetAllocation 分配单详情
// GET /api/v1/erp/orders/:id/allocation
func (h *OrderHandler) GetAllocation(c *gin.Context) {
	alloc, err := h.svc.GetAllocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "分配单不存在")
		return
	}
	Success(c, alloc)
}

// ConfirmPayment 付款确认
// POST /api/v1/erp/orders/:id/payments/:kind/confirm
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	progress, err := h.svc.ConfirmPayment(c.Request.Context(), c.Param("id"), c.Param("kind"))
	if err != nil {
		ServiceError(c, err, "付款确认失败")
		return
	}
	Success(c, progress)
}

// ConfirmCardDelivery 卡片到厂确认
// POST /api/v1/erp/orders/:id/card-delivery/confirm
func (h *OrderHandler) ConfirmCardDelivery(c *gin.Context) {
	progress, err := h.svc.ConfirmCardDelivery(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err, "卡片到厂确认失败")
		return
	}
	Success(c, progress)
}
