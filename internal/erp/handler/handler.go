package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/repository"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/service"
	"github.com/grandfamily/YijiaERP-sub001/internal/sse"
)

// Handlers ERP处理器集合
type Handlers struct {
	Order      *OrderHandler
	Progress   *ProgressHandler
	Inspection *InspectionHandler
	Dashboard  *DashboardHandler
	SSE        *SSEHandler
}

// NewHandlers 创建ERP处理器集合
func NewHandlers(services *service.Services, hub *sse.Hub) *Handlers {
	return &Handlers{
		Order:      NewOrderHandler(services.Order),
		Progress:   NewProgressHandler(services.ProcurementProgress, services.CardProgress, services.AccessoryProgress, hub),
		Inspection: NewInspectionHandler(services.Sync, services.Upload, hub),
		Dashboard:  NewDashboardHandler(services.Dashboard, services.Export),
		SSE:        NewSSEHandler(hub),
	}
}

// RegisterRoutes 挂接全部业务路由
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup) {
	orders := api.Group("/orders")
	{
		orders.GET("", h.Order.ListOrders)
		orders.POST("", h.Order.CreateOrder)
		orders.GET("/:id", h.Order.GetOrder)
		orders.POST("/:id/submit", h.Order.SubmitOrder)
		orders.POST("/:id/approve", h.Order.ApproveOrder)
		orders.POST("/:id/reject", h.Order.RejectOrder)
		orders.POST("/:id/allocate", h.Order.AllocateOrder)
		orders.GET("/:id/allocation", h.Order.GetAllocation)
		orders.POST("/:id/payments/:kind/confirm", h.Order.ConfirmPayment)
		orders.POST("/:id/card-delivery/confirm", h.Order.ConfirmCardDelivery)
	}

	progress := api.Group("/progress")
	{
		progress.GET("/procurement", h.Progress.ListProcurement)
		progress.GET("/procurement/:id", h.Progress.GetProcurement)
		progress.PUT("/procurement/:id/stages/:key", h.Progress.UpdateProcurementStage)

		progress.GET("/cards", h.Progress.ListCards)
		progress.GET("/cards/:id", h.Progress.GetCard)
		progress.PUT("/cards/:id/stages/:stageId", h.Progress.UpdateCardStage)
		progress.POST("/cards/:id/stages/:stageId/delay", h.Progress.MarkCardStageDelayed)

		progress.GET("/accessories", h.Progress.ListAccessories)
		progress.GET("/accessories/:id", h.Progress.GetAccessory)
		progress.PUT("/accessories/:id", h.Progress.UpdateAccessory)
		progress.POST("/accessories/:id/complete", h.Progress.CompleteAccessoryItems)
	}

	inspections := api.Group("/inspections")
	{
		inspections.GET("", h.Inspection.ListInspections)
		inspections.GET("/:id", h.Inspection.GetInspection)
		inspections.POST("/:id/complete", h.Inspection.CompleteInspection)
		inspections.POST("/:id/photos", h.Inspection.UploadPhoto)
		inspections.POST("/resync", h.Inspection.Resync)
	}

	api.GET("/schedules", h.Inspection.ListSchedules)
	api.GET("/quality-intakes", h.Inspection.ListQualityIntakes)
	api.GET("/rejected-orders", h.Inspection.ListRejectedOrders)

	api.GET("/dashboard/summary", h.Dashboard.GetSummary)
	api.GET("/dashboard/export", h.Dashboard.ExportProgress)

	api.GET("/events", h.SSE.Stream)
}

// === 响应辅助函数 ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// ServiceError 按错误类型归口响应
func ServiceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, message+": "+err.Error())
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, repository.ErrDuplicate):
		BadRequest(c, message+": "+err.Error())
	default:
		InternalError(c, message+": "+err.Error())
	}
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
