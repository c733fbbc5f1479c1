package handler

import (
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/service"
)

// DashboardHandler 看板与导出处理器
type DashboardHandler struct {
	dashboardSvc *service.DashboardService
	exportSvc    *service.ExportService
}

func NewDashboardHandler(dashboardSvc *service.DashboardService, exportSvc *service.ExportService) *DashboardHandler {
	return &DashboardHandler{
		dashboardSvc: dashboardSvc,
		exportSvc:    exportSvc,
	}
}

// GetSummary 看板汇总
// GET /api/v1/erp/dashboard/summary
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.dashboardSvc.GetSummary(c.Request.Context())
	if err != nil {
		InternalError(c, "获取看板数据失败: "+err.Error())
		return
	}
	Success(c, summary)
}

// ExportProgress 导出进度总表
// GET /api/v1/erp/dashboard/export?format=xlsx|csv
func (h *DashboardHandler) ExportProgress(c *gin.Context) {
	format := c.DefaultQuery("format", "xlsx")

	switch format {
	case "csv":
		data, filename, err := h.exportSvc.ExportProgressCSV(c.Request.Context())
		if err != nil {
			InternalError(c, "导出失败: "+err.Error())
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
		c.Data(200, "text/csv; charset=gbk", data)

	case "xlsx":
		f, filename, err := h.exportSvc.ExportProgressXLSX(c.Request.Context())
		if err != nil {
			InternalError(c, "导出失败: "+err.Error())
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := f.Write(c.Writer); err != nil {
			InternalError(c, "写入响应失败: "+err.Error())
		}

	default:
		BadRequest(c, "不支持的导出格式: "+format)
	}
}
