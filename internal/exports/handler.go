package exports

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/auth"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/requests"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

const (
	excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType   = "application/pdf"
)

// Handler serves admin-only file exports of the request register.
type Handler struct {
	requests requests.Service
}

func NewHandler(reqService requests.Service) *Handler {
	return &Handler{requests: reqService}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/exports", auth.RequireRole(workflow.RoleAdmin))
	{
		group.GET("/requests.xlsx", h.Register)
		group.GET("/requests/:id/summary.pdf", h.Summary)
	}
}

func (h *Handler) Register(c *gin.Context) {
	items, _, err := h.requests.List(c.Request.Context(), requests.Filter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := WriteRegister(&buf, items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="requests.xlsx"`)
	c.Data(http.StatusOK, excelContentType, buf.Bytes())
}

func (h *Handler) Summary(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	req, err := h.requests.Get(c.Request.Context(), id)
	if err != nil {
		if workflow.CodeOf(err) == workflow.CodeNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := WriteSummary(&buf, req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, req.Code))
	c.Data(http.StatusOK, pdfContentType, buf.Bytes())
}
