package meetings

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"KMA-backend/internal/platform/apierr"
	"KMA-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/meetings", h.Create)
	r.GET("/meetings", h.List)
	r.GET("/meetings/:meeting_id", h.Get)
	r.PUT("/meetings/:meeting_id", h.Update)
	r.DELETE("/meetings/:meeting_id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.JSON(c, apierr.Invalid("invalid json or missing required fields"))
		return
	}
	// 認証済みならトークンの sub を作成者にする
	if sub := auth.UserID(c); sub != "" {
		req.CreatedBy = sub
	}
	m, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.Header("Location", "/meetings/"+m.MeetingID)
	c.JSON(http.StatusCreated, m.ToDTO())
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	ms, total, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	out := ListResponse{Items: make([]MeetingResponse, 0, len(ms)), Total: total}
	for _, m := range ms {
		out.Items = append(out.Items, m.ToDTO())
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Get(c *gin.Context) {
	m, err := h.svc.Get(c.Request.Context(), c.Param("meeting_id"))
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, m.ToDTO())
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.JSON(c, apierr.Invalid("invalid json"))
		return
	}
	m, err := h.svc.Update(c.Request.Context(), c.Param("meeting_id"), req)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, m.ToDTO())
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("meeting_id")); err != nil {
		apierr.JSON(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
