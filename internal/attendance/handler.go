package attendance

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"KMA-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

// RegisterRoutes: adminOnly は一括削除にだけ挟む
func RegisterRoutes(r gin.IRoutes, svc *Service, adminOnly ...gin.HandlerFunc) {
	h := &Handler{svc: svc}

	r.POST("/attendances", h.Mark)
	r.POST("/attendances/batch", h.MarkBatch)
	r.GET("/attendances", h.List)
	r.GET("/attendances/today", h.Today)
	r.GET("/attendances/stats", h.Stats)
	r.DELETE("/attendances", append(adminOnly, h.Clear)...)
}

// POST /attendances
func (h *Handler) Mark(c *gin.Context) {
	var req MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.JSON(c, apierr.Invalid("invalid json or missing required fields"))
		return
	}
	mc, err := h.svc.ParseContext(req.Context)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	rec, err := h.svc.Mark(c.Request.Context(), mc, req.MemberID, req.IsConvenerMark)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec.ToDTO())
}

// POST /attendances/batch
func (h *Handler) MarkBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.JSON(c, apierr.Invalid("invalid json or missing required fields"))
		return
	}
	mc, err := h.svc.ParseContext(req.Context)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	res, err := h.svc.MarkBatch(c.Request.Context(), mc, req.MemberIDs, req.IsConvenerMark)
	if err != nil && len(res.Marked) == 0 {
		apierr.JSON(c, err)
		return
	}
	if err != nil {
		// 一部は記録済みなので結果は返す
		_ = c.Error(err)
	}
	status := http.StatusOK
	if len(res.Failures) > 0 && len(res.Marked) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, res.ToDTO())
}

// GET /attendances?context=&member_id=&on=&from=&to=&sort=&limit=&offset=
func (h *Handler) List(c *gin.Context) {
	q := ListQuery{
		Limit:  parseIntDefault(c.Query("limit"), DefaultPageLimit),
		Offset: parseIntDefault(c.Query("offset"), 0),
		Sort:   c.DefaultQuery("sort", DefaultSort),
	}
	if v := c.Query("context"); v != "" {
		mc, err := h.svc.ParseContext(v)
		if err != nil {
			apierr.JSON(c, err)
			return
		}
		q.Context = &mc
	}
	if v := c.Query("member_id"); v != "" {
		q.MemberID = &v
	}
	if v := c.Query("on"); v != "" {
		q.On = &v
	}
	if v := c.Query("from"); v != "" {
		q.From = &v
	}
	if v := c.Query("to"); v != "" {
		q.To = &v
	}
	items, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	out := ListResponse{Items: make([]AttendanceResponse, 0, len(items)), Total: total}
	for _, r := range items {
		out.Items = append(out.Items, r.ToDTO())
	}
	c.JSON(http.StatusOK, out)
}

// GET /attendances/today?context=&member_id=
func (h *Handler) Today(c *gin.Context) {
	mc, err := h.svc.ParseContext(c.Query("context"))
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	memberID := c.Query("member_id")
	ok, err := h.svc.IsMarkedToday(c.Request.Context(), mc, memberID)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, TodayResponse{
		Context:  mc.String(),
		MemberID: memberID,
		On:       h.svc.clock.Today(),
		Marked:   ok,
	})
}

// GET /attendances/stats?from=&to=&context=&limit=
func (h *Handler) Stats(c *gin.Context) {
	req := StatsRequest{
		From:  c.Query("from"),
		To:    c.Query("to"),
		Limit: parseIntDefault(c.Query("limit"), DefaultStatsLimit),
	}
	if v := c.Query("context"); v != "" {
		mc, err := h.svc.ParseContext(v)
		if err != nil {
			apierr.JSON(c, err)
			return
		}
		req.Context = &mc
	}
	rows, err := h.svc.Stats(c.Request.Context(), req)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// DELETE /attendances?context=&confirm=true
func (h *Handler) Clear(c *gin.Context) {
	mc, err := h.svc.ParseContext(c.Query("context"))
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	if confirm, _ := strconv.ParseBool(c.Query("confirm")); !confirm {
		apierr.JSON(c, apierr.Invalid("confirm=true is required to clear attendance"))
		return
	}
	n, err := h.svc.DeleteAll(c.Request.Context(), mc)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, ClearResponse{Context: mc.String(), Count: n})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
