package members

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"KMA-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

// RegisterRoutes: adminOnly は削除系にだけ挟む
func RegisterRoutes(r gin.IRoutes, svc *Service, adminOnly ...gin.HandlerFunc) {
	h := &Handler{svc: svc}

	r.POST("/members", h.Register)
	r.GET("/members", h.List)
	r.GET("/members/search", h.Search)
	r.GET("/members/:member_type/:member_id", h.Get)
	r.PUT("/members/:member_type/:member_id", h.Update)
	r.DELETE("/members/:member_type/:member_id", append(adminOnly, h.Delete)...)
}

// POST /members
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.JSON(c, apierr.Invalid("invalid json or missing required fields"))
		return
	}
	m, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.Header("Location", "/members/"+string(m.MemberType)+"/"+m.MemberID)
	c.JSON(http.StatusCreated, m.ToDTO())
}

// GET /members/search?query=
func (h *Handler) Search(c *gin.Context) {
	ms, err := h.svc.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, toDTOs(ms))
}

// GET /members?member_type=&limit=&offset=
func (h *Handler) List(c *gin.Context) {
	q := ListQuery{
		Limit:  parseIntDefault(c.Query("limit"), DefaultPageLimit),
		Offset: parseIntDefault(c.Query("offset"), 0),
	}
	if v := c.Query("member_type"); v != "" {
		t, ok := ParseType(v)
		if !ok {
			apierr.JSON(c, apierr.Invalid("unknown member_type"))
			return
		}
		q.MemberType = &t
	}
	ms, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Items: toDTOs(ms), Total: total})
}

func (h *Handler) Get(c *gin.Context) {
	t, ok := ParseType(c.Param("member_type"))
	if !ok {
		apierr.JSON(c, apierr.Invalid("unknown member_type"))
		return
	}
	m, err := h.svc.Get(c.Request.Context(), c.Param("member_id"), t)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, m.ToDTO())
}

func (h *Handler) Update(c *gin.Context) {
	t, ok := ParseType(c.Param("member_type"))
	if !ok {
		apierr.JSON(c, apierr.Invalid("unknown member_type"))
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.JSON(c, apierr.Invalid("invalid json"))
		return
	}
	m, err := h.svc.Update(c.Request.Context(), c.Param("member_id"), t, req)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, m.ToDTO())
}

func (h *Handler) Delete(c *gin.Context) {
	t, ok := ParseType(c.Param("member_type"))
	if !ok {
		apierr.JSON(c, apierr.Invalid("unknown member_type"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), c.Param("member_id"), t); err != nil {
		apierr.JSON(c, err)
		return
	}
	c.Status(http.StatusNoContent)
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
