package subcommittees

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"KMA-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/subcommittees", h.List)
	r.GET("/subcommittees/:subcommittee_id/members", h.ListMembers)
	r.POST("/subcommittees/members", h.AddMember)
	r.DELETE("/subcommittees/:subcommittee_id/members/:member_id", h.RemoveMember)
	r.GET("/conveners", h.Conveners)
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	out := make([]SubcommitteeResponse, 0, len(list))
	for _, sm := range list {
		out = append(out, sm.toDTO(h.svc.catalog))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ListMembers(c *gin.Context) {
	ms, err := h.svc.ListBySubcommittee(c.Request.Context(), c.Param("subcommittee_id"))
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, toDTOs(ms, h.svc.catalog))
}

// POST /subcommittees/members
func (h *Handler) AddMember(c *gin.Context) {
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.JSON(c, apierr.Invalid("invalid json or missing required fields"))
		return
	}
	m, err := h.svc.AddMember(c.Request.Context(), req)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, m.toDTO(h.svc.catalog))
}

func (h *Handler) RemoveMember(c *gin.Context) {
	err := h.svc.RemoveMember(c.Request.Context(), c.Param("subcommittee_id"), c.Param("member_id"))
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Conveners(c *gin.Context) {
	cs, err := h.svc.Conveners(c.Request.Context())
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, toDTOs(cs, h.svc.catalog))
}
