package report

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"KMA-backend/internal/attendance"
	"KMA-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/reports", h.Build)
	r.GET("/reports/export", h.Export)
	r.GET("/reports/totals", h.Totals)
}

// filter: context 未指定なら nil（全小委員会）
func (h *Handler) filter(c *gin.Context) (*attendance.Context, error) {
	v := c.Query("context")
	if v == "" {
		return nil, nil
	}
	mc, err := attendance.ParseContext(v, h.svc.catalog)
	if err != nil {
		return nil, err
	}
	return &mc, nil
}

// GET /reports?context=
func (h *Handler) Build(c *gin.Context) {
	f, err := h.filter(c)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	rows, err := h.svc.Build(c.Request.Context(), f)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GET /reports/export?context=
func (h *Handler) Export(c *gin.Context) {
	f, err := h.filter(c)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	rows, err := h.svc.Build(c.Request.Context(), f)
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		apierr.JSON(c, err)
		return
	}
	name := "attendance-report"
	if f != nil {
		name += "-" + string(f.Kind)
		if f.SubcommitteeID != "" {
			name += "-" + f.SubcommitteeID
		}
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// GET /reports/totals
func (h *Handler) Totals(c *gin.Context) {
	t, err := h.svc.Totals(c.Request.Context())
	if err != nil {
		apierr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
