package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KMA-backend/internal/platform/apierr"
	"KMA-backend/internal/platform/clock"
	"KMA-backend/internal/platform/config"
	"KMA-backend/internal/platform/db/dbtest"
	"KMA-backend/internal/platform/logger"
	"KMA-backend/internal/server"
)

const jwtSecret = "test-secret"

func newRouter(t *testing.T, mutate func(*config.Config)) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Rules.Timezone = "UTC"
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	clk := clock.NewManual(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), time.UTC)
	app, err := server.NewApp(cfg, dbtest.Open(t), logger.Discard(), clk)
	require.NoError(t, err)
	return server.NewRouter(app)
}

func call(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) apierr.Code {
	t.Helper()
	var body apierr.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Error.Code
}

func registerMember(t *testing.T, h http.Handler, name, contact string, convener bool) string {
	t.Helper()
	w := call(t, h, http.MethodPost, "/api/v1/members", gin.H{
		"member_type":    "AssemblyMember",
		"name":           name,
		"electoral_area": "Bantama",
		"contact":        contact,
		"gender":         "Male",
		"is_convener":    convener,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var m struct {
		MemberID string `json:"member_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	require.NotEmpty(t, m.MemberID)
	return m.MemberID
}

func addTo(t *testing.T, h http.Handler, sub, memberID string) *httptest.ResponseRecorder {
	t.Helper()
	return call(t, h, http.MethodPost, "/api/v1/subcommittees/members", gin.H{
		"subcommittee_name": sub,
		"member_id":         memberID,
		"member_type":       "AssemblyMember",
	}, "")
}

func TestHealthz(t *testing.T) {
	h := newRouter(t, nil)
	w := call(t, h, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	h := newRouter(t, nil)
	w := call(t, h, http.MethodGet, "/api/v1/nope", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apierr.CodeNotFound, errorCode(t, w))
}

func TestMembershipCapacityOverHTTP(t *testing.T) {
	h := newRouter(t, nil)
	id := registerMember(t, h, "Kwame Mensah", "0241234567", false)

	require.Equal(t, http.StatusCreated, addTo(t, h, "Travel", id).Code)
	require.Equal(t, http.StatusCreated, addTo(t, h, "Revenue", id).Code)

	w := addTo(t, h, "Transport", id)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apierr.CodeCapacityExceeded, errorCode(t, w))

	// 上限到達後は重複より容量の判定が先
	w = addTo(t, h, "Travel", id)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apierr.CodeCapacityExceeded, errorCode(t, w))

	w = addTo(t, h, "Unknown", id)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apierr.CodeNotFound, errorCode(t, w))
}

func TestAttendanceAndReportOverHTTP(t *testing.T) {
	h := newRouter(t, nil)

	w := call(t, h, http.MethodGet, "/api/v1/reports", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	id := registerMember(t, h, "Ama Owusu", "0201112223", true)
	require.Equal(t, http.StatusCreated, addTo(t, h, "Travel", id).Code)

	mark := gin.H{"context": "subcommittee:travel", "member_id": id, "is_convener_mark": true}
	w = call(t, h, http.MethodPost, "/api/v1/attendances", mark, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, h, http.MethodPost, "/api/v1/attendances", mark, "")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apierr.CodeDuplicate, errorCode(t, w))

	w = call(t, h, http.MethodGet, "/api/v1/attendances/today?context=subcommittee:travel&member_id="+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"marked":true`)

	w = call(t, h, http.MethodGet, "/api/v1/reports?context=subcommittee:travel", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var rows []struct {
		MemberID         string `json:"member_id"`
		MeetingsAttended int64  `json:"meetings_attended"`
		IsConvener       bool   `json:"is_convener"`
		Amount           int64  `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, id, rows[0].MemberID)
	assert.Equal(t, int64(1), rows[0].MeetingsAttended)
	assert.True(t, rows[0].IsConvener)
	assert.Equal(t, int64(150), rows[0].Amount)

	w = call(t, h, http.MethodGet, "/api/v1/reports/export", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Body.String(), "Ama Owusu")
}

func TestClearRequiresConfirm(t *testing.T) {
	h := newRouter(t, nil)

	w := call(t, h, http.MethodDelete, "/api/v1/attendances?context=general", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierr.CodeInvalidArgument, errorCode(t, w))

	w = call(t, h, http.MethodDelete, "/api/v1/attendances?context=general&confirm=true", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"context":"general","count":0}`, w.Body.String())
}

func TestAuthGuards(t *testing.T) {
	h := newRouter(t, func(c *config.Config) {
		c.Auth.Enabled = true
		c.Auth.JWTSecret = jwtSecret
	})

	sign := func(role string) string {
		claims := jwt.MapClaims{"sub": "clerk-1", "exp": time.Now().Add(time.Hour).Unix()}
		if role != "" {
			claims["role"] = role
		}
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
		require.NoError(t, err)
		return s
	}

	w := call(t, h, http.MethodGet, "/api/v1/reports", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierr.CodeUnauthorized, errorCode(t, w))

	clerk := sign("clerk")
	assert.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/v1/reports", nil, clerk).Code)

	w = call(t, h, http.MethodDelete, "/api/v1/attendances?context=general&confirm=true", nil, clerk)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apierr.CodeForbidden, errorCode(t, w))

	admin := sign("admin")
	assert.Equal(t, http.StatusOK, call(t, h, http.MethodDelete, "/api/v1/attendances?context=general&confirm=true", nil, admin).Code)

	// ヘルスチェックは認証の外
	assert.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/healthz", nil, "").Code)
}

func TestMemberRoutesOverHTTP(t *testing.T) {
	h := newRouter(t, nil)
	id := registerMember(t, h, "Kwame Mensah", "0241234567", false)
	path := "/api/v1/members/AssemblyMember/" + id

	w := call(t, h, http.MethodGet, "/api/v1/members/search?query=", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = call(t, h, http.MethodGet, "/api/v1/members/search?query=kwame", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id)

	w = call(t, h, http.MethodPut, path, gin.H{"contact": "123"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierr.CodeInvalidArgument, errorCode(t, w))

	w = call(t, h, http.MethodPut, path, gin.H{"name": "Kwame Boateng"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"name":"Kwame Boateng"`)

	// 種別が違えば別の会員扱い
	w = call(t, h, http.MethodGet, "/api/v1/members/GovernmentAppointee/"+id, nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = call(t, h, http.MethodGet, "/api/v1/members/Mayor/"+id, nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusNoContent, call(t, h, http.MethodDelete, path, nil, "").Code)
	w = call(t, h, http.MethodDelete, path, nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apierr.CodeNotFound, errorCode(t, w))
}

func TestRemoveFromSubcommitteeOverHTTP(t *testing.T) {
	h := newRouter(t, nil)
	id := registerMember(t, h, "Esi Asante", "0557654321", false)
	require.Equal(t, http.StatusCreated, addTo(t, h, "Revenue", id).Code)

	path := "/api/v1/subcommittees/revenue/members/" + id
	assert.Equal(t, http.StatusNoContent, call(t, h, http.MethodDelete, path, nil, "").Code)

	w := call(t, h, http.MethodDelete, path, nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apierr.CodeNotFound, errorCode(t, w))

	w = call(t, h, http.MethodDelete, "/api/v1/subcommittees/unknown/members/"+id, nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = call(t, h, http.MethodGet, "/api/v1/subcommittees/revenue/members", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), id)
}

func TestNewAppRejectsUnknownSubcommitteeOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Rules.SubcommitteeOrder = []string{"Transport", "Health"}
	require.NoError(t, cfg.Validate())

	_, err := server.NewApp(cfg, dbtest.Open(t), logger.Discard(), nil)
	assert.Error(t, err)
}
