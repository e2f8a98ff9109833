package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillpath/internal/catalog"
	"github.com/abhisek/skillpath/internal/gap"
	"github.com/abhisek/skillpath/internal/metrics"
	"github.com/abhisek/skillpath/internal/skills"
	"github.com/abhisek/skillpath/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*store.Store, http.Handler) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	c, err := catalog.Sample()
	require.NoError(t, err)
	_, err = c.Seed(context.Background(), s)
	require.NoError(t, err)

	return s, NewServer(s, gap.NewService(s), nil).Router()
}

func get(t *testing.T, h http.Handler, path string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil {
		env := Response{Data: out}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
		assert.Equal(t, rec.Code, env.Code)
	}
	return rec.Code
}

func TestHealthz(t *testing.T) {
	_, h := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestUserSkills(t *testing.T) {
	s, h := newTestServer(t)

	var list []skills.UserSkill
	require.Equal(t, http.StatusOK, get(t, h, "/v1/users/u1/skills", &list))
	assert.Empty(t, list)

	require.NoError(t, s.UserSkillRepo().Put(context.Background(),
		skills.UserSkill{UserID: "u1", SkillID: "go", Level: "advanced"}))
	require.Equal(t, http.StatusOK, get(t, h, "/v1/users/u1/skills", &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Go", list[0].SkillName)
}

func TestReadiness(t *testing.T) {
	s, h := newTestServer(t)
	ctx := context.Background()
	for _, sk := range []string{"go", "sql", "docker", "python"} {
		require.NoError(t, s.UserSkillRepo().Put(ctx, skills.UserSkill{UserID: "u1", SkillID: sk, Level: "advanced"}))
	}

	var reports []gap.Report
	require.Equal(t, http.StatusOK, get(t, h, "/v1/users/u1/readiness", &reports))
	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.Equal(t, 100, r.Readiness, r.RoleID)
	}

	require.Equal(t, http.StatusOK, get(t, h, "/v1/users/u2/readiness?role=data-analyst", &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, 0, reports[0].Readiness)
	assert.Equal(t, 2, reports[0].Missing)

	require.Equal(t, http.StatusOK, get(t, h, "/v1/users/u1/readiness?role=astronaut&role=data-analyst", &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "data-analyst", reports[0].RoleID)

	require.Equal(t, http.StatusOK, get(t, h, "/v1/users/u1/readiness?role=astronaut", &reports))
	assert.Empty(t, reports)
}

func TestMatch(t *testing.T) {
	_, h := newTestServer(t)

	var m matchResponse
	require.Equal(t, http.StatusOK, get(t, h, "/v1/users/u1/roles/backend-engineer/match", &m))
	assert.Equal(t, "backend-engineer", m.RoleID)
	assert.Equal(t, 0, m.Score)
	require.NotNil(t, m.Report)
	assert.Len(t, m.Report.Entries, 3)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/v1/users/u1/roles/astronaut/match", nil))
}

func TestResults(t *testing.T) {
	_, h := newTestServer(t)

	var res resultsResponse
	require.Equal(t, http.StatusOK, get(t, h, "/v1/users/u1/results", &res))
	assert.Empty(t, res.Standard)
	assert.Empty(t, res.Adaptive)

	for _, q := range []string{"abc", "0", "501"} {
		assert.Equal(t, http.StatusBadRequest, get(t, h, "/v1/users/u1/results?limit="+q, nil), q)
	}
}

func TestBadRequests(t *testing.T) {
	_, h := newTestServer(t)
	long := strings.Repeat("x", maxUserIDLen+1)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/v1/users/"+long+"/skills", nil))
	assert.Equal(t, http.StatusNotFound, get(t, h, "/v1/nothing", nil))
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.Init()
	_, h := newTestServer(t)
	get(t, h, "/healthz", nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `skillpath_http_requests_total{endpoint="/healthz"`)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, NewServer(s, gap.NewService(s), nil).Run(ctx, "127.0.0.1:0"))
}
