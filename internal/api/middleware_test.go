package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ismailisimba/scraper/internal/orchestrator"
	"github.com/ismailisimba/scraper/internal/ratelimit"
	"github.com/ismailisimba/scraper/internal/session"
	"github.com/ismailisimba/scraper/internal/task"
	"github.com/ismailisimba/scraper/pkg/models"
)

func newLimitedRouter(burst int) http.Handler {
	registry := task.NewRegistry(map[models.TaskKind]task.Strategy{
		models.TaskJSErrors: stubStrategy{payload: models.JSErrorsPayload{}},
	})
	orch := orchestrator.New(session.NewManager(stubLauncher{}), registry)
	return NewHandler(orch).SetupRoutes(ratelimit.NewLimiter(100, burst), 100)
}

func postTask(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/task/jsErrors", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// owner identity arriving only in the JSON body must still hit the
// limiter, and the body must reach the handler intact afterwards
func TestRateLimitReadsOwnerFromBody(t *testing.T) {
	router := newLimitedRouter(1)
	body := `{"url":"https://example.com","userId":"owner-1"}`

	first := postTask(router, body)
	assert.Equal(t, http.StatusOK, first.Code, "body must survive the limiter's peek")

	second := postTask(router, body)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRateLimitIsolatesBodyOwners(t *testing.T) {
	router := newLimitedRouter(1)

	assert.Equal(t, http.StatusOK, postTask(router, `{"url":"https://example.com","userId":"owner-a"}`).Code)
	assert.Equal(t, http.StatusOK, postTask(router, `{"url":"https://example.com","userId":"owner-b"}`).Code)
}

func TestRateLimitBypassedWithoutOwner(t *testing.T) {
	router := newLimitedRouter(1)

	for i := 0; i < 3; i++ {
		rec := postTask(router, `{"url":"https://example.com"}`)
		assert.Equal(t, http.StatusOK, rec.Code, "anonymous requests are not limited")
	}
}
