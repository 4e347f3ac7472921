package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"flagdeck/internal/dto/resp"
	"flagdeck/internal/metrics"
	"flagdeck/internal/repository"
	"flagdeck/internal/service"
	"flagdeck/internal/testutil"
	"flagdeck/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
	gin.SetMode(gin.TestMode)
}

func newFeatureRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.NewDB(t)
	uow := repository.NewUnitOfWork(db)
	svc := service.NewFlagService(uow, repository.NewFlagRepository(db), metrics.NewNoopObserver())
	h := NewFeatureHandler(svc)

	r := gin.New()
	r.POST("/v1/features", h.CreateFeature)
	r.GET("/v1/features", h.ListFeatures)
	r.GET("/v1/features/:id", h.GetFeature)
	r.GET("/v1/features/name/:name", h.GetFeatureByName)
	r.PATCH("/v1/features/:id", h.UpdateFeature)
	r.DELETE("/v1/features/:id", h.DeleteFeature)
	r.GET("/health", h.HealthCheck)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFeatureHandlerCreate(t *testing.T) {
	r := newFeatureRouter(t)

	w := doJSON(t, r, "POST", "/v1/features", gin.H{"name": "dark-mode"})
	require.Equal(t, 201, w.Code)

	var item resp.FeatureItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, "dark-mode", item.Name)

	// duplicate is a conflict
	w = doJSON(t, r, "POST", "/v1/features", gin.H{"name": "dark-mode"})
	assert.Equal(t, 409, w.Code)

	// missing name fails validation
	w = doJSON(t, r, "POST", "/v1/features", gin.H{})
	assert.Equal(t, 400, w.Code)
}

func TestFeatureHandlerGet(t *testing.T) {
	r := newFeatureRouter(t)

	w := doJSON(t, r, "POST", "/v1/features", gin.H{"name": "fetched"})
	require.Equal(t, 201, w.Code)
	var created resp.FeatureItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, "GET", "/v1/features/"+created.ID.String(), nil)
	assert.Equal(t, 200, w.Code)

	w = doJSON(t, r, "GET", "/v1/features/name/fetched", nil)
	assert.Equal(t, 200, w.Code)

	w = doJSON(t, r, "GET", "/v1/features/not-a-uuid", nil)
	assert.Equal(t, 400, w.Code)

	w = doJSON(t, r, "GET", "/v1/features/name/unknown", nil)
	assert.Equal(t, 404, w.Code)
}

func TestFeatureHandlerList(t *testing.T) {
	r := newFeatureRouter(t)

	for i := 0; i < 3; i++ {
		w := doJSON(t, r, "POST", "/v1/features", gin.H{"name": fmt.Sprintf("flag-%d", i)})
		require.Equal(t, 201, w.Code)
	}

	w := doJSON(t, r, "GET", "/v1/features?skip=0&limit=2", nil)
	require.Equal(t, 200, w.Code)
	var items []resp.FeatureItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 2)
}

func TestFeatureHandlerUpdateAndDelete(t *testing.T) {
	r := newFeatureRouter(t)

	w := doJSON(t, r, "POST", "/v1/features", gin.H{"name": "mutable"})
	require.Equal(t, 201, w.Code)
	var created resp.FeatureItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, "PATCH", "/v1/features/"+created.ID.String(), gin.H{"description": "now with docs"})
	require.Equal(t, 200, w.Code)
	var updated resp.FeatureItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.NotNil(t, updated.Description)
	assert.Equal(t, "now with docs", *updated.Description)

	w = doJSON(t, r, "DELETE", "/v1/features/"+created.ID.String(), nil)
	assert.Equal(t, 204, w.Code)

	w = doJSON(t, r, "DELETE", "/v1/features/"+created.ID.String(), nil)
	assert.Equal(t, 404, w.Code)
}

func TestFeatureHandlerHealth(t *testing.T) {
	r := newFeatureRouter(t)

	w := doJSON(t, r, "GET", "/health", nil)
	assert.Equal(t, 200, w.Code)
}
