package api

import (
	"encoding/json"
	"testing"

	"flagdeck/internal/dto/resp"
	"flagdeck/internal/metrics"
	"flagdeck/internal/model"
	"flagdeck/internal/repository"
	"flagdeck/internal/service"
	"flagdeck/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBotRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.NewDB(t)
	uow := repository.NewUnitOfWork(db)
	svc := service.NewBotConfigService(uow, repository.NewBotConfigRepository(db), metrics.NewNoopObserver())
	h := NewBotConfigHandler(svc)

	r := gin.New()
	r.POST("/v1/bot-configs", h.CreateConfig)
	r.GET("/v1/bot-configs", h.ListConfigs)
	r.GET("/v1/bot-configs/active", h.GetActiveConfigs)
	r.GET("/v1/bot-configs/status/:status", h.GetConfigsByStatus)
	r.GET("/v1/bot-configs/name/:name", h.GetConfigByName)
	r.GET("/v1/bot-configs/:id", h.GetConfig)
	r.PATCH("/v1/bot-configs/:id", h.UpdateConfig)
	r.DELETE("/v1/bot-configs/:id", h.DeleteConfig)
	r.POST("/v1/bot-configs/:id/activate", h.ActivateConfig)
	r.POST("/v1/bot-configs/:id/deactivate", h.DeactivateConfig)
	return r
}

func TestBotConfigHandlerCreate(t *testing.T) {
	r := newBotRouter(t)

	w := doJSON(t, r, "POST", "/v1/bot-configs", gin.H{"name": "support-bot"})
	require.Equal(t, 201, w.Code)

	var item resp.BotConfigItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, "support-bot", item.Name)
	assert.Equal(t, model.BotStatusDraft, item.Status)
	assert.Equal(t, "1.0", item.Version)

	w = doJSON(t, r, "POST", "/v1/bot-configs", gin.H{"name": "support-bot"})
	assert.Equal(t, 409, w.Code)
}

func TestBotConfigHandlerLookupAndUpdate(t *testing.T) {
	r := newBotRouter(t)

	w := doJSON(t, r, "POST", "/v1/bot-configs", gin.H{"name": "sales-bot", "status": model.BotStatusReady})
	require.Equal(t, 201, w.Code)
	var created resp.BotConfigItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, "GET", "/v1/bot-configs/name/sales-bot", nil)
	assert.Equal(t, 200, w.Code)

	w = doJSON(t, r, "GET", "/v1/bot-configs/status/"+model.BotStatusReady, nil)
	require.Equal(t, 200, w.Code)
	var items []resp.BotConfigItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 1)

	w = doJSON(t, r, "PATCH", "/v1/bot-configs/"+created.ID.String(), gin.H{"version": "2.0"})
	require.Equal(t, 200, w.Code)
	var updated resp.BotConfigItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "2.0", updated.Version)
}

func TestBotConfigHandlerActivation(t *testing.T) {
	r := newBotRouter(t)

	w := doJSON(t, r, "POST", "/v1/bot-configs", gin.H{"name": "flip-bot"})
	require.Equal(t, 201, w.Code)
	var created resp.BotConfigItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, "POST", "/v1/bot-configs/"+created.ID.String()+"/activate", nil)
	assert.Equal(t, 200, w.Code)

	w = doJSON(t, r, "POST", "/v1/bot-configs/"+created.ID.String()+"/activate", nil)
	assert.Equal(t, 404, w.Code)

	w = doJSON(t, r, "GET", "/v1/bot-configs/active", nil)
	require.Equal(t, 200, w.Code)
	var items []resp.BotConfigItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 1)
}

func TestBotConfigHandlerDelete(t *testing.T) {
	r := newBotRouter(t)

	w := doJSON(t, r, "POST", "/v1/bot-configs", gin.H{"name": "doomed-bot"})
	require.Equal(t, 201, w.Code)
	var created resp.BotConfigItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, "DELETE", "/v1/bot-configs/"+created.ID.String(), nil)
	assert.Equal(t, 204, w.Code)

	w = doJSON(t, r, "GET", "/v1/bot-configs/"+created.ID.String(), nil)
	assert.Equal(t, 404, w.Code)
}
