package endpoint

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ariebrainware/comorbidity-network/comorbidity"
	"github.com/ariebrainware/comorbidity-network/logger"
	"github.com/ariebrainware/comorbidity-network/middleware"
	"github.com/ariebrainware/comorbidity-network/model"
	"github.com/ariebrainware/comorbidity-network/pipeline"
	"github.com/ariebrainware/comorbidity-network/seed"
	"github.com/ariebrainware/comorbidity-network/store"
	"github.com/ariebrainware/comorbidity-network/util"
)

const (
	testSecret = "test-secret-123"
	mockSeed   = "../seed/testdata/mock-data.json"
)

type endpointEnv struct {
	db     *gorm.DB
	store  *store.Store
	cache  *util.ReadCache
	runner *pipeline.Runner
	router *gin.Engine
}

// setupEndpointTest builds a router over an in-memory database. When seeded
// is true the mock dataset is loaded and comorbidities computed.
func setupEndpointTest(t *testing.T, seeded bool) *endpointEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:testdb_endpoint_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))

	log := logger.NewNop()
	env := &endpointEnv{
		db:    db,
		store: store.New(db, 10, log),
		cache: util.NewReadCache(time.Minute),
	}
	env.runner = pipeline.NewRunner(pipeline.Options{
		DB:     db,
		Loader: seed.NewLoader(db, 10, log),
		Store:  env.store,
		Engine: comorbidity.NewEngine(comorbidity.StrategyIndexed, log),
		Cache:  env.cache,
		Log:    log,
	})
	if seeded {
		_, err := env.runner.RunFile(context.Background(), mockSeed)
		require.NoError(t, err)
	}

	h := NewHandler(Options{
		AppName: "Comorbidity Network",
		Store:   env.store,
		Cache:   env.cache,
		Runner:  env.runner,
		Log:     log,
	})
	env.router = NewRouter(h, RouterOptions{Log: log, JWTSecret: testSecret})
	return env
}

func (env *endpointEnv) diseaseID(t *testing.T, disgenetID string) string {
	t.Helper()
	var d model.Disease
	require.NoError(t, env.db.Where("disgenet_id = ?", disgenetID).First(&d).Error)
	return d.ID
}

func adminHeaders(t *testing.T) map[string]string {
	t.Helper()
	token, err := middleware.IssueToken(testSecret, "tester", middleware.RoleAdmin, time.Hour)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}
