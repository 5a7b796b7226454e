package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ariebrainware/comorbidity-network/comorbidity"
	"github.com/ariebrainware/comorbidity-network/model"
	"github.com/ariebrainware/comorbidity-network/seed"
	"github.com/ariebrainware/comorbidity-network/store"
	"github.com/ariebrainware/comorbidity-network/util"
)

const mockSeed = "../seed/testdata/mock-data.json"

type testEnv struct {
	db      *gorm.DB
	store   *store.Store
	metrics *Metrics
	cache   *util.ReadCache
	runner  *Runner
}

func setupRunner(t *testing.T, locker Locker) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb_pipeline_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	env := &testEnv{
		db:      db,
		store:   store.New(db, 1, nil),
		metrics: metrics,
		cache:   util.NewReadCache(time.Minute),
	}
	env.runner = NewRunner(Options{
		DB:      db,
		Loader:  seed.NewLoader(db, 2, nil),
		Store:   env.store,
		Engine:  comorbidity.NewEngine(comorbidity.StrategyIndexed, nil),
		Locker:  locker,
		Metrics: metrics,
		Cache:   env.cache,
	})
	return env
}

func countComorbidities(t *testing.T, db *gorm.DB) []model.DiseaseComorbidity {
	t.Helper()
	var rows []model.DiseaseComorbidity
	require.NoError(t, db.Order("disease_a_id, disease_b_id").Find(&rows).Error)
	return rows
}

func TestRunFile_MockData(t *testing.T) {
	env := setupRunner(t, nil)
	env.cache.Set("top:50", "stale")

	run, err := env.runner.RunFile(context.Background(), mockSeed)
	require.NoError(t, err)

	assert.Equal(t, model.RunStatusSucceeded, run.Status)
	assert.Equal(t, model.RunSourceFile, run.Source)
	assert.Equal(t, "indexed", run.Strategy)
	assert.Equal(t, 4, run.Diseases)
	assert.Equal(t, 5, run.Genes)
	assert.Equal(t, 8, run.Associations)
	assert.Equal(t, 2, run.DroppedAssociations)
	assert.Equal(t, 3, run.QuarantinedRows)
	assert.Equal(t, 2, run.Comorbidities)
	assert.Equal(t, 2, run.BatchesCommitted)
	assert.NotNil(t, run.FinishedAt)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(run.Stats, &stats))
	assert.Equal(t, 1.0, stats["collapsed_associations"])
	assert.Contains(t, stats, "stage_ms")

	rows := countComorbidities(t, env.db)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Less(t, r.DiseaseAID, r.DiseaseBID)
		assert.Greater(t, r.SharedGenesCount, 0)
	}

	_, cached := env.cache.Get("top:50")
	assert.False(t, cached, "successful runs flush the read cache")

	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.comorbidities))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.runsTotal.WithLabelValues(model.RunSourceFile, model.RunStatusSucceeded)))
	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.droppedAssociations))
}

func TestRunFile_DiabetesObesityPair(t *testing.T) {
	env := setupRunner(t, nil)
	_, err := env.runner.RunFile(context.Background(), mockSeed)
	require.NoError(t, err)

	var t2d, obesity model.Disease
	require.NoError(t, env.db.Where("disgenet_id = ?", "C0011860").First(&t2d).Error)
	require.NoError(t, env.db.Where("disgenet_id = ?", "C0028754").First(&obesity).Error)

	a, b := comorbidity.PairKey(t2d.ID, obesity.ID)
	var row model.DiseaseComorbidity
	require.NoError(t, env.db.Where("disease_a_id = ? AND disease_b_id = ?", a, b).First(&row).Error)
	assert.Equal(t, 2, row.SharedGenesCount)
	assert.InDelta(t, 0.5, row.JaccardIndex, 1e-9)
	assert.InDelta(t, 66.67, row.Score, 0.01)
}

func TestRunFile_Idempotent(t *testing.T) {
	env := setupRunner(t, nil)
	ctx := context.Background()

	_, err := env.runner.RunFile(ctx, mockSeed)
	require.NoError(t, err)
	first := countComorbidities(t, env.db)

	_, err = env.runner.RunFile(ctx, mockSeed)
	require.NoError(t, err)
	second := countComorbidities(t, env.db)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].SharedGenesCount, second[i].SharedGenesCount)
		assert.Equal(t, first[i].Score, second[i].Score)
		assert.Equal(t, first[i].JaccardIndex, second[i].JaccardIndex)
	}

	var runs int64
	require.NoError(t, env.db.Model(&model.PipelineRun{}).Count(&runs).Error)
	assert.Equal(t, int64(2), runs)
}

func TestRunStore_MatchesFileRun(t *testing.T) {
	env := setupRunner(t, nil)
	ctx := context.Background()

	_, err := env.runner.RunFile(ctx, mockSeed)
	require.NoError(t, err)
	before := countComorbidities(t, env.db)

	run, err := env.runner.RunStore(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.RunSourceStore, run.Source)
	assert.Equal(t, 8, run.Associations)
	assert.Equal(t, 4, run.Diseases)
	assert.Equal(t, 2, run.Comorbidities)

	after := countComorbidities(t, env.db)
	assert.Equal(t, len(before), len(after))

	last, err := env.runner.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, run.ID, last.ID)
}

func TestRunFile_MissingFileMarksRunFailed(t *testing.T) {
	env := setupRunner(t, nil)

	run, err := env.runner.RunFile(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, model.RunStatusFailed, run.Status)
	assert.NotEmpty(t, run.Error)

	var stored model.PipelineRun
	require.NoError(t, env.db.First(&stored, run.ID).Error)
	assert.Equal(t, model.RunStatusFailed, stored.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.runsTotal.WithLabelValues(model.RunSourceFile, model.RunStatusFailed)))
}

func TestRunFile_EmptyDataset(t *testing.T) {
	env := setupRunner(t, nil)
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"diseases":[],"genes":[],"diseaseGenes":[]}`), 0o600))

	_, err := env.runner.RunFile(context.Background(), path)
	assert.ErrorIs(t, err, seed.ErrEmptyDataset)
}

func TestRun_CancelledContextDoesNotStart(t *testing.T) {
	env := setupRunner(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := env.runner.RunStore(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, run)

	var runs int64
	require.NoError(t, env.db.Model(&model.PipelineRun{}).Count(&runs).Error)
	assert.Zero(t, runs)
}

func TestRun_StoreFailureKeepsCommittedBatches(t *testing.T) {
	env := setupRunner(t, nil)
	ctx := context.Background()

	calls := 0
	require.NoError(t, env.db.Callback().Create().Before("gorm:create").Register("fail_second_batch", func(tx *gorm.DB) {
		if tx.Statement.Table != "disease_comorbidities" {
			return
		}
		calls++
		if calls == 2 {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	run, err := env.runner.RunFile(ctx, mockSeed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, model.RunStatusFailed, run.Status)
	assert.Equal(t, 1, run.BatchesCommitted)
	assert.Len(t, countComorbidities(t, env.db), 1)
}

// blockingLocker holds every run inside Acquire until release is closed.
type blockingLocker struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (l *blockingLocker) Acquire(ctx context.Context) (Unlock, error) {
	l.once.Do(func() { close(l.entered) })
	<-l.release
	return func(context.Context) error { return nil }, nil
}

func TestRun_RejectsConcurrentRun(t *testing.T) {
	locker := &blockingLocker{entered: make(chan struct{}), release: make(chan struct{})}
	env := setupRunner(t, locker)

	done := make(chan error, 1)
	go func() {
		_, err := env.runner.RunStore(context.Background())
		done <- err
	}()
	<-locker.entered
	assert.True(t, env.runner.Running())

	_, err := env.runner.RunStore(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(locker.release)
	require.NoError(t, <-done)
	assert.False(t, env.runner.Running())
}

type busyLocker struct{}

func (busyLocker) Acquire(context.Context) (Unlock, error) { return nil, ErrRunInProgress }

func TestRun_LockHeldElsewhere(t *testing.T) {
	env := setupRunner(t, busyLocker{})

	run, err := env.runner.RunStore(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)
	assert.Nil(t, run)
	assert.False(t, env.runner.Running())
}
