// Package pipeline runs the comorbidity computation end to end: load
// associations, build the index, compute pairs, persist them and refresh the
// graph projection.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ariebrainware/comorbidity-network/comorbidity"
	"github.com/ariebrainware/comorbidity-network/graph"
	"github.com/ariebrainware/comorbidity-network/logger"
	"github.com/ariebrainware/comorbidity-network/model"
	"github.com/ariebrainware/comorbidity-network/seed"
	"github.com/ariebrainware/comorbidity-network/store"
	"github.com/ariebrainware/comorbidity-network/util"
)

// Stage names used in logs, metrics and run stats.
const (
	StageParse   = "parse"
	StageLoad    = "load"
	StageIndex   = "index"
	StageCompute = "compute"
	StagePersist = "persist"
	StageGraph   = "graph"
)

// Options holds the collaborators of a Runner. DB, Loader, Store and Engine
// are required; the rest may be nil.
type Options struct {
	DB      *gorm.DB
	Loader  *seed.Loader
	Store   *store.Store
	Engine  *comorbidity.Engine
	Graph   *graph.Projector
	Locker  Locker
	Metrics *Metrics
	Cache   *util.ReadCache
	Log     *logger.Logger
}

// Runner executes pipeline runs. At most one run executes per Runner; a
// Locker extends that guarantee across processes.
type Runner struct {
	db      *gorm.DB
	loader  *seed.Loader
	store   *store.Store
	engine  *comorbidity.Engine
	graph   *graph.Projector
	locker  Locker
	metrics *Metrics
	cache   *util.ReadCache
	log     *logger.Logger
	running atomic.Bool
}

func NewRunner(opts Options) *Runner {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &Runner{
		db:      opts.DB,
		loader:  opts.Loader,
		store:   opts.Store,
		engine:  opts.Engine,
		graph:   opts.Graph,
		locker:  opts.Locker,
		metrics: opts.Metrics,
		cache:   opts.Cache,
		log:     log.With("component", "PipelineRunner"),
	}
}

// Running reports whether this Runner is executing a run.
func (r *Runner) Running() bool {
	return r.running.Load()
}

// runState carries what a run has produced so far.
type runState struct {
	run      *model.PipelineRun
	stages   map[string]int64
	rejected map[string]int
	diseases []model.Disease
	assocs   []comorbidity.Association
	extra    map[string]interface{}
}

// RunFile seeds the store from a JSON file and computes comorbidities over
// the associations of that file.
func (r *Runner) RunFile(ctx context.Context, path string) (*model.PipelineRun, error) {
	return r.execute(ctx, model.RunSourceFile, func(ctx context.Context, st *runState) error {
		var (
			ds       seed.Dataset
			rejected []seed.Rejected
		)
		err := r.stage(st, StageParse, func() error {
			var err error
			ds, rejected, err = seed.ParseFile(path)
			return err
		})
		for _, rej := range rejected {
			st.rejected[rej.Kind]++
			r.metrics.recordQuarantined(rej.Kind)
			r.log.Debug("quarantined seed row", "kind", rej.Kind, "index", rej.Index, "reason", rej.Reason)
		}
		st.run.QuarantinedRows = len(rejected)
		if len(rejected) > 0 {
			r.log.Warn("quarantined malformed seed rows", "count", len(rejected))
		}
		if err != nil {
			return fmt.Errorf("parse seed file: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		var res *seed.Result
		if err := r.stage(st, StageLoad, func() error {
			var err error
			res, err = r.loader.Load(ctx, ds)
			return err
		}); err != nil {
			return fmt.Errorf("load seed data: %w", err)
		}
		st.run.Diseases = len(res.Diseases)
		st.run.Genes = len(res.Genes)
		st.run.DroppedAssociations = res.Dropped
		st.extra["collapsed_associations"] = res.Collapsed
		r.metrics.recordDropped(res.Dropped)
		st.diseases = res.Diseases
		st.assocs = res.Associations
		return nil
	})
}

// RunStore recomputes comorbidities from the associations already persisted.
func (r *Runner) RunStore(ctx context.Context) (*model.PipelineRun, error) {
	return r.execute(ctx, model.RunSourceStore, func(ctx context.Context, st *runState) error {
		return r.stage(st, StageLoad, func() error {
			assocs, err := r.loader.LoadFromStore(ctx)
			if err != nil {
				return err
			}
			st.assocs = assocs
			return nil
		})
	})
}

func (r *Runner) execute(ctx context.Context, source string, load func(context.Context, *runState) error) (*model.PipelineRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer r.running.Store(false)

	if r.locker != nil {
		unlock, err := r.locker.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				r.log.Warn("release run lock failed", "error", err)
			}
		}()
	}

	started := time.Now()
	st := &runState{
		run: &model.PipelineRun{
			Source:    source,
			Status:    model.RunStatusRunning,
			Strategy:  string(r.engine.Strategy()),
			StartedAt: started.UTC(),
		},
		stages:   map[string]int64{},
		rejected: map[string]int{},
		extra:    map[string]interface{}{},
	}
	if err := r.db.WithContext(ctx).Create(st.run).Error; err != nil {
		return nil, fmt.Errorf("record pipeline run: %w", err)
	}
	log := r.log.With("run_id", st.run.ID, "source", source)
	log.Info("pipeline run started", "strategy", st.run.Strategy)

	err := r.run(ctx, st, load)
	status := model.RunStatusSucceeded
	if err != nil {
		status = model.RunStatusFailed
		st.run.Error = err.Error()
	}
	r.finish(ctx, st, status, started)
	r.metrics.observeRun(source, status, time.Since(started))

	if err != nil {
		log.Error("pipeline run failed", "error", err, "batches_committed", st.run.BatchesCommitted)
		return st.run, err
	}
	r.cache.Flush()
	log.Info("pipeline run finished",
		"diseases", st.run.Diseases,
		"associations", st.run.Associations,
		"comorbidities", st.run.Comorbidities,
		"batches", st.run.BatchesCommitted,
		"elapsed", time.Since(started).String())
	return st.run, nil
}

func (r *Runner) run(ctx context.Context, st *runState, load func(context.Context, *runState) error) error {
	if err := load(ctx, st); err != nil {
		return err
	}
	st.run.Associations = len(st.assocs)
	if err := ctx.Err(); err != nil {
		return err
	}

	var idx comorbidity.Index
	_ = r.stage(st, StageIndex, func() error {
		idx = comorbidity.BuildIndex(st.assocs)
		return nil
	})
	if st.run.Diseases == 0 {
		st.run.Diseases = len(idx)
	}

	var pairs []comorbidity.Comorbidity
	_ = r.stage(st, StageCompute, func() error {
		pairs = r.engine.Compute(idx)
		return nil
	})
	st.run.Comorbidities = len(pairs)
	if err := ctx.Err(); err != nil {
		return err
	}

	err := r.stage(st, StagePersist, func() error {
		committed, err := r.store.UpsertComorbidities(ctx, pairs)
		st.run.BatchesCommitted = committed
		r.metrics.recordBatches(committed)
		return err
	})
	if err != nil {
		return fmt.Errorf("persist comorbidities: %w", err)
	}

	if r.graph.Enabled() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.stage(st, StageGraph, func() error {
			diseases := st.diseases
			if diseases == nil {
				var err error
				diseases, err = r.store.DiseasesByIDs(ctx, idx.DiseaseIDs())
				if err != nil {
					return err
				}
			}
			return r.graph.Sync(ctx, diseases, pairs)
		}); err != nil {
			return fmt.Errorf("sync graph projection: %w", err)
		}
	}

	r.metrics.setResult(len(idx), len(pairs))
	return nil
}

func (r *Runner) stage(st *runState, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	st.stages[name] = elapsed.Milliseconds()
	r.metrics.observeStage(name, elapsed)
	return err
}

// finish persists the final state of the run. It uses a context detached
// from ctx so cancelled runs are still recorded as failed.
func (r *Runner) finish(ctx context.Context, st *runState, status string, started time.Time) {
	finished := time.Now().UTC()
	st.run.Status = status
	st.run.FinishedAt = &finished

	stats := map[string]interface{}{
		"stage_ms":   st.stages,
		"rejected":   st.rejected,
		"elapsed_ms": time.Since(started).Milliseconds(),
	}
	for k, v := range st.extra {
		stats[k] = v
	}
	if raw, err := json.Marshal(stats); err == nil {
		st.run.Stats = datatypes.JSON(raw)
	}

	if err := r.db.WithContext(context.WithoutCancel(ctx)).Save(st.run).Error; err != nil {
		r.log.Error("update pipeline run failed", "run_id", st.run.ID, "error", err)
	}
}

// LastRun returns the most recent pipeline run, or nil when none exists.
func (r *Runner) LastRun(ctx context.Context) (*model.PipelineRun, error) {
	var run model.PipelineRun
	err := r.db.WithContext(ctx).Order("id DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read last pipeline run: %w", err)
	}
	return &run, nil
}
