// Package endpoint serves the comorbidity read API and the recompute trigger.
package endpoint

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ariebrainware/comorbidity-network/logger"
	"github.com/ariebrainware/comorbidity-network/model"
	"github.com/ariebrainware/comorbidity-network/store"
	"github.com/ariebrainware/comorbidity-network/util"
)

const (
	defaultSearchLimit  = 20
	maxSearchLimit      = 100
	detailComorbidities = 20
	defaultTopLimit     = 50
	maxTopLimit         = 500
	defaultNetworkLimit = 100
	maxNetworkLimit     = 500
)

// Recomputer runs the pipeline against the persisted associations.
type Recomputer interface {
	RunStore(ctx context.Context) (*model.PipelineRun, error)
	LastRun(ctx context.Context) (*model.PipelineRun, error)
}

// Options holds the dependencies of a Handler. Cache and Runner may be nil.
type Options struct {
	AppName string
	Store   *store.Store
	Cache   *util.ReadCache
	Runner  Recomputer
	Log     *logger.Logger
}

// Handler implements the HTTP handlers.
type Handler struct {
	appName string
	store   *store.Store
	cache   *util.ReadCache
	runner  Recomputer
	log     *logger.Logger
}

func NewHandler(opts Options) *Handler {
	return &Handler{
		appName: opts.AppName,
		store:   opts.Store,
		cache:   opts.Cache,
		runner:  opts.Runner,
		log:     opts.Log.With("component", "Endpoint"),
	}
}

// Welcome godoc
// @Summary      Welcome message
// @Tags         Meta
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       / [get]
func (h *Handler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Welcome to %s!", h.appName),
	})
}

// cached returns the cached value under key or computes, caches and returns
// it. Errors are never cached.
func cached[T any](h *Handler, key string, load func() (T, error)) (T, error) {
	if v, ok := h.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	h.cache.Set(key, v)
	return v, nil
}

// helper: get and validate id param from path
func getIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if id == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Missing disease ID",
			Err: fmt.Errorf("disease ID is required"),
		})
		return "", false
	}
	return id, true
}
