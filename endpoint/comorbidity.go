package endpoint

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/ariebrainware/comorbidity-network/model"
	"github.com/ariebrainware/comorbidity-network/pipeline"
	"github.com/ariebrainware/comorbidity-network/util"
)

// NetworkNode is a disease in the network payload. Degree counts the edges
// of the payload touching the node.
type NetworkNode struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Degree   int    `json:"degree"`
}

// NetworkEdge links two nodes of the network payload.
type NetworkEdge struct {
	Source           string  `json:"source"`
	Target           string  `json:"target"`
	SharedGenesCount int     `json:"shared_genes_count"`
	Score            float64 `json:"score"`
	JaccardIndex     float64 `json:"jaccard_index"`
}

// Network is the initial graph display payload.
type Network struct {
	Nodes []NetworkNode `json:"nodes"`
	Edges []NetworkEdge `json:"edges"`
}

// TopComorbidities godoc
// @Summary      Top comorbidities
// @Description  Get the highest scoring comorbidity pairs with both diseases resolved
// @Tags         Comorbidity
// @Accept       json
// @Produce      json
// @Param        limit query int false "Limit number of results" default(50)
// @Success      200 {object} util.APIResponse{data=[]model.DiseaseComorbidity} "Comorbidities retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /comorbidity/top [get]
func (h *Handler) TopComorbidities(c *gin.Context) {
	limit := util.QueryInt(c, "limit", defaultTopLimit, maxTopLimit)
	if limit == 0 {
		limit = defaultTopLimit
	}

	rows, err := cached(h, fmt.Sprintf("top:%d", limit), func() ([]model.DiseaseComorbidity, error) {
		return h.store.TopComorbidities(c.Request.Context(), limit)
	})
	if err != nil {
		h.log.Error("read top comorbidities failed", "error", err)
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve comorbidities",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Comorbidities retrieved",
		Data: rows,
	})
}

// GetNetwork godoc
// @Summary      Comorbidity network
// @Description  Get nodes and edges for the top scoring comorbidities, for initial graph display
// @Tags         Comorbidity
// @Accept       json
// @Produce      json
// @Param        limit query int false "Number of edges" default(100)
// @Success      200 {object} util.APIResponse{data=Network} "Network retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /network [get]
func (h *Handler) GetNetwork(c *gin.Context) {
	limit := util.QueryInt(c, "limit", defaultNetworkLimit, maxNetworkLimit)
	if limit == 0 {
		limit = defaultNetworkLimit
	}

	network, err := cached(h, fmt.Sprintf("network:%d", limit), func() (Network, error) {
		rows, err := h.store.TopComorbidities(c.Request.Context(), limit)
		if err != nil {
			return Network{}, err
		}
		return buildNetwork(rows), nil
	})
	if err != nil {
		h.log.Error("read network failed", "error", err)
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve network",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Network retrieved",
		Data: network,
	})
}

// buildNetwork keeps nodes in first-seen order. Edges missing either disease
// are skipped.
func buildNetwork(rows []model.DiseaseComorbidity) Network {
	out := Network{Nodes: []NetworkNode{}, Edges: []NetworkEdge{}}
	pos := map[string]int{}
	addNode := func(d *model.Disease) {
		if i, ok := pos[d.ID]; ok {
			out.Nodes[i].Degree++
			return
		}
		pos[d.ID] = len(out.Nodes)
		out.Nodes = append(out.Nodes, NetworkNode{ID: d.ID, Name: d.Name, Category: d.Category, Degree: 1})
	}

	for _, r := range rows {
		if r.DiseaseA == nil || r.DiseaseB == nil {
			continue
		}
		addNode(r.DiseaseA)
		addNode(r.DiseaseB)
		out.Edges = append(out.Edges, NetworkEdge{
			Source:           r.DiseaseAID,
			Target:           r.DiseaseBID,
			SharedGenesCount: r.SharedGenesCount,
			Score:            r.Score,
			JaccardIndex:     r.JaccardIndex,
		})
	}
	return out
}

// Recompute godoc
// @Summary      Recompute comorbidities
// @Description  Rebuild every comorbidity from the stored disease-gene associations. Runs synchronously.
// @Tags         Comorbidity
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=model.PipelineRun} "Recompute finished"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      409 {object} util.APIResponse "A run is already in progress"
// @Failure      429 {object} util.APIResponse "Too many requests"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /comorbidity/recompute [post]
func (h *Handler) Recompute(c *gin.Context) {
	if h.runner == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Recompute not available",
			Err: fmt.Errorf("runner is nil"),
		})
		return
	}

	run, err := h.runner.RunStore(c.Request.Context())
	if errors.Is(err, pipeline.ErrRunInProgress) {
		util.CallConflict(c, util.APIErrorParams{
			Msg: "A recompute is already in progress",
			Err: err,
		})
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Recompute failed",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Recompute finished",
		Data: run,
	})
}

// LatestRun godoc
// @Summary      Latest pipeline run
// @Description  Get the audit record of the most recent pipeline run
// @Tags         Comorbidity
// @Accept       json
// @Produce      json
// @Success      200 {object} util.APIResponse{data=model.PipelineRun} "Run retrieved"
// @Failure      404 {object} util.APIResponse "No run recorded"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /comorbidity/runs/latest [get]
func (h *Handler) LatestRun(c *gin.Context) {
	if h.runner == nil {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "No run recorded",
			Err: fmt.Errorf("runner is nil"),
		})
		return
	}
	run, err := h.runner.LastRun(c.Request.Context())
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve run",
			Err: err,
		})
		return
	}
	if run == nil {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "No run recorded",
			Err: fmt.Errorf("no pipeline run found"),
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Run retrieved",
		Data: run,
	})
}
