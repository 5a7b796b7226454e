package endpoint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ariebrainware/comorbidity-network/model"
	"github.com/ariebrainware/comorbidity-network/store"
	"github.com/ariebrainware/comorbidity-network/util"
)

// DiseaseSearchResult is one page of the disease catalog.
type DiseaseSearchResult struct {
	Total    int64           `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
	Diseases []model.Disease `json:"diseases"`
}

// ComorbidityView is a comorbidity edge seen from one disease.
type ComorbidityView struct {
	ID               string         `json:"id"`
	OtherDisease     *model.Disease `json:"other_disease"`
	SharedGenesCount int            `json:"shared_genes_count"`
	Score            float64        `json:"score"`
	JaccardIndex     float64        `json:"jaccard_index"`
}

// DiseaseStats summarizes a disease detail page.
type DiseaseStats struct {
	GeneCount             int     `json:"gene_count"`
	ComorbidityCount      int     `json:"comorbidity_count"`
	TotalAssociationScore float64 `json:"total_association_score"`
}

// DiseaseDetail is the payload of GET /disease/:id.
type DiseaseDetail struct {
	Disease       model.Disease           `json:"disease"`
	Genes         []model.GeneAssociation `json:"genes"`
	Comorbidities []ComorbidityView       `json:"comorbidities"`
	Stats         DiseaseStats            `json:"stats"`
}

// SearchDiseases godoc
// @Summary      Search diseases
// @Description  Search the disease catalog by name, DisGeNET id or category (case-insensitive)
// @Tags         Disease
// @Accept       json
// @Produce      json
// @Param        q query string false "Search text"
// @Param        limit query int false "Limit number of results" default(20)
// @Param        offset query int false "Offset for pagination" default(0)
// @Success      200 {object} util.APIResponse{data=DiseaseSearchResult} "Diseases retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /disease [get]
func (h *Handler) SearchDiseases(c *gin.Context) {
	q := store.SearchQuery{
		Text:   strings.TrimSpace(c.Query("q")),
		Limit:  util.QueryInt(c, "limit", defaultSearchLimit, maxSearchLimit),
		Offset: util.QueryInt(c, "offset", 0, 0),
	}
	if q.Limit == 0 {
		q.Limit = defaultSearchLimit
	}

	key := fmt.Sprintf("search:%s:%d:%d", strings.ToLower(q.Text), q.Limit, q.Offset)
	result, err := cached(h, key, func() (DiseaseSearchResult, error) {
		diseases, total, err := h.store.SearchDiseases(c.Request.Context(), q)
		if err != nil {
			return DiseaseSearchResult{}, err
		}
		return DiseaseSearchResult{Total: total, Limit: q.Limit, Offset: q.Offset, Diseases: diseases}, nil
	})
	if err != nil {
		h.log.Error("search diseases failed", "error", err)
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve diseases",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Diseases retrieved",
		Data: result,
	})
}

// GetDisease godoc
// @Summary      Get disease detail
// @Description  Get a disease with its genes (association score desc), its top comorbidities (score desc) and summary stats
// @Tags         Disease
// @Accept       json
// @Produce      json
// @Param        id path string true "Disease ID"
// @Success      200 {object} util.APIResponse{data=DiseaseDetail} "Disease retrieved"
// @Failure      404 {object} util.APIResponse "Disease not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /disease/{id} [get]
func (h *Handler) GetDisease(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}

	detail, err := cached(h, "disease:"+id, func() (DiseaseDetail, error) {
		return h.diseaseDetail(c, id)
	})
	if errors.Is(err, store.ErrNotFound) {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Disease not found",
			Err: err,
		})
		return
	}
	if err != nil {
		h.log.Error("read disease detail failed", "disease_id", id, "error", err)
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve disease",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Disease retrieved",
		Data: detail,
	})
}

func (h *Handler) diseaseDetail(c *gin.Context, id string) (DiseaseDetail, error) {
	ctx := c.Request.Context()
	disease, err := h.store.Disease(ctx, id)
	if err != nil {
		return DiseaseDetail{}, err
	}
	genes, err := h.store.GenesFor(ctx, id)
	if err != nil {
		return DiseaseDetail{}, err
	}
	edges, err := h.store.ComorbiditiesFor(ctx, id, detailComorbidities)
	if err != nil {
		return DiseaseDetail{}, err
	}

	views := make([]ComorbidityView, 0, len(edges))
	for _, e := range edges {
		views = append(views, ComorbidityView{
			ID:               e.ID,
			OtherDisease:     e.Other(id),
			SharedGenesCount: e.SharedGenesCount,
			Score:            e.Score,
			JaccardIndex:     e.JaccardIndex,
		})
	}

	var total float64
	for _, g := range genes {
		total += g.Score
	}

	return DiseaseDetail{
		Disease:       disease,
		Genes:         genes,
		Comorbidities: views,
		Stats: DiseaseStats{
			GeneCount:             len(genes),
			ComorbidityCount:      len(views),
			TotalAssociationScore: total,
		},
	}, nil
}
