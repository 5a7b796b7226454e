package endpoint

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWelcome(t *testing.T) {
	env := setupEndpointTest(t, false)

	w, resp, err := performRequest(env.router, requestSpec{method: http.MethodGet, requestPath: "/"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Welcome to Comorbidity Network!", resp["message"])
}

func TestSearchDiseases(t *testing.T) {
	env := setupEndpointTest(t, true)

	tests := []struct {
		name      string
		path      string
		wantTotal float64
		wantCount int
		wantLimit float64
	}{
		{"all", "/disease", 4, 4, 20},
		{"by name, case-insensitive", "/disease?q=DIAB", 1, 1, 20},
		{"by category", "/disease?q=metabolic", 2, 2, 20},
		{"by disgenet id", "/disease?q=c0004096", 1, 1, 20},
		{"paged", "/disease?limit=1&offset=1", 4, 1, 1},
		{"limit clamped", "/disease?limit=1000", 4, 4, 100},
		{"no match", "/disease?q=zzz", 0, 0, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp, err := performRequest(env.router, requestSpec{method: http.MethodGet, requestPath: tt.path})
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, true, resp["success"])

			data := resp["data"].(map[string]interface{})
			assert.Equal(t, tt.wantTotal, data["total"])
			assert.Equal(t, tt.wantLimit, data["limit"])
			assert.Len(t, data["diseases"], tt.wantCount)
		})
	}
}

func TestGetDisease_Detail(t *testing.T) {
	env := setupEndpointTest(t, true)
	obesity := env.diseaseID(t, "C0028754")
	t2d := env.diseaseID(t, "C0011860")
	cad := env.diseaseID(t, "C1956346")

	w, resp, err := performRequest(env.router, requestSpec{method: http.MethodGet, requestPath: "/disease/" + obesity})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, w.Code)

	data := resp["data"].(map[string]interface{})
	disease := data["disease"].(map[string]interface{})
	assert.Equal(t, "Obesity", disease["name"])

	genes := data["genes"].([]interface{})
	require.Len(t, genes, 3)
	symbols := []string{}
	for _, g := range genes {
		gene := g.(map[string]interface{})["gene"].(map[string]interface{})
		symbols = append(symbols, gene["symbol"].(string))
	}
	assert.Equal(t, []string{"FTO", "PPARG", "APOE"}, symbols)

	comorbidities := data["comorbidities"].([]interface{})
	require.Len(t, comorbidities, 2)
	first := comorbidities[0].(map[string]interface{})
	second := comorbidities[1].(map[string]interface{})
	assert.Equal(t, t2d, first["other_disease"].(map[string]interface{})["id"])
	assert.Equal(t, cad, second["other_disease"].(map[string]interface{})["id"])
	assert.Greater(t, first["score"].(float64), second["score"].(float64))

	stats := data["stats"].(map[string]interface{})
	assert.Equal(t, 3.0, stats["gene_count"])
	assert.Equal(t, 2.0, stats["comorbidity_count"])
	assert.InDelta(t, 1.75, stats["total_association_score"].(float64), 1e-9)
}

func TestGetDisease_WithoutComorbidities(t *testing.T) {
	env := setupEndpointTest(t, true)
	asthma := env.diseaseID(t, "C0004096")

	w, resp, err := performRequest(env.router, requestSpec{method: http.MethodGet, requestPath: "/disease/" + asthma})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, w.Code)

	data := resp["data"].(map[string]interface{})
	assert.Empty(t, data["comorbidities"])
	assert.Len(t, data["genes"], 1)
}

func TestGetDisease_NotFound(t *testing.T) {
	env := setupEndpointTest(t, true)

	w, resp, err := performRequest(env.router, requestSpec{method: http.MethodGet, requestPath: "/disease/does-not-exist"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Disease not found", resp["msg"])
}

func TestGetDisease_IsCached(t *testing.T) {
	env := setupEndpointTest(t, true)
	asthma := env.diseaseID(t, "C0004096")
	path := "/disease/" + asthma

	_, _, err := performRequest(env.router, requestSpec{method: http.MethodGet, requestPath: path})
	require.NoError(t, err)
	_, ok := env.cache.Get("disease:" + asthma)
	assert.True(t, ok)

	require.NoError(t, env.db.Exec("UPDATE diseases SET name = ? WHERE id = ?", "Renamed", asthma).Error)
	_, resp, err := performRequest(env.router, requestSpec{method: http.MethodGet, requestPath: path})
	require.NoError(t, err)
	disease := resp["data"].(map[string]interface{})["disease"].(map[string]interface{})
	assert.Equal(t, "Asthma", disease["name"])
}
