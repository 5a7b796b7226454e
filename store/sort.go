package store

import (
	"sort"

	"github.com/ariebrainware/comorbidity-network/model"
)

func sortDiseases(ds []model.Disease) {
	sort.Slice(ds, func(i, j int) bool {
		if ds[i].Name != ds[j].Name {
			return ds[i].Name < ds[j].Name
		}
		return ds[i].ID < ds[j].ID
	})
}
