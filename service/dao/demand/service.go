// Package demand provides backlog storage.
package demand

import (
	"github.com/viant/hourly/model"
	"github.com/viant/hourly/service/dao"
	"github.com/viant/hourly/service/dao/criteria"
	"github.com/viant/hourly/service/dao/fs"
	"github.com/viant/hourly/service/dao/store"
)

func key(d *model.Demand) int { return d.ID }

func match(d *model.Demand, parameters []*dao.Parameter) bool {
	return criteria.FilterByName(d.Name, parameters)
}

// NewMemory creates an in-memory demand store
func NewMemory() dao.Service[int, model.Demand] {
	return store.NewMemoryStore[int, model.Demand](key, match)
}

// NewFS creates a demand store persisting JSON documents under baseURL
func NewFS(baseURL string) (dao.Service[int, model.Demand], error) {
	ret, err := fs.New[int, model.Demand](baseURL, key,
		fs.WithMatcher[int, model.Demand](match),
		fs.WithLess[int, model.Demand](func(a, b *model.Demand) bool { return a.ID < b.ID }))
	if err != nil {
		return nil, err
	}
	return ret, nil
}
