// Package developer provides roster storage.
package developer

import (
	"github.com/viant/hourly/model"
	"github.com/viant/hourly/service/dao"
	"github.com/viant/hourly/service/dao/criteria"
	"github.com/viant/hourly/service/dao/fs"
	"github.com/viant/hourly/service/dao/store"
)

func key(d *model.Developer) int { return d.ID }

func match(d *model.Developer, parameters []*dao.Parameter) bool {
	return criteria.FilterByName(d.Name, parameters)
}

// NewMemory creates an in-memory developer store
func NewMemory() dao.Service[int, model.Developer] {
	return store.NewMemoryStore[int, model.Developer](key, match)
}

// NewFS creates a developer store persisting JSON documents under baseURL
func NewFS(baseURL string) (dao.Service[int, model.Developer], error) {
	ret, err := fs.New[int, model.Developer](baseURL, key,
		fs.WithMatcher[int, model.Developer](match),
		fs.WithLess[int, model.Developer](func(a, b *model.Developer) bool { return a.ID < b.ID }))
	if err != nil {
		return nil, err
	}
	return ret, nil
}
