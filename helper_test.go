package hourly_test

import (
	"context"
	"errors"

	"github.com/viant/hourly/model"
	"github.com/viant/hourly/service/dao"
	"github.com/viant/hourly/service/dao/demand"
)

// failingDeveloperStore fails the failAt-th Delete call.
type failingDeveloperStore struct {
	dao.Service[int, model.Developer]
	failAt  int
	deletes int
}

func (s *failingDeveloperStore) Delete(ctx context.Context, id int) error {
	s.deletes++
	if s.deletes == s.failAt {
		return errors.New("store unavailable")
	}
	return s.Service.Delete(ctx, id)
}

// memoryDemands seeds a demand store bypassing façade validation.
func memoryDemands(records ...model.Demand) dao.Service[int, model.Demand] {
	ret := demand.NewMemory()
	for i := range records {
		_ = ret.Save(context.Background(), &records[i])
	}
	return ret
}
