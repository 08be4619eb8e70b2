package registry

import (
	"context"
	"costdb/pkg/catalog"
	"costdb/pkg/config"
	"costdb/pkg/optimizer"
	"costdb/pkg/optimizer/statistics"
	"costdb/pkg/plan"

	"github.com/spf13/afero"
)

// PlannerContext holds the components shared by every planning call: the
// catalog, the statistics computed over it and the configuration. It is
// built once and passed down instead of being reached through globals.
type PlannerContext struct {
	catalog *catalog.Catalog
	stats   *statistics.Registry
	conf    *config.Config
}

// NewPlannerContext wraps already loaded components. A nil conf means the
// defaults.
func NewPlannerContext(cat *catalog.Catalog, stats *statistics.Registry, conf *config.Config) *PlannerContext {
	if conf == nil {
		conf = config.NewConfig()
	}
	return &PlannerContext{
		catalog: cat,
		stats:   stats,
		conf:    conf,
	}
}

// Load reads the catalog manifest at path from fs and computes statistics
// for every table it declares.
func Load(ctx context.Context, fs afero.Fs, path string, conf *config.Config) (*PlannerContext, error) {
	if conf == nil {
		conf = config.NewConfig()
	}
	cat, err := catalog.LoadManifest(fs, path)
	if err != nil {
		return nil, err
	}
	stats, err := statistics.ComputeStatistics(ctx, cat, conf.Statistics)
	if err != nil {
		return nil, err
	}
	return NewPlannerContext(cat, stats, conf), nil
}

func (pc *PlannerContext) Catalog() *catalog.Catalog {
	return pc.catalog
}

func (pc *PlannerContext) Statistics() *statistics.Registry {
	return pc.stats
}

func (pc *PlannerContext) Config() *config.Config {
	return pc.conf
}

// JoinOptimizer returns an optimizer for lp configured from the context.
func (pc *PlannerContext) JoinOptimizer(lp *plan.LogicalPlan) *optimizer.JoinOptimizer {
	return optimizer.NewJoinOptimizer(lp, pc.catalog, pc.conf.Optimizer)
}
