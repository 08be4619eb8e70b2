package statistics

import (
	"context"
	"costdb/pkg/catalog"
	"costdb/pkg/config"
	"costdb/pkg/dberror"
	"costdb/pkg/logging"
	"costdb/pkg/metrics"
	"costdb/pkg/storage"
	"costdb/pkg/types"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ComputeStatistics analyzes every table of cat and, when enabled, builds
// the joint histograms of every same-typed column pair of every table pair
// (a table paired with itself included). Tables are scanned concurrently up
// to conf.BuildConcurrency. The registry is only returned when every build
// succeeded; on failure nothing is published.
func ComputeStatistics(ctx context.Context, cat *catalog.Catalog, conf config.StatisticsConfig) (*Registry, error) {
	start := time.Now()
	logger := logging.WithComponent("statistics")

	reg, err := computeStatistics(ctx, cat, conf)
	if err != nil {
		metrics.StatsBuildCounter.WithLabelValues(metrics.LblError).Inc()
		logger.Error("statistics build failed", zap.Error(err))
		return nil, err
	}

	metrics.StatsBuildCounter.WithLabelValues(metrics.LblOK).Inc()
	logger.Info("statistics computed",
		zap.Int("tables", len(reg.tables)),
		zap.Int("joint-histograms", reg.NumJointHistograms()),
		zap.Duration("took", time.Since(start)))
	return reg, nil
}

func computeStatistics(ctx context.Context, cat *catalog.Catalog, conf config.StatisticsConfig) (*Registry, error) {
	b := NewRegistryBuilder()
	names := cat.TableNames()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(conf.BuildConcurrency, 1))
	for _, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return b.analyzeTable(cat, name, conf)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if conf.JointHistograms {
		if err := b.BuildJointHistograms(ctx, cat, conf.HistogramBuckets, conf.BuildConcurrency); err != nil {
			return nil, err
		}
	}
	return b.Freeze()
}

func (b *RegistryBuilder) analyzeTable(cat *catalog.Catalog, name string, conf config.StatisticsConfig) error {
	start := time.Now()

	id, err := cat.GetTableID(name)
	if err != nil {
		return err
	}
	file, err := cat.GetDbFile(id)
	if err != nil {
		return err
	}

	ts, err := NewTableStats(name, file, conf.IOCostPerPage, conf.HistogramBuckets)
	if err != nil {
		return err
	}
	if err := b.SetTableStats(name, ts); err != nil {
		return err
	}

	metrics.StatsBuildDuration.WithLabelValues(metrics.LblTable).Observe(time.Since(start).Seconds())
	logging.WithTable(name).Info("table statistics built",
		zap.Int64("tuples", ts.TotalTuples()),
		zap.Int("pages", ts.NumPages()),
		zap.Float64("scan-cost", ts.EstimateScanCost()))
	return nil
}

// BuildJointHistograms builds the joint histograms for every pair of tables
// in cat whose statistics were already recorded. For each pair of
// same-typed columns both orientations are built, each over the domain of
// its first column.
func (b *RegistryBuilder) BuildJointHistograms(ctx context.Context, cat *catalog.Catalog, buckets, concurrency int) error {
	names := cat.TableNames()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i := range names {
		for j := i; j < len(names); j++ {
			t1, t2 := names[i], names[j]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return b.buildPair(cat, t1, t2, buckets)
			})
		}
	}
	return g.Wait()
}

func (b *RegistryBuilder) buildPair(cat *catalog.Catalog, t1, t2 string, buckets int) error {
	start := time.Now()

	side1, err := b.tableSide(cat, t1)
	if err != nil {
		return err
	}
	side2, err := b.tableSide(cat, t2)
	if err != nil {
		return err
	}

	td1, td2 := side1.stats.TupleDesc(), side2.stats.TupleDesc()
	built := 0
	for m := 0; m < td1.NumFields(); m++ {
		for n := 0; n < td2.NumFields(); n++ {
			if td1.Types[m] != td2.Types[n] {
				continue
			}
			f1, _ := td1.GetFieldName(m)
			f2, _ := td2.GetFieldName(n)

			if err := b.buildJoint(side1, m, side2, n, buckets); err != nil {
				return dberror.StatsBuildFailed(t1+"."+f1+" / "+t2+"."+f2, err)
			}
			if err := b.buildJoint(side2, n, side1, m, buckets); err != nil {
				return dberror.StatsBuildFailed(t2+"."+f2+" / "+t1+"."+f1, err)
			}
			built += 2
		}
	}

	metrics.StatsBuildDuration.WithLabelValues(metrics.LblJoint).Observe(time.Since(start).Seconds())
	logging.WithComponent("statistics").Debug("joint histograms built",
		zap.String("table1", t1), zap.String("table2", t2), zap.Int("count", built))
	return nil
}

type tableSide struct {
	name  string
	stats *TableStats
	file  storage.DbFile
}

func (b *RegistryBuilder) tableSide(cat *catalog.Catalog, name string) (tableSide, error) {
	ts, err := b.TableStats(name)
	if err != nil {
		return tableSide{}, err
	}
	id, err := cat.GetTableID(name)
	if err != nil {
		return tableSide{}, err
	}
	file, err := cat.GetDbFile(id)
	if err != nil {
		return tableSide{}, err
	}
	return tableSide{name: name, stats: ts, file: file}, nil
}

func (b *RegistryBuilder) buildJoint(a tableSide, colA int, other tableSide, colB int, buckets int) error {
	var (
		h   *JointHistogram
		err error
	)
	if a.stats.TupleDesc().Types[colA] == types.StringType {
		h, err = NewStringJointHistogram(buckets)
	} else {
		lo, hi, berr := a.stats.ColumnBounds(colA)
		if berr != nil {
			return berr
		}
		h, err = NewJointHistogram(buckets, lo, hi)
	}
	if err != nil {
		return err
	}

	if err := h.AddValuesFromIterators(a.file.Iterator(), colA, other.file.Iterator(), colB); err != nil {
		return err
	}

	fA, _ := a.stats.TupleDesc().GetFieldName(colA)
	fB, _ := other.stats.TupleDesc().GetFieldName(colB)
	return b.SetJointHistogram(a.name, fA, other.name, fB, h)
}
