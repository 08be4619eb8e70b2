package statistics

import (
	"context"
	"costdb/pkg/catalog"
	"costdb/pkg/config"
	"costdb/pkg/dberror"
	"costdb/pkg/primitives"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func statsConf() config.StatisticsConfig {
	return config.NewConfig().Statistics
}

func TestComputeStatistics(t *testing.T) {
	reg, err := ComputeStatistics(context.Background(), scenarioCatalog(t), statsConf())
	require.NoError(t, err)

	require.Equal(t, []string{"T1", "T2"}, reg.TableNames())
	// T1/T1, T1/T2 in both orientations, T2/T2.
	require.Equal(t, 4, reg.NumJointHistograms())

	ts, err := reg.TableStats("T2")
	require.NoError(t, err)
	require.Equal(t, int64(299), ts.TotalTuples())

	h, ok := reg.JointHistogram("T1", "a", "T2", "b")
	require.True(t, ok)
	eq, err := h.EstimateCardinality(primitives.Equals)
	require.NoError(t, err)
	withinPercent(t, 100, eq, 5)

	rev, ok := reg.JointHistogram("T2", "b", "T1", "a")
	require.True(t, ok)
	a, b := rev.Sums()
	require.Equal(t, int64(299), a)
	require.Equal(t, int64(100), b)

	_, ok = reg.JointHistogram("T1", "a", "T2", "zzz")
	require.False(t, ok)

	_, err = reg.TableStats("nope")
	require.True(t, dberror.HasCode(err, dberror.CodeStatsMissing))
}

func TestComputeStatisticsWithoutJoint(t *testing.T) {
	conf := statsConf()
	conf.JointHistograms = false
	conf.BuildConcurrency = 1

	reg, err := ComputeStatistics(context.Background(), scenarioCatalog(t), conf)
	require.NoError(t, err)
	require.Zero(t, reg.NumJointHistograms())
	require.Len(t, reg.TableNames(), 2)
}

func TestComputeStatisticsFailurePublishesNothing(t *testing.T) {
	cat := scenarioCatalog(t)
	f, s := intTable(t, "T3", "c", rangeValues(0, 99))
	require.NoError(t, cat.AddTable(&faultyFile{File: f, failAfter: 10}, s))

	reg, err := ComputeStatistics(context.Background(), cat, statsConf())
	require.Nil(t, reg)
	require.True(t, dberror.HasCode(err, dberror.CodeStatsBuildFailed))
}

func TestComputeStatisticsJointFailure(t *testing.T) {
	cat := catalog.NewCatalog()
	require.NoError(t, cat.AddTable(intTable(t, "T1", "a", rangeValues(0, 9))))

	b := NewRegistryBuilder()
	file, _ := intTable(t, "T1", "a", rangeValues(0, 9))
	ts, err := NewTableStats("T1", file, 1, 10)
	require.NoError(t, err)
	require.NoError(t, b.SetTableStats("T1", ts))

	missing := catalog.NewCatalog()
	require.NoError(t, missing.AddTable(intTable(t, "T9", "z", rangeValues(0, 9))))
	err = b.BuildJointHistograms(context.Background(), missing, 10, 2)
	require.True(t, dberror.HasCode(err, dberror.CodeStatsMissing))

	require.NoError(t, b.BuildJointHistograms(context.Background(), cat, 10, 2))
	reg, err := b.Freeze()
	require.NoError(t, err)
	require.Equal(t, 1, reg.NumJointHistograms())
}

func TestRegistryBuilderFreeze(t *testing.T) {
	b := NewRegistryBuilder()
	file, _ := intTable(t, "T1", "a", rangeValues(0, 9))
	ts, err := NewTableStats("T1", file, 1, 10)
	require.NoError(t, err)
	require.NoError(t, b.SetTableStats("T1", ts))

	reg, err := b.Freeze()
	require.NoError(t, err)
	require.True(t, b.Frozen())

	err = b.SetTableStats("T2", ts)
	require.True(t, dberror.HasCode(err, dberror.CodeRegistryFrozen))
	err = b.SetJointHistogram("T1", "a", "T1", "a", nil)
	require.True(t, dberror.HasCode(err, dberror.CodeRegistryFrozen))
	_, err = b.Freeze()
	require.True(t, dberror.HasCode(err, dberror.CodeRegistryFrozen))

	require.Equal(t, []string{"T1"}, reg.TableNames())
}

func TestRegistryConcurrentReads(t *testing.T) {
	reg, err := ComputeStatistics(context.Background(), scenarioCatalog(t), statsConf())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ts, err := reg.TableStats("T1")
				if err != nil || ts.TotalTuples() != 100 {
					t.Errorf("unexpected stats read: %v", err)
					return
				}
				if _, ok := reg.JointHistogram("T1", "a", "T2", "b"); !ok {
					t.Error("joint histogram missing")
					return
				}
			}
		}()
	}
	wg.Wait()
}
