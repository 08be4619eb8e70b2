package optimizer

// PlanCache memoizes the best plan found for each subset of join conditions.
// A subset is a bitmask over the conditions' positions in the input list.
type PlanCache struct {
	plans map[uint64]fragments
}

// NewPlanCache creates an empty cache.
func NewPlanCache() *PlanCache {
	return &PlanCache{plans: make(map[uint64]fragments)}
}

// AddPlan records the best plan for subset.
func (pc *PlanCache) AddPlan(subset uint64, plan []*CostCard) {
	pc.plans[subset] = plan
}

// GetPlan returns the best plan for subset, or nil if none was recorded.
func (pc *PlanCache) GetPlan(subset uint64) []*CostCard {
	return pc.plans[subset]
}

// Len returns the number of memoized subsets.
func (pc *PlanCache) Len() int {
	return len(pc.plans)
}
