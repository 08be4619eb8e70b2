package plan

// JoinMethod is the physical algorithm chosen for a join.
type JoinMethod int

const (
	NestedLoop JoinMethod = iota
	HashJoin
	SortMerge
)

func (m JoinMethod) String() string {
	switch m {
	case NestedLoop:
		return "nested-loop"
	case HashJoin:
		return "hash"
	case SortMerge:
		return "sort-merge"
	default:
		return "unknown"
	}
}
