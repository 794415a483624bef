package ast

// Condition is a single predicate of a WHERE, HAVING or JOIN ON clause.
//
// Target is nil for OpRaw, OpGroup, OpExists and OpNotExists. Values holds
// the bound operands in render order: one for comparisons and LIKE-family
// predicates, two for BETWEEN, any number for IN. For OpRaw, Raw carries the
// fragment and its own arguments.
type Condition struct {
	Operator Operator
	Target   Fragment
	Values   []any
	Chain    Chain
	Group    *ConditionGroup
	Subquery Subquery
	Raw      *Raw
}

// ConditionGroup is an ordered list of conditions. Insertion order decides
// clause order.
type ConditionGroup struct {
	Conditions []*Condition
}

// NewConditionGroup returns an empty group.
func NewConditionGroup() *ConditionGroup {
	return &ConditionGroup{}
}

// Add appends a condition.
func (g *ConditionGroup) Add(c *Condition) {
	g.Conditions = append(g.Conditions, c)
}

// Empty reports whether the group holds no conditions.
func (g *ConditionGroup) Empty() bool {
	return g == nil || len(g.Conditions) == 0
}

// Clone deep copies the group so a built statement never aliases builder state.
func (g *ConditionGroup) Clone() *ConditionGroup {
	if g == nil {
		return nil
	}
	out := &ConditionGroup{Conditions: make([]*Condition, len(g.Conditions))}
	for i, c := range g.Conditions {
		cc := *c
		cc.Values = append([]any(nil), c.Values...)
		cc.Group = c.Group.Clone()
		if c.Raw != nil {
			r := *c.Raw
			r.Args = append([]any(nil), c.Raw.Args...)
			cc.Raw = &r
		}
		out.Conditions[i] = &cc
	}
	return out
}
