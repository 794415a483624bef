package ast

// Operator is the predicate kind of a Condition.
type Operator int

const (
	OpEquals Operator = iota
	OpNotEquals
	OpLessThan
	OpLessThanOrEquals
	OpGreaterThan
	OpGreaterThanOrEquals
	OpBetween
	OpNotBetween
	OpIn
	OpNotIn
	OpInSubquery
	OpNotInSubquery
	OpExists
	OpNotExists
	OpLike
	OpNotLike
	OpStartsWith
	OpEndsWith
	OpContains
	OpNotContains
	OpRegex
	OpNotRegex
	OpIsNull
	OpIsNotNull
	OpEmpty
	OpNotEmpty
	OpRaw
	OpGroup
)

var operatorNames = map[Operator]string{
	OpEquals:              "EQUALS",
	OpNotEquals:           "NOT_EQUALS",
	OpLessThan:            "LESS_THAN",
	OpLessThanOrEquals:    "LESS_THAN_OR_EQUALS",
	OpGreaterThan:         "GREATER_THAN",
	OpGreaterThanOrEquals: "GREATER_THAN_OR_EQUALS",
	OpBetween:             "BETWEEN",
	OpNotBetween:          "NOT_BETWEEN",
	OpIn:                  "IN",
	OpNotIn:               "NOT_IN",
	OpInSubquery:          "IN_SUBQUERY",
	OpNotInSubquery:       "NOT_IN_SUBQUERY",
	OpExists:              "EXISTS",
	OpNotExists:           "NOT_EXISTS",
	OpLike:                "LIKE",
	OpNotLike:             "NOT_LIKE",
	OpStartsWith:          "STARTS_WITH",
	OpEndsWith:            "ENDS_WITH",
	OpContains:            "CONTAINS",
	OpNotContains:         "NOT_CONTAINS",
	OpRegex:               "REGEX",
	OpNotRegex:            "NOT_REGEX",
	OpIsNull:              "IS_NULL",
	OpIsNotNull:           "IS_NOT_NULL",
	OpEmpty:               "EMPTY",
	OpNotEmpty:            "NOT_EMPTY",
	OpRaw:                 "RAW",
	OpGroup:               "GROUP",
}

func (o Operator) String() string {
	if s, ok := operatorNames[o]; ok {
		return s
	}
	return "UNKNOWN"
}

// Comparison returns the SQL comparison keyword for simple binary operators.
func (o Operator) Comparison() (string, bool) {
	switch o {
	case OpEquals:
		return "=", true
	case OpNotEquals:
		return "<>", true
	case OpLessThan:
		return "<", true
	case OpLessThanOrEquals:
		return "<=", true
	case OpGreaterThan:
		return ">", true
	case OpGreaterThanOrEquals:
		return ">=", true
	default:
		return "", false
	}
}

// Chain joins a condition to the one before it.
type Chain int

const (
	And Chain = iota
	Or
)

func (c Chain) String() string {
	if c == Or {
		return "OR"
	}
	return "AND"
}

// Direction is an ORDER BY direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}
