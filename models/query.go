package models

// Operators understood by the database layer when translating constraints
const (
	OpEqual         = "=="
	OpGreaterEqual  = ">="
	OpLessEqual     = "<="
	OpLess          = "<"
	OpArrayContains = "array-contains"
	OpIn            = "in"
)

// Constraint is a single store-level predicate on one field
type Constraint struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

// Query is a list of constraints plus optional ordering and limit
type Query struct {
	Constraints []Constraint
	OrderBy     string
	Descending  bool
	Limit       int64
}
