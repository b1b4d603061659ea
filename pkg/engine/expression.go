package engine

import "encoding/json"

// Expression is one node of the compiled execution tree handed to the
// executor. The vocabulary is deliberately small: leaves run statements,
// inner nodes combine row sequences or counts. Concat holds Query children
// and Sum holds Execute children by construction, so the tree is well-typed
// without runtime checks.
type Expression interface {
	isExpression()
}

// Query runs a statement that yields an ordered sequence of rows.
type Query struct {
	Statement Statement
}

// Execute runs a statement that yields a single affected-row count.
type Execute struct {
	Statement Statement
}

// Unique collapses its child's row sequence into an optional single row.
// Used wherever the logical operation is known, by construction, to touch
// at most one record.
type Unique struct {
	Child Expression
}

// Concat runs all children and concatenates their row sequences in order.
// Child order is observable: it becomes the order of returned rows.
type Concat struct {
	Queries []Query
}

// Sum runs all children and adds their affected-row counts.
type Sum struct {
	Executes []Execute
}

func (Query) isExpression()   {}
func (Execute) isExpression() {}
func (Unique) isExpression()  {}
func (Concat) isExpression()  {}
func (Sum) isExpression()     {}

// exprDoc is the tagged wire form of an expression node, used for plan
// inspection and golden tests.
type exprDoc struct {
	Type      string       `json:"type"`
	Statement *Statement   `json:"statement,omitempty"`
	Child     Expression   `json:"child,omitempty"`
	Children  []Expression `json:"children,omitempty"`
}

func (q Query) MarshalJSON() ([]byte, error) {
	return json.Marshal(exprDoc{Type: "query", Statement: &q.Statement})
}

func (e Execute) MarshalJSON() ([]byte, error) {
	return json.Marshal(exprDoc{Type: "execute", Statement: &e.Statement})
}

func (u Unique) MarshalJSON() ([]byte, error) {
	return json.Marshal(exprDoc{Type: "unique", Child: u.Child})
}

func (c Concat) MarshalJSON() ([]byte, error) {
	children := make([]Expression, len(c.Queries))
	for i, q := range c.Queries {
		children[i] = q
	}
	return json.Marshal(exprDoc{Type: "concat", Children: children})
}

func (s Sum) MarshalJSON() ([]byte, error) {
	children := make([]Expression, len(s.Executes))
	for i, e := range s.Executes {
		children[i] = e
	}
	return json.Marshal(exprDoc{Type: "sum", Children: children})
}

// MarshalPlan renders an expression tree as indented JSON.
func MarshalPlan(expr Expression) ([]byte, error) {
	return json.MarshalIndent(expr, "", "  ")
}
