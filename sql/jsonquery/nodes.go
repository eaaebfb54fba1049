// Package jsonquery defines the SQL AST produced by the translate package: a
// small tree of SELECT statements and value expressions tailored to the
// JSON-aggregation/LATERAL-join shape this translator emits. The tree is
// recursive (a Select can nest inside a FromItem or an Expr) and carries
// only the handful of SQL forms the translator ever emits, so its node
// types stay self-contained rather than sharing a generic enum vocabulary
// meant for flat, options-driven SELECT/INSERT/UPDATE/DELETE building.
package jsonquery

// Expr is any value-producing SQL expression.
type Expr interface{ isExpr() }

// Ident is a bare, unqualified identifier: "name".
type Ident struct{ Name string }

// Qualified is a dotted column reference: "qualifier"."name".
type Qualified struct{ Qualifier, Name string }

// Param is a positional parameter placeholder: $N.
type Param struct{ Index int }

// StringLit is a string literal, unescaped; the emitter quotes it.
type StringLit struct{ Value string }

// NumberLit is a numeric literal rendered verbatim (already-valid SQL number text).
type NumberLit struct{ Value string }

// BoolLit is a boolean literal.
type BoolLit struct{ Value bool }

// NullLit is the SQL NULL literal.
type NullLit struct{}

// BareIdent is a bare (unquoted) identifier used for enum-like tokens, e.g.
// the ASC/DESC direction keyword rendered as an expression.
type BareIdent struct{ Name string }

// Tuple is a parenthesized, comma-separated expression list: (v1, v2, ...).
type Tuple struct{ Items []Expr }

// FuncCall is a function-call expression: name(args...).
type FuncCall struct {
	Name string
	Args []Expr
}

// Star is the bare "*" projection.
type Star struct{}

// Binary is a binary comparison: left op right.
type Binary struct {
	Left  Expr
	Op    string
	Right Expr
}

// And is a conjunction of one or more expressions (parenthesized by the
// emitter only when it has more than one member).
type And struct{ Exprs []Expr }

// Or is a disjunction of one or more expressions (parenthesized by the
// emitter only when it has more than one member).
type Or struct{ Exprs []Expr }

// Not negates an expression.
type Not struct{ Expr Expr }

// IsNull renders "<expr> IS NULL" or, when Negate, "<expr> IS NOT NULL".
type IsNull struct {
	Expr   Expr
	Negate bool
}

// JSONBConcat renders the jsonb "||" concatenation operator.
type JSONBConcat struct{ Left, Right Expr }

// Cast renders CAST(expr AS typ).
type Cast struct {
	Expr Expr
	Type string
}

// CaseWhen is one WHEN/THEN arm of a Case expression.
type CaseWhen struct{ Cond, Result Expr }

// Case renders a searched CASE expression with an optional ELSE.
type Case struct {
	Whens []CaseWhen
	Else  Expr // nil omits ELSE
}

// Subquery renders a parenthesized scalar subquery: (SELECT ...).
type Subquery struct{ Select *Select }

// Raw is an escape hatch for fixed SQL fragments the emitter does not need
// to reinterpret; it is written out verbatim. (The ON ('true') lateral-join
// condition is not a Raw node: the emitter writes it for every LateralJoin.)
type Raw struct{ SQL string }

func (Ident) isExpr()       {}
func (Qualified) isExpr()   {}
func (Param) isExpr()       {}
func (StringLit) isExpr()   {}
func (NumberLit) isExpr()   {}
func (BoolLit) isExpr()     {}
func (NullLit) isExpr()     {}
func (BareIdent) isExpr()   {}
func (Tuple) isExpr()       {}
func (FuncCall) isExpr()    {}
func (Star) isExpr()        {}
func (Binary) isExpr()      {}
func (And) isExpr()         {}
func (Or) isExpr()          {}
func (Not) isExpr()         {}
func (IsNull) isExpr()      {}
func (JSONBConcat) isExpr() {}
func (Cast) isExpr()        {}
func (Case) isExpr()        {}
func (Subquery) isExpr()    {}
func (Raw) isExpr()         {}

// Column is one entry in a SELECT's projection list.
type Column struct {
	Expr  Expr
	Alias string // output column name; empty means no AS clause
}

// FromItem is the single source a Select reads from: a bare table name (the
// innermost "FROM <table>" that reads real rows), a table-valued function
// call, or a nested subquery wrapped in parentheses and aliased.
type FromItem struct {
	Table string // quoted-by-emitter real table name; mutually exclusive with Sub/Func
	Sub   *Select
	Func  *FuncCall // table-valued function source (@args relations); mutually exclusive with Table/Sub
	Alias string
}

// IsZero reports whether the FromItem names no source at all, the signal
// the emitter uses to omit a FROM clause entirely: the top-level
// "SELECT json_build_object(...) AS \"data\"" has no shared FROM.
func (f FromItem) IsZero() bool {
	return f.Table == "" && f.Sub == nil && f.Func == nil
}

// LateralJoin is always rendered as the fixed form this translator ever
// produces: LEFT JOIN LATERAL (<Sub>) AS "<Alias>" ON ('true').
type LateralJoin struct {
	Alias string
	Sub   *Select
}

// OrderItem is one ORDER BY entry.
type OrderItem struct {
	Expr Expr
	Desc bool
}

// Select is a single SELECT statement node. DistinctOn, Where, Joins and
// OrderBy are all optional (nil/empty omits the clause).
type Select struct {
	DistinctOn []Expr
	Columns    []Column // nil means "*"
	From       FromItem
	Joins      []LateralJoin
	Where      []Expr // AND-ed together
	OrderBy    []OrderItem
	Limit      Expr
	Offset     Expr
}
