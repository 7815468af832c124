package query

import "strings"

// SelectBuilder assembles a SELECT statement from an ordered list of
// clauses, each predicate carrying its own bound arguments. Filter values
// are never written into the SQL text.
type SelectBuilder struct {
	columns []string
	from    string
	joins   []string
	preds   []predicate
	orderBy string
	limit   *int
}

type predicate struct {
	expr string
	args []any
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) Column(expr string) *SelectBuilder {
	b.columns = append(b.columns, expr)
	return b
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.from = table
	return b
}

func (b *SelectBuilder) Join(clause string) *SelectBuilder {
	b.joins = append(b.joins, "JOIN "+clause)
	return b
}

// Where ANDs a predicate onto the statement. expr must use ? placeholders
// for every value in args.
func (b *SelectBuilder) Where(expr string, args ...any) *SelectBuilder {
	b.preds = append(b.preds, predicate{expr: expr, args: args})
	return b
}

func (b *SelectBuilder) OrderBy(expr string) *SelectBuilder {
	b.orderBy = expr
	return b
}

// Limit binds the row cap as a parameter like any other value.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = &n
	return b
}

func (b *SelectBuilder) Build() (string, []any) {
	var sb strings.Builder
	var args []any

	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString("\nFROM ")
	sb.WriteString(b.from)
	for _, join := range b.joins {
		sb.WriteString("\n")
		sb.WriteString(join)
	}
	for i, p := range b.preds {
		if i == 0 {
			sb.WriteString("\nWHERE ")
		} else {
			sb.WriteString("\nAND ")
		}
		sb.WriteString(p.expr)
		args = append(args, p.args...)
	}
	if b.orderBy != "" {
		sb.WriteString("\nORDER BY ")
		sb.WriteString(b.orderBy)
	}
	if b.limit != nil {
		sb.WriteString("\nLIMIT ?")
		args = append(args, *b.limit)
	}

	return sb.String(), args
}
