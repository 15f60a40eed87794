package query

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/devcamper/internal/pkg/helpers"
)

// Finder executes a Descriptor and returns one page of rows plus the total match count
type Finder interface {
	Find(ctx context.Context, d *Descriptor) ([]map[string]interface{}, int64, error)
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Offset is the number of rows skipped before the current page
func (d *Descriptor) Offset() uint64 {
	offset, _ := helpers.CalculateOffsetLimit(d.Page, d.Limit)
	return offset
}

// SelectBuilder builds the page query
func (d *Descriptor) SelectBuilder() squirrel.SelectBuilder {
	sb := psql.Select(d.projection()...).From(d.Resource.Table)
	sb = d.where(sb)

	for _, key := range d.Sort {
		dir := "ASC"
		if key.Descending {
			dir = "DESC"
		}
		sb = sb.OrderBy(key.Field.Column + " " + dir)
	}
	if !d.sortedByID() {
		sb = sb.OrderBy(d.Resource.IDColumn() + " ASC")
	}

	return sb.Limit(uint64(d.Limit)).Offset(d.Offset())
}

// CountBuilder builds the total count query for the same filter
func (d *Descriptor) CountBuilder() squirrel.SelectBuilder {
	return d.where(psql.Select("COUNT(*)").From(d.Resource.Table))
}

func (d *Descriptor) where(sb squirrel.SelectBuilder) squirrel.SelectBuilder {
	for _, f := range d.Filters {
		sb = sb.Where(condition(f))
	}
	return sb
}

func (d *Descriptor) sortedByID() bool {
	for _, key := range d.Sort {
		if key.Field.Column == d.Resource.IDColumn() {
			return true
		}
	}
	return false
}

func (d *Descriptor) populated(name string) bool {
	for _, p := range d.Populate {
		if p == name {
			return true
		}
	}
	return false
}

func (d *Descriptor) projection() []string {
	res := d.Resource

	names := d.Select
	if len(names) == 0 {
		names = res.FieldNames()
	}

	cols := make([]string, 0, len(names)+len(d.Populate))
	projected := make(map[string]bool, len(names))
	for _, name := range names {
		expr := ""
		if d.populated(name) {
			expr = res.Relations[name]
		} else if field, ok := res.Field(name); ok && field.selectable() {
			expr = field.Select
		}
		if expr == "" {
			continue
		}
		projected[name] = true
		cols = append(cols, alias(expr, name))
	}

	// an explicit select already decided which relations appear
	if len(d.Select) > 0 {
		return cols
	}

	for _, name := range d.Populate {
		if projected[name] {
			continue
		}
		if _, isField := res.Field(name); isField {
			continue
		}
		cols = append(cols, alias(res.Relations[name], name))
	}

	return cols
}

func alias(expr, name string) string {
	return fmt.Sprintf(`%s AS "%s"`, expr, name)
}

func condition(f Filter) squirrel.Sqlizer {
	col := f.Field.Column

	if f.Field.Kind == KindStringArray {
		switch f.Operator {
		case OpIn:
			return squirrel.Expr(col+" && ?::text[]", f.Value)
		case OpNe:
			return squirrel.Expr("NOT (? = ANY("+col+"))", f.Value)
		default:
			return squirrel.Expr("? = ANY("+col+")", f.Value)
		}
	}

	switch f.Operator {
	case OpNe:
		return squirrel.NotEq{col: f.Value}
	case OpGt:
		return squirrel.Gt{col: f.Value}
	case OpGte:
		return squirrel.GtOrEq{col: f.Value}
	case OpLt:
		return squirrel.Lt{col: f.Value}
	case OpLte:
		return squirrel.LtOrEq{col: f.Value}
	default:
		// OpEq and OpIn; squirrel renders a slice value as IN (...)
		return squirrel.Eq{col: f.Value}
	}
}
