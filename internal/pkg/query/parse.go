package query

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/devcamper/internal/pkg/apperrors"
	"github.com/yigit/devcamper/internal/pkg/helpers"
)

// Operator is a comparison applied by a filter
type Operator string

const (
	OpEq  Operator = "eq"
	OpNe  Operator = "ne"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
)

// Reserved query parameters that never become filters
var reservedParams = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

var filterKeyPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)(?:\[([a-z]+)\])?$`)

var operatorsByKind = map[Kind][]Operator{
	KindString:      {OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn},
	KindNumber:      {OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn},
	KindTime:        {OpEq, OpNe, OpGt, OpGte, OpLt, OpLte},
	KindBool:        {OpEq, OpNe},
	KindUUID:        {OpEq, OpNe, OpIn},
	KindStringArray: {OpEq, OpNe, OpIn},
}

// Filter is one (field, operator, value) triple. Value is a slice for OpIn.
type Filter struct {
	Field    Field
	Operator Operator
	Value    interface{}
}

// SortKey orders results by one field
type SortKey struct {
	Field      Field
	Descending bool
}

// Descriptor is the parsed form of a list request
type Descriptor struct {
	Resource *Resource
	Filters  []Filter
	Sort     []SortKey
	Select   []string
	Populate []string
	Page     int
	Limit    int
}

// Parse turns a query string into a Descriptor for res. Unknown fields,
// unsupported operators and values that do not match the field kind are
// rejected with a 400 error.
func Parse(values url.Values, res *Resource, populate ...string) (*Descriptor, error) {
	d := &Descriptor{Resource: res}
	d.Page, d.Limit = helpers.ParsePaginationParams(values)

	keys := make([]string, 0, len(values))
	for key := range values {
		if !reservedParams[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		filters, err := parseFilter(res, key, values[key])
		if err != nil {
			return nil, err
		}
		d.Filters = append(d.Filters, filters...)
	}

	if raw := values.Get("select"); raw != "" {
		sel, err := parseSelect(res, raw)
		if err != nil {
			return nil, err
		}
		d.Select = sel
	}

	rawSort := values.Get("sort")
	if rawSort == "" {
		rawSort = res.DefaultSort
	}
	keysSort, err := parseSort(res, rawSort)
	if err != nil {
		return nil, err
	}
	d.Sort = keysSort

	for _, name := range populate {
		if _, ok := res.Relations[name]; !ok {
			return nil, fmt.Errorf("resource %s has no relation %q", res.Name, name)
		}
		d.Populate = append(d.Populate, name)
	}

	return d, nil
}

func parseFilter(res *Resource, key string, raw []string) ([]Filter, error) {
	m := filterKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return nil, apperrors.NewBadRequestError("invalid query parameter: %s", key)
	}

	field, ok := res.Field(m[1])
	if !ok || !field.filterable() {
		return nil, apperrors.NewBadRequestError("unknown filter field: %s", m[1])
	}

	op := OpEq
	if m[2] != "" {
		op = Operator(m[2])
	}
	if !allowed(field.Kind, op) {
		return nil, apperrors.NewBadRequestError("operator %s is not supported for field %s", op, field.Name)
	}

	if op == OpIn {
		var parts []string
		for _, r := range raw {
			parts = append(parts, splitList(r)...)
		}
		list, err := convertList(field, parts)
		if err != nil {
			return nil, err
		}
		return []Filter{{Field: field, Operator: OpIn, Value: list}}, nil
	}

	// repeated equality becomes membership
	if op == OpEq && len(raw) > 1 && field.Kind != KindBool {
		list, err := convertList(field, raw)
		if err != nil {
			return nil, err
		}
		return []Filter{{Field: field, Operator: OpIn, Value: list}}, nil
	}

	filters := make([]Filter, 0, len(raw))
	for _, r := range raw {
		v, err := convert(field, r)
		if err != nil {
			return nil, err
		}
		filters = append(filters, Filter{Field: field, Operator: op, Value: v})
	}
	return filters, nil
}

func allowed(kind Kind, op Operator) bool {
	for _, candidate := range operatorsByKind[kind] {
		if candidate == op {
			return true
		}
	}
	return false
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func convertList(field Field, raw []string) (interface{}, error) {
	if field.Kind == KindStringArray {
		return append([]string(nil), raw...), nil
	}

	out := make([]interface{}, 0, len(raw))
	for _, r := range raw {
		v, err := convert(field, r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func convert(field Field, raw string) (interface{}, error) {
	switch field.Kind {
	case KindNumber:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, invalidValue(field, raw)
		}
		return v, nil
	case KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, invalidValue(field, raw)
		}
		return v, nil
	case KindTime:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if v, err := time.Parse(layout, raw); err == nil {
				return v, nil
			}
		}
		return nil, invalidValue(field, raw)
	case KindUUID:
		v, err := uuid.Parse(raw)
		if err != nil {
			return nil, invalidValue(field, raw)
		}
		return v.String(), nil
	default:
		return raw, nil
	}
}

func invalidValue(field Field, raw string) error {
	return apperrors.NewBadRequestError("invalid value %q for field %s", raw, field.Name)
}

func parseSelect(res *Resource, raw string) ([]string, error) {
	seen := map[string]bool{"id": true}
	out := []string{"id"}
	for _, name := range splitList(raw) {
		if seen[name] {
			continue
		}
		field, ok := res.Field(name)
		_, relation := res.Relations[name]
		if (!ok || !field.selectable()) && !relation {
			return nil, apperrors.NewBadRequestError("unknown select field: %s", name)
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}

func parseSort(res *Resource, raw string) ([]SortKey, error) {
	var out []SortKey
	for _, part := range splitList(raw) {
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		field, ok := res.Field(name)
		if !ok || !field.filterable() {
			return nil, apperrors.NewBadRequestError("unknown sort field: %s", name)
		}
		out = append(out, SortKey{Field: field, Descending: desc})
	}
	return out, nil
}
