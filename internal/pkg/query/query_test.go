package query

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/devcamper/internal/pkg/apperrors"
)

var widgets = &Resource{
	Name:  "widgets",
	Table: "widgets",
	Fields: []Field{
		{Name: "id", Column: "widgets.id", Select: "widgets.id::text", Kind: KindUUID},
		{Name: "name", Column: "widgets.name", Select: "widgets.name", Kind: KindString},
		{Name: "price", Column: "widgets.price", Select: "widgets.price", Kind: KindNumber},
		{Name: "active", Column: "widgets.active", Select: "widgets.active", Kind: KindBool},
		{Name: "tags", Column: "widgets.tags", Select: "widgets.tags", Kind: KindStringArray},
		{Name: "owner", Column: "widgets.owner_id", Select: "widgets.owner_id::text", Kind: KindUUID},
		{Name: "meta", Select: "widgets.meta", Kind: KindJSON},
		{Name: "createdAt", Column: "widgets.created_at", Select: "widgets.created_at", Kind: KindTime},
	},
	DefaultSort: "-createdAt",
	Relations: map[string]string{
		"parts": "(SELECT json_agg(p) FROM parts p WHERE p.widget_id = widgets.id)",
		"owner": "(SELECT json_build_object('id', o.id, 'name', o.name) FROM owners o WHERE o.id = widgets.owner_id)",
	},
}

func parse(t *testing.T, raw string, populate ...string) *Descriptor {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	d, err := Parse(values, widgets, populate...)
	require.NoError(t, err)
	return d
}

func parseErr(t *testing.T, raw string) error {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	_, err = Parse(values, widgets)
	require.Error(t, err)
	return err
}

func TestParseDefaults(t *testing.T) {
	d := parse(t, "")
	assert.Empty(t, d.Filters)
	assert.Empty(t, d.Select)
	assert.Equal(t, 1, d.Page)
	assert.Equal(t, 25, d.Limit)
	require.Len(t, d.Sort, 1)
	assert.Equal(t, "createdAt", d.Sort[0].Field.Name)
	assert.True(t, d.Sort[0].Descending)
}

func TestSelectBuilderFiltersSelectSortPage(t *testing.T) {
	d := parse(t, "price[gt]=10&name=foo&select=name,price&sort=-price&page=2&limit=5")

	sql, args, err := d.SelectBuilder().ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT widgets.id::text AS "id", widgets.name AS "name", widgets.price AS "price" FROM widgets `+
			`WHERE widgets.name = $1 AND widgets.price > $2 `+
			`ORDER BY widgets.price DESC, widgets.id ASC LIMIT 5 OFFSET 5`,
		sql)
	assert.Equal(t, []interface{}{"foo", 10.0}, args)

	sql, args, err = d.CountBuilder().ToSql()
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM widgets WHERE widgets.name = $1 AND widgets.price > $2`, sql)
	assert.Equal(t, []interface{}{"foo", 10.0}, args)
}

func TestComparisonOperators(t *testing.T) {
	d := parse(t, "price[gte]=1&price[lte]=9.5&active[ne]=false&createdAt[lt]=2024-01-02")

	sql, args, err := d.CountBuilder().ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT COUNT(*) FROM widgets WHERE widgets.active <> $1 AND widgets.created_at < $2 `+
			`AND widgets.price >= $3 AND widgets.price <= $4`,
		sql)
	require.Len(t, args, 4)
	assert.Equal(t, false, args[0])
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), args[1])
	assert.Equal(t, 1.0, args[2])
	assert.Equal(t, 9.5, args[3])
}

func TestInOperator(t *testing.T) {
	d := parse(t, "name[in]=a,b&tags[in]=x,y")

	sql, args, err := d.CountBuilder().ToSql()
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM widgets WHERE widgets.name IN ($1,$2) AND widgets.tags && $3::text[]`, sql)
	assert.Equal(t, []interface{}{"a", "b", []string{"x", "y"}}, args)
}

func TestArrayEquality(t *testing.T) {
	d := parse(t, "tags=Business")

	sql, args, err := d.CountBuilder().ToSql()
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM widgets WHERE $1 = ANY(widgets.tags)`, sql)
	assert.Equal(t, []interface{}{"Business"}, args)
}

func TestRepeatedEqualityBecomesIn(t *testing.T) {
	d := parse(t, "name=a&name=b")
	require.Len(t, d.Filters, 1)
	assert.Equal(t, OpIn, d.Filters[0].Operator)
	assert.Equal(t, []interface{}{"a", "b"}, d.Filters[0].Value)
}

func TestValuesAreNotRewritten(t *testing.T) {
	d := parse(t, "name=legit-gte-value")
	require.Len(t, d.Filters, 1)
	assert.Equal(t, "legit-gte-value", d.Filters[0].Value)
}

func TestSelectAlwaysIncludesID(t *testing.T) {
	d := parse(t, "select=name,id,name")
	assert.Equal(t, []string{"id", "name"}, d.Select)
}

func TestPopulateProjection(t *testing.T) {
	d := parse(t, "select=name,owner", "parts", "owner")

	sql, _, err := d.SelectBuilder().ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, `widgets.name AS "name"`)
	assert.Contains(t, sql, `FROM owners o WHERE o.id = widgets.owner_id) AS "owner"`)
	assert.NotContains(t, sql, `widgets.owner_id::text AS "owner"`)
	assert.NotContains(t, sql, `AS "parts"`)

	d = parse(t, "select=name,parts", "parts", "owner")
	sql, _, err = d.SelectBuilder().ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, `FROM parts p WHERE p.widget_id = widgets.id) AS "parts"`)
	assert.NotContains(t, sql, `AS "owner"`)

	d = parse(t, "", "parts")
	sql, _, err = d.SelectBuilder().ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, `AS "parts"`)
}

func TestShadowingRelationFollowsSelect(t *testing.T) {
	d := parse(t, "select=name", "owner")

	sql, _, err := d.SelectBuilder().ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, `AS "owner"`)
}

func TestDefaultProjectionListsSelectableFields(t *testing.T) {
	d := parse(t, "sort=id")

	sql, _, err := d.SelectBuilder().ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, `widgets.meta AS "meta"`)
	assert.Contains(t, sql, `ORDER BY widgets.id ASC LIMIT 25 OFFSET 0`)
	assert.NotContains(t, sql, `widgets.id ASC, widgets.id ASC`)
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"unknown field":        "colour=red",
		"unsupported operator": "active[gt]=true",
		"unknown operator":     "price[regex]=1",
		"malformed key":        "price[gt=1",
		"bad number":           "price=cheap",
		"bad bool":             "active=maybe",
		"bad time":             "createdAt[gt]=yesterday",
		"bad uuid":             "owner=42",
		"projection only":      "meta=x",
		"unknown select":       "select=name,secret",
		"unknown sort":         "sort=-secret",
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			err := parseErr(t, raw)
			assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))
		})
	}
}

func TestParseUnknownRelation(t *testing.T) {
	_, err := Parse(url.Values{}, widgets, "ghosts")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperrors.StatusOf(err))
}
