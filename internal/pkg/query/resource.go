package query

import "strings"

// Kind is the declared type of a field, used to convert query string values
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindTime
	KindUUID
	KindStringArray
	KindJSON
)

// Field describes one attribute of a resource as exposed to the query string.
type Field struct {
	// Name is the API name used in filters, select and sort
	Name string
	// Column is the SQL expression filters and sorting apply to; empty disables both
	Column string
	// Select is the SQL expression projected for the field; empty hides it from select
	Select string
	Kind   Kind
}

func (f Field) filterable() bool { return f.Column != "" }

func (f Field) selectable() bool { return f.Select != "" }

// Resource is the allow-list for one collection
type Resource struct {
	Name        string
	Table       string
	Fields      []Field
	DefaultSort string
	// Relations maps a populate name onto a SQL expression producing JSON.
	// A relation named like a field replaces that field's projection when populated.
	Relations map[string]string
}

// Field looks up a field by its API name
func (r *Resource) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Column qualifies a column name with the resource table
func (r *Resource) Column(name string) string {
	return r.Table + "." + name
}

// IDColumn is the primary key of the resource table
func (r *Resource) IDColumn() string {
	return r.Column("id")
}

// FieldNames returns the API names of every selectable field
func (r *Resource) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		if f.selectable() {
			names = append(names, f.Name)
		}
	}
	return names
}

func (r *Resource) String() string {
	return r.Name + "(" + strings.Join(r.FieldNames(), ",") + ")"
}
