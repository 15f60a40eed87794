package repositories

import "github.com/yigit/devcamper/internal/pkg/query"

const bootcampLocationJSON = `CASE WHEN bootcamps.latitude IS NULL THEN NULL ELSE json_build_object(` +
	`'type', 'Point', ` +
	`'coordinates', json_build_array(bootcamps.longitude, bootcamps.latitude), ` +
	`'formattedAddress', bootcamps.formatted_address, ` +
	`'street', bootcamps.street, ` +
	`'city', bootcamps.city, ` +
	`'state', bootcamps.state, ` +
	`'zipcode', bootcamps.zipcode, ` +
	`'country', bootcamps.country) END`

const bootcampCoursesJSON = `(SELECT COALESCE(json_agg(json_build_object(` +
	`'id', c.id, ` +
	`'title', c.title, ` +
	`'description', c.description, ` +
	`'weeks', c.weeks, ` +
	`'tuition', c.tuition, ` +
	`'minimumSkill', c.minimum_skill, ` +
	`'scholarshipAvailable', c.scholarship_available, ` +
	`'bootcamp', c.bootcamp_id, ` +
	`'user', c.user_id, ` +
	`'createdAt', c.created_at) ORDER BY c.created_at), '[]'::json) ` +
	`FROM courses c WHERE c.bootcamp_id = bootcamps.id)`

const courseBootcampJSON = `(SELECT json_build_object('id', b.id, 'name', b.name, 'description', b.description) ` +
	`FROM bootcamps b WHERE b.id = courses.bootcamp_id)`

func column(table, name string, kind query.Kind) query.Field {
	expr := table + "." + name
	return query.Field{Column: expr, Select: expr, Kind: kind}
}

func named(apiName string, f query.Field) query.Field {
	f.Name = apiName
	return f
}

func uuidColumn(table, name string) query.Field {
	expr := table + "." + name
	return query.Field{Column: expr, Select: expr + "::text", Kind: query.KindUUID}
}

func filterOnly(table, name string, kind query.Kind) query.Field {
	return query.Field{Column: table + "." + name, Kind: kind}
}

// BootcampResource is the list allow-list for bootcamps
var BootcampResource = &query.Resource{
	Name:  "bootcamps",
	Table: "bootcamps",
	Fields: []query.Field{
		named("id", uuidColumn("bootcamps", "id")),
		named("name", column("bootcamps", "name", query.KindString)),
		named("slug", column("bootcamps", "slug", query.KindString)),
		named("description", column("bootcamps", "description", query.KindString)),
		named("website", column("bootcamps", "website", query.KindString)),
		named("phone", column("bootcamps", "phone", query.KindString)),
		named("email", column("bootcamps", "email", query.KindString)),
		named("address", column("bootcamps", "address", query.KindString)),
		{Name: "location", Select: bootcampLocationJSON, Kind: query.KindJSON},
		named("location.city", filterOnly("bootcamps", "city", query.KindString)),
		named("location.state", filterOnly("bootcamps", "state", query.KindString)),
		named("location.zipcode", filterOnly("bootcamps", "zipcode", query.KindString)),
		named("location.country", filterOnly("bootcamps", "country", query.KindString)),
		named("careers", column("bootcamps", "careers", query.KindStringArray)),
		named("averageRating", column("bootcamps", "average_rating", query.KindNumber)),
		named("averageCost", column("bootcamps", "average_cost", query.KindNumber)),
		named("photo", column("bootcamps", "photo", query.KindString)),
		named("housing", column("bootcamps", "housing", query.KindBool)),
		named("jobAssistance", column("bootcamps", "job_assistance", query.KindBool)),
		named("jobGuarantee", column("bootcamps", "job_guarantee", query.KindBool)),
		named("acceptGi", column("bootcamps", "accept_gi", query.KindBool)),
		named("user", uuidColumn("bootcamps", "user_id")),
		named("createdAt", column("bootcamps", "created_at", query.KindTime)),
	},
	DefaultSort: "-createdAt",
	Relations: map[string]string{
		"courses": bootcampCoursesJSON,
	},
}

// CourseResource is the list allow-list for courses
var CourseResource = &query.Resource{
	Name:  "courses",
	Table: "courses",
	Fields: []query.Field{
		named("id", uuidColumn("courses", "id")),
		named("title", column("courses", "title", query.KindString)),
		named("description", column("courses", "description", query.KindString)),
		named("weeks", column("courses", "weeks", query.KindString)),
		named("tuition", column("courses", "tuition", query.KindNumber)),
		named("minimumSkill", column("courses", "minimum_skill", query.KindString)),
		named("scholarshipAvailable", column("courses", "scholarship_available", query.KindBool)),
		named("bootcamp", uuidColumn("courses", "bootcamp_id")),
		named("user", uuidColumn("courses", "user_id")),
		named("createdAt", column("courses", "created_at", query.KindTime)),
	},
	DefaultSort: "-createdAt",
	Relations: map[string]string{
		"bootcamp": courseBootcampJSON,
	},
}

// UserResource is the list allow-list for users; secrets are never selectable
var UserResource = &query.Resource{
	Name:  "users",
	Table: "users",
	Fields: []query.Field{
		named("id", uuidColumn("users", "id")),
		named("name", column("users", "name", query.KindString)),
		named("email", column("users", "email", query.KindString)),
		named("role", column("users", "role", query.KindString)),
		named("createdAt", column("users", "created_at", query.KindTime)),
	},
	DefaultSort: "-createdAt",
}
