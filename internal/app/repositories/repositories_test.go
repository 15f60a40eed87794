package repositories

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/devcamper/internal/app/models"
	"github.com/yigit/devcamper/internal/pkg/query"
)

func TestBootcampResourceQuery(t *testing.T) {
	values, err := url.ParseQuery("careers[in]=Business,UI/UX&averageCost[lte]=10000&location.state=MA&housing=true&select=name,description,courses&sort=name")
	require.NoError(t, err)

	d, err := query.Parse(values, BootcampResource, "courses")
	require.NoError(t, err)

	sql, args, err := d.SelectBuilder().ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sql, `SELECT bootcamps.id::text AS "id", bootcamps.name AS "name", bootcamps.description AS "description", (SELECT COALESCE(json_agg(`))
	assert.Contains(t, sql, `FROM courses c WHERE c.bootcamp_id = bootcamps.id) AS "courses" FROM bootcamps`)
	assert.Contains(t, sql, `WHERE bootcamps.average_cost <= $1 AND bootcamps.careers && $2::text[] AND bootcamps.housing = $3 AND bootcamps.state = $4`)
	assert.Contains(t, sql, `ORDER BY bootcamps.name ASC, bootcamps.id ASC LIMIT 25 OFFSET 0`)
	assert.Equal(t, []interface{}{10000.0, []string{"Business", "UI/UX"}, true, "MA"}, args)
}

func TestBootcampSelectLimitsProjection(t *testing.T) {
	values, err := url.ParseQuery("select=name,description&limit=2&page=1")
	require.NoError(t, err)

	d, err := query.Parse(values, BootcampResource, "courses")
	require.NoError(t, err)

	sql, _, err := d.SelectBuilder().ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sql, `SELECT bootcamps.id::text AS "id", bootcamps.name AS "name", bootcamps.description AS "description" FROM bootcamps`), sql)
	assert.NotContains(t, sql, `AS "courses"`)
	assert.True(t, strings.HasSuffix(sql, `LIMIT 2 OFFSET 0`), sql)

	// without select the courses are embedded
	d, err = query.Parse(url.Values{}, BootcampResource, "courses")
	require.NoError(t, err)
	sql, _, err = d.SelectBuilder().ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, `AS "courses" FROM bootcamps`)
}

func TestCourseResourcePopulatesBootcamp(t *testing.T) {
	d, err := query.Parse(url.Values{}, CourseResource, "bootcamp")
	require.NoError(t, err)

	sql, _, err := d.SelectBuilder().ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, `'name', b.name, 'description', b.description) FROM bootcamps b WHERE b.id = courses.bootcamp_id) AS "bootcamp"`)
	assert.NotContains(t, sql, `courses.bootcamp_id::text AS "bootcamp"`)
	assert.Contains(t, sql, `ORDER BY courses.created_at DESC, courses.id ASC`)
}

func TestUserResourceHidesSecrets(t *testing.T) {
	for _, secret := range []string{"password", "resetPasswordToken", "resetPasswordExpire"} {
		_, ok := UserResource.Field(secret)
		assert.False(t, ok, secret)
	}

	_, err := query.Parse(url.Values{"select": {"password"}}, UserResource)
	assert.Error(t, err)
}

func TestBootcampValuesFlattenLocation(t *testing.T) {
	b := &models.Bootcamp{
		Name:    "Devworks",
		Careers: []models.Career{models.CareerBusiness},
		Location: &models.Location{
			Type:        "Point",
			Coordinates: [2]float64{-71.104028, 42.350846},
			City:        "Boston",
		},
	}

	values := bootcampValues(b)
	assert.Equal(t, 42.350846, values["latitude"])
	assert.Equal(t, -71.104028, values["longitude"])
	assert.Equal(t, "Boston", values["city"])
	assert.Nil(t, values["street"])
	assert.Nil(t, values["website"])
	assert.Equal(t, []string{"Business"}, values["careers"])

	noLoc := bootcampValues(&models.Bootcamp{Name: "x"})
	assert.Nil(t, noLoc["latitude"])
}
