package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/devcamper/internal/app/models"
	"github.com/yigit/devcamper/internal/pkg/apperrors"
	"github.com/yigit/devcamper/internal/pkg/logger"
)

// EarthRadiusMiles converts a distance in miles to radians
const EarthRadiusMiles = 3963.0

// IBootcampRepository defines the interface for bootcamp database operations
type IBootcampRepository interface {
	Create(ctx context.Context, bootcamp *models.Bootcamp) error
	GetByID(ctx context.Context, id string) (*models.Bootcamp, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, bootcamp *models.Bootcamp) error
	UpdatePhoto(ctx context.Context, id, photo string) error
	Delete(ctx context.Context, id string) error
	FindWithinRadius(ctx context.Context, lat, lng, miles float64) ([]*models.Bootcamp, error)
	UpdateAverageCost(ctx context.Context, id string) error
}

var bootcampColumns = []string{
	"id::text", "name", "slug", "description",
	"COALESCE(website, '')", "COALESCE(phone, '')", "COALESCE(email, '')", "address",
	"latitude", "longitude",
	"COALESCE(formatted_address, '')", "COALESCE(street, '')", "COALESCE(city, '')",
	"COALESCE(state, '')", "COALESCE(zipcode, '')", "COALESCE(country, '')",
	"careers", "average_rating", "average_cost", "photo",
	"housing", "job_assistance", "job_guarantee", "accept_gi",
	"user_id::text", "created_at",
}

// haversine distance in miles between ($1, $2) and each row
const haversineMiles = `(3963.0 * acos(LEAST(1.0, ` +
	`cos(radians(?)) * cos(radians(latitude)) * cos(radians(longitude) - radians(?)) + ` +
	`sin(radians(?)) * sin(radians(latitude)))))`

// BootcampRepository handles bootcamp database operations
type BootcampRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewBootcampRepository creates a new BootcampRepository
func NewBootcampRepository(db DBTX) *BootcampRepository {
	return &BootcampRepository{
		db: db,
		sb: statementBuilder(),
	}
}

func scanBootcamp(row pgx.Row) (*models.Bootcamp, error) {
	b := &models.Bootcamp{}
	var (
		lat, lng *float64
		loc      models.Location
		careers  []string
	)
	err := row.Scan(
		&b.ID, &b.Name, &b.Slug, &b.Description,
		&b.Website, &b.Phone, &b.Email, &b.Address,
		&lat, &lng,
		&loc.FormattedAddress, &loc.Street, &loc.City,
		&loc.State, &loc.Zipcode, &loc.Country,
		&careers, &b.AverageRating, &b.AverageCost, &b.Photo,
		&b.Housing, &b.JobAssistance, &b.JobGuarantee, &b.AcceptGi,
		&b.UserID, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat != nil && lng != nil {
		loc.Type = "Point"
		loc.Coordinates = [2]float64{*lng, *lat}
		b.Location = &loc
	}

	b.Careers = make([]models.Career, len(careers))
	for i, c := range careers {
		b.Careers[i] = models.Career(c)
	}
	return b, nil
}

func careerStrings(careers []models.Career) []string {
	out := make([]string, len(careers))
	for i, c := range careers {
		out[i] = string(c)
	}
	return out
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// locationColumns flattens a location into its table columns
func locationColumns(loc *models.Location) map[string]interface{} {
	cols := map[string]interface{}{
		"latitude":          nil,
		"longitude":         nil,
		"formatted_address": nil,
		"street":            nil,
		"city":              nil,
		"state":             nil,
		"zipcode":           nil,
		"country":           nil,
	}
	if loc == nil {
		return cols
	}
	cols["latitude"] = loc.Latitude()
	cols["longitude"] = loc.Longitude()
	cols["formatted_address"] = nullable(loc.FormattedAddress)
	cols["street"] = nullable(loc.Street)
	cols["city"] = nullable(loc.City)
	cols["state"] = nullable(loc.State)
	cols["zipcode"] = nullable(loc.Zipcode)
	cols["country"] = nullable(loc.Country)
	return cols
}

func bootcampValues(b *models.Bootcamp) map[string]interface{} {
	values := map[string]interface{}{
		"name":           b.Name,
		"slug":           b.Slug,
		"description":    b.Description,
		"website":        nullable(b.Website),
		"phone":          nullable(b.Phone),
		"email":          nullable(b.Email),
		"address":        b.Address,
		"careers":        careerStrings(b.Careers),
		"housing":        b.Housing,
		"job_assistance": b.JobAssistance,
		"job_guarantee":  b.JobGuarantee,
		"accept_gi":      b.AcceptGi,
	}
	for k, v := range locationColumns(b.Location) {
		values[k] = v
	}
	return values
}

// Create inserts a new bootcamp and fills in its generated fields
func (r *BootcampRepository) Create(ctx context.Context, bootcamp *models.Bootcamp) error {
	values := bootcampValues(bootcamp)
	values["user_id"] = bootcamp.UserID

	sql, args, err := r.sb.Insert("bootcamps").
		SetMap(values).
		Suffix("RETURNING id::text, photo, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create bootcamp query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&bootcamp.ID, &bootcamp.Photo, &bootcamp.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating bootcamp: %w", err)
	}
	return nil
}

// GetByID retrieves a bootcamp by ID
func (r *BootcampRepository) GetByID(ctx context.Context, id string) (*models.Bootcamp, error) {
	sql, args, err := r.sb.Select(bootcampColumns...).
		From("bootcamps").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get bootcamp query: %w", err)
	}

	bootcamp, err := scanBootcamp(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Str("bootcampID", id).Msg("Error scanning bootcamp row")
		return nil, fmt.Errorf("error getting bootcamp by ID: %w", err)
	}
	return bootcamp, nil
}

// CountByUser returns how many bootcamps a user has published
func (r *BootcampRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("bootcamps").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count bootcamps query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting bootcamps: %w", err)
	}
	return count, nil
}

// Update writes every mutable column of bootcamp
func (r *BootcampRepository) Update(ctx context.Context, bootcamp *models.Bootcamp) error {
	sql, args, err := r.sb.Update("bootcamps").
		SetMap(bootcampValues(bootcamp)).
		Where(squirrel.Eq{"id": bootcamp.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update bootcamp query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating bootcamp: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// UpdatePhoto stores the file name of a bootcamp's photo
func (r *BootcampRepository) UpdatePhoto(ctx context.Context, id, photo string) error {
	sql, args, err := r.sb.Update("bootcamps").
		Set("photo", photo).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update photo query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating bootcamp photo: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// Delete removes a bootcamp; its courses go with it through the foreign key
func (r *BootcampRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete("bootcamps").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete bootcamp query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting bootcamp: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// FindWithinRadius returns bootcamps whose location lies within miles of (lat, lng)
func (r *BootcampRepository) FindWithinRadius(ctx context.Context, lat, lng, miles float64) ([]*models.Bootcamp, error) {
	sql, args, err := r.sb.Select(bootcampColumns...).
		From("bootcamps").
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Where(squirrel.Expr(haversineMiles+" <= ?", lat, lng, lat, miles)).
		OrderBy("created_at DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build radius query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying bootcamps within radius")
		return nil, fmt.Errorf("error querying bootcamps within radius: %w", err)
	}
	defer rows.Close()

	bootcamps := []*models.Bootcamp{}
	for rows.Next() {
		b, err := scanBootcamp(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning bootcamp row: %w", err)
		}
		bootcamps = append(bootcamps, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bootcamp rows: %w", err)
	}
	return bootcamps, nil
}

// UpdateAverageCost recomputes average_cost from the bootcamp's courses, rounded
// up to the next multiple of ten. It is cleared when no courses remain.
func (r *BootcampRepository) UpdateAverageCost(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE bootcamps
		SET average_cost = (
			SELECT CEIL(AVG(tuition) / 10) * 10 FROM courses WHERE bootcamp_id = $1
		)
		WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Str("bootcampID", id).Msg("Error updating average cost")
		return fmt.Errorf("error updating average cost: %w", err)
	}
	return nil
}

// DeleteAll removes every bootcamp; used by the seeder
func (r *BootcampRepository) DeleteAll(ctx context.Context) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM bootcamps`)
	if err != nil {
		return 0, fmt.Errorf("error deleting bootcamps: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
