// Package seed creates the default admin user and loads or clears fixture data.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/devcamper/internal/app/models"
	appRepos "github.com/yigit/devcamper/internal/app/repositories"
	"github.com/yigit/devcamper/internal/pkg/auth"
	"github.com/yigit/devcamper/internal/pkg/geocoder"
)

// Fixture file names inside the data directory
const (
	UsersFile     = "users.json"
	BootcampsFile = "bootcamps.json"
	CoursesFile   = "courses.json"
)

// UserStore is the user repository plus bulk deletion
type UserStore interface {
	appRepos.IUserRepository
	DeleteAll(ctx context.Context) (int64, error)
}

// BootcampStore is the bootcamp repository plus bulk deletion
type BootcampStore interface {
	appRepos.IBootcampRepository
	DeleteAll(ctx context.Context) (int64, error)
}

// CourseStore is the course repository plus bulk deletion
type CourseStore interface {
	appRepos.ICourseRepository
	DeleteAll(ctx context.Context) (int64, error)
}

// Stores groups the repositories the seeder writes through
type Stores struct {
	Users     UserStore
	Bootcamps BootcampStore
	Courses   CourseStore
}

// NewStores adapts the Postgres repositories
func NewStores(repos *appRepos.Repositories) Stores {
	return Stores{
		Users:     repos.UserRepository,
		Bootcamps: repos.BootcampRepository,
		Courses:   repos.CourseRepository,
	}
}

// AdminConfig describes the default admin account
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

// EnsureAdmin creates the admin account when it does not exist yet. An empty
// email disables it.
func EnsureAdmin(ctx context.Context, users appRepos.IUserRepository, admin AdminConfig, lgr zerolog.Logger) error {
	if admin.Email == "" {
		lgr.Debug().Msg("No admin email configured, skipping admin creation")
		return nil
	}
	if admin.Password == "" {
		return errors.New("admin password is required when an admin email is configured")
	}

	email := strings.ToLower(strings.TrimSpace(admin.Email))
	exists, err := users.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("error checking if admin user exists: %w", err)
	}
	if exists {
		lgr.Info().Str("email", email).Msg("Admin user already exists, skipping creation")
		return nil
	}

	hashed, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	user := &appModels.User{
		Name:     admin.Name,
		Email:    email,
		Role:     appModels.RoleAdmin,
		Password: hashed,
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("error creating admin user: %w", err)
	}

	lgr.Info().Str("adminID", user.ID).Msg("Default admin user created successfully")
	return nil
}

type userRecord struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Role     appModels.Role `json:"role"`
	Password string         `json:"password"`
}

type bootcampRecord struct {
	ID            string              `json:"id"`
	User          string              `json:"user"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Website       string              `json:"website"`
	Phone         string              `json:"phone"`
	Email         string              `json:"email"`
	Address       string              `json:"address"`
	Location      *appModels.Location `json:"location"`
	Careers       []appModels.Career  `json:"careers"`
	Housing       bool                `json:"housing"`
	JobAssistance bool                `json:"jobAssistance"`
	JobGuarantee  bool                `json:"jobGuarantee"`
	AcceptGi      bool                `json:"acceptGi"`
}

type courseRecord struct {
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Weeks                string          `json:"weeks"`
	Tuition              float64         `json:"tuition"`
	MinimumSkill         appModels.Skill `json:"minimumSkill"`
	ScholarshipAvailable bool            `json:"scholarshipAvailable"`
	Bootcamp             string          `json:"bootcamp"`
	User                 string          `json:"user"`
}

// Summary counts what an import created
type Summary struct {
	Users     int
	Bootcamps int
	Courses   int
}

func readRecords(dir, name string, out interface{}) (bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return true, nil
}

// ImportData loads users, bootcamps and courses from dir. The "id" fields of the
// files are references between them; stored rows get fresh ids. A bootcamp
// without a location is geocoded from its address when geo is not nil.
func ImportData(ctx context.Context, stores Stores, dir string, geo geocoder.Geocoder, lgr zerolog.Logger) (*Summary, error) {
	var (
		users     []userRecord
		bootcamps []bootcampRecord
		courses   []courseRecord
	)
	found, err := readRecords(dir, BootcampsFile, &bootcamps)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%s not found in %s", BootcampsFile, dir)
	}
	if _, err := readRecords(dir, UsersFile, &users); err != nil {
		return nil, err
	}
	if _, err := readRecords(dir, CoursesFile, &courses); err != nil {
		return nil, err
	}

	summary := &Summary{}
	userIDs := make(map[string]string, len(users))
	for _, rec := range users {
		hashed, err := auth.HashPassword(rec.Password)
		if err != nil {
			return summary, fmt.Errorf("error hashing password for %s: %w", rec.Email, err)
		}
		user := &appModels.User{
			Name:     rec.Name,
			Email:    strings.ToLower(rec.Email),
			Role:     rec.Role,
			Password: hashed,
		}
		if err := stores.Users.Create(ctx, user); err != nil {
			return summary, fmt.Errorf("error importing user %s: %w", rec.Email, err)
		}
		userIDs[rec.ID] = user.ID
		summary.Users++
	}

	bootcampIDs := make(map[string]string, len(bootcamps))
	for _, rec := range bootcamps {
		owner, ok := userIDs[rec.User]
		if !ok {
			return summary, fmt.Errorf("bootcamp %q references unknown user %q", rec.Name, rec.User)
		}

		location := rec.Location
		if location == nil && geo != nil && rec.Address != "" {
			location, err = geo.Geocode(ctx, rec.Address)
			if err != nil {
				lgr.Warn().Err(err).Str("bootcamp", rec.Name).Msg("Could not geocode bootcamp address, importing without location")
				location = nil
			}
		}

		bootcamp := &appModels.Bootcamp{
			Name:          rec.Name,
			Slug:          slug.Make(rec.Name),
			Description:   rec.Description,
			Website:       rec.Website,
			Phone:         rec.Phone,
			Email:         rec.Email,
			Address:       rec.Address,
			Location:      location,
			Careers:       rec.Careers,
			Housing:       rec.Housing,
			JobAssistance: rec.JobAssistance,
			JobGuarantee:  rec.JobGuarantee,
			AcceptGi:      rec.AcceptGi,
			UserID:        owner,
		}
		if err := stores.Bootcamps.Create(ctx, bootcamp); err != nil {
			return summary, fmt.Errorf("error importing bootcamp %q: %w", rec.Name, err)
		}
		bootcampIDs[rec.ID] = bootcamp.ID
		summary.Bootcamps++
	}

	touched := map[string]bool{}
	for _, rec := range courses {
		bootcampID, ok := bootcampIDs[rec.Bootcamp]
		if !ok {
			return summary, fmt.Errorf("course %q references unknown bootcamp %q", rec.Title, rec.Bootcamp)
		}
		owner, ok := userIDs[rec.User]
		if !ok {
			return summary, fmt.Errorf("course %q references unknown user %q", rec.Title, rec.User)
		}

		course := &appModels.Course{
			Title:                rec.Title,
			Description:          rec.Description,
			Weeks:                rec.Weeks,
			Tuition:              rec.Tuition,
			MinimumSkill:         rec.MinimumSkill,
			ScholarshipAvailable: rec.ScholarshipAvailable,
			BootcampID:           bootcampID,
			UserID:               owner,
		}
		if err := stores.Courses.Create(ctx, course); err != nil {
			return summary, fmt.Errorf("error importing course %q: %w", rec.Title, err)
		}
		touched[bootcampID] = true
		summary.Courses++
	}

	for id := range touched {
		if err := stores.Bootcamps.UpdateAverageCost(ctx, id); err != nil {
			return summary, err
		}
	}

	lgr.Info().
		Int("users", summary.Users).
		Int("bootcamps", summary.Bootcamps).
		Int("courses", summary.Courses).
		Msg("Data imported")
	return summary, nil
}

// DestroyData deletes every course, bootcamp and user
func DestroyData(ctx context.Context, stores Stores, lgr zerolog.Logger) error {
	courses, err := stores.Courses.DeleteAll(ctx)
	if err != nil {
		return err
	}
	bootcamps, err := stores.Bootcamps.DeleteAll(ctx)
	if err != nil {
		return err
	}
	users, err := stores.Users.DeleteAll(ctx)
	if err != nil {
		return err
	}

	lgr.Info().
		Int64("users", users).
		Int64("bootcamps", bootcamps).
		Int64("courses", courses).
		Msg("Data destroyed")
	return nil
}
