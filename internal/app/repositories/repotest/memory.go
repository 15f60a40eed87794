// Package repotest provides in-memory repositories that behave like the Postgres
// ones for service, middleware and controller tests.
package repotest

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/devcamper/internal/app/models"
	"github.com/yigit/devcamper/internal/app/repositories"
	"github.com/yigit/devcamper/internal/pkg/apperrors"
	"github.com/yigit/devcamper/internal/pkg/dberrors"
)

// Store is the shared state of the in-memory repositories
type Store struct {
	mu        sync.Mutex
	users     map[string]*models.User
	bootcamps map[string]*models.Bootcamp
	courses   map[string]*models.Course
	clock     time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:     map[string]*models.User{},
		bootcamps: map[string]*models.Bootcamp{},
		courses:   map[string]*models.Course{},
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing creation times
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: dberrors.CodeUniqueViolation, ConstraintName: constraint, Message: "duplicate key value violates unique constraint"}
}

func foreignKeyViolation(constraint string) error {
	return &pgconn.PgError{Code: dberrors.CodeForeignKeyViolation, ConstraintName: constraint, Message: "insert or update violates foreign key constraint"}
}

func invalidUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &pgconn.PgError{Code: dberrors.CodeInvalidTextRepresentation, Message: "invalid input syntax for type uuid"}
	}
	return nil
}

// Users returns the user repository view of the store
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Bootcamps returns the bootcamp repository view of the store
func (s *Store) Bootcamps() *BootcampRepository { return &BootcampRepository{s: s} }

// Courses returns the course repository view of the store
func (s *Store) Courses() *CourseRepository { return &CourseRepository{s: s} }

// UserRepository is an in-memory repositories.IUserRepository
type UserRepository struct{ s *Store }

var _ repositories.IUserRepository = (*UserRepository)(nil)

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (r *UserRepository) emailTaken(email, exceptID string) bool {
	for _, u := range r.s.users {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(user.Email, "") {
		return uniqueViolation("users_email_key")
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.ID = uuid.NewString()
	user.CreatedAt = r.s.tick()
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	if err := invalidUUID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (r *UserRepository) GetByResetToken(_ context.Context, tokenHash string, now time.Time) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == tokenHash &&
			u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now) {
			return copyUser(u), nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (r *UserRepository) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return apperrors.ErrResourceNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return uniqueViolation("users_email_key")
	}
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	if err := invalidUUID(id); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepository) EmailExists(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.emailTaken(email, ""), nil
}

// BootcampRepository is an in-memory repositories.IBootcampRepository
type BootcampRepository struct{ s *Store }

var _ repositories.IBootcampRepository = (*BootcampRepository)(nil)

func copyBootcamp(b *models.Bootcamp) *models.Bootcamp {
	c := *b
	c.Careers = append([]models.Career(nil), b.Careers...)
	if b.Location != nil {
		loc := *b.Location
		c.Location = &loc
	}
	return &c
}

func (r *BootcampRepository) nameTaken(name, exceptID string) bool {
	for _, b := range r.s.bootcamps {
		if b.Name == name && b.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *BootcampRepository) Create(_ context.Context, bootcamp *models.Bootcamp) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(bootcamp.Name, "") {
		return uniqueViolation("bootcamps_name_key")
	}
	if _, ok := r.s.users[bootcamp.UserID]; !ok {
		return foreignKeyViolation("bootcamps_user_id_fkey")
	}
	bootcamp.ID = uuid.NewString()
	if bootcamp.Photo == "" {
		bootcamp.Photo = models.DefaultPhoto
	}
	bootcamp.CreatedAt = r.s.tick()
	r.s.bootcamps[bootcamp.ID] = copyBootcamp(bootcamp)
	return nil
}

func (r *BootcampRepository) GetByID(_ context.Context, id string) (*models.Bootcamp, error) {
	if err := invalidUUID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bootcamps[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return copyBootcamp(b), nil
}

func (r *BootcampRepository) CountByUser(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, b := range r.s.bootcamps {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *BootcampRepository) Update(_ context.Context, bootcamp *models.Bootcamp) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bootcamps[bootcamp.ID]; !ok {
		return apperrors.ErrResourceNotFound
	}
	if r.nameTaken(bootcamp.Name, bootcamp.ID) {
		return uniqueViolation("bootcamps_name_key")
	}
	r.s.bootcamps[bootcamp.ID] = copyBootcamp(bootcamp)
	return nil
}

func (r *BootcampRepository) UpdatePhoto(_ context.Context, id, photo string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bootcamps[id]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	b.Photo = photo
	return nil
}

func (r *BootcampRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bootcamps[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(r.s.bootcamps, id)
	for cid, c := range r.s.courses {
		if c.BootcampID == id {
			delete(r.s.courses, cid)
		}
	}
	return nil
}

func (r *BootcampRepository) FindWithinRadius(_ context.Context, lat, lng, miles float64) ([]*models.Bootcamp, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	found := []*models.Bootcamp{}
	for _, b := range r.s.bootcamps {
		if b.Location == nil {
			continue
		}
		if distanceMiles(lat, lng, b.Location.Latitude(), b.Location.Longitude()) <= miles {
			found = append(found, copyBootcamp(b))
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].CreatedAt.After(found[j].CreatedAt) })
	return found, nil
}

func distanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	cos := math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Cos(rad(lng2)-rad(lng1)) +
		math.Sin(rad(lat1))*math.Sin(rad(lat2))
	return repositories.EarthRadiusMiles * math.Acos(math.Min(1, cos))
}

func (r *BootcampRepository) UpdateAverageCost(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bootcamps[id]
	if !ok {
		return nil
	}
	var sum float64
	var n int
	for _, c := range r.s.courses {
		if c.BootcampID == id {
			sum += c.Tuition
			n++
		}
	}
	if n == 0 {
		b.AverageCost = nil
		return nil
	}
	avg := math.Ceil(sum/float64(n)/10) * 10
	b.AverageCost = &avg
	return nil
}

// CourseRepository is an in-memory repositories.ICourseRepository
type CourseRepository struct{ s *Store }

var _ repositories.ICourseRepository = (*CourseRepository)(nil)

func copyCourse(c *models.Course) *models.Course {
	cp := *c
	return &cp
}

func (r *CourseRepository) Create(_ context.Context, course *models.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bootcamps[course.BootcampID]; !ok {
		return foreignKeyViolation("courses_bootcamp_id_fkey")
	}
	course.ID = uuid.NewString()
	course.CreatedAt = r.s.tick()
	r.s.courses[course.ID] = copyCourse(course)
	return nil
}

func (r *CourseRepository) GetByID(_ context.Context, id string) (*models.Course, error) {
	if err := invalidUUID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return copyCourse(c), nil
}

func (r *CourseRepository) ListByBootcamp(_ context.Context, bootcampID string) ([]*models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := []*models.Course{}
	for _, c := range r.s.courses {
		if c.BootcampID == bootcampID {
			list = append(list, copyCourse(c))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *CourseRepository) Update(_ context.Context, course *models.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.courses[course.ID]; !ok {
		return apperrors.ErrResourceNotFound
	}
	r.s.courses[course.ID] = copyCourse(course)
	return nil
}

func (r *CourseRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.courses[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(r.s.courses, id)
	return nil
}

func (r *CourseRepository) DeleteAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := int64(len(r.s.courses))
	r.s.courses = map[string]*models.Course{}
	return n, nil
}

func (r *BootcampRepository) DeleteAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := int64(len(r.s.bootcamps))
	r.s.bootcamps = map[string]*models.Bootcamp{}
	r.s.courses = map[string]*models.Course{}
	return n, nil
}

func (r *UserRepository) DeleteAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := int64(len(r.s.users))
	r.s.users = map[string]*models.User{}
	return n, nil
}
