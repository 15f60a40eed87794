package services

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/devcamper/internal/app/auth"
	"github.com/yigit/devcamper/internal/app/models"
	"github.com/yigit/devcamper/internal/app/repositories/repotest"
	"github.com/yigit/devcamper/internal/pkg/apperrors"
	"github.com/yigit/devcamper/internal/pkg/auth"
	"github.com/yigit/devcamper/internal/pkg/geocoder"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	auth.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

var nopLogger = zerolog.Nop()

// fakeGeocoder resolves a fixed set of addresses
type fakeGeocoder struct {
	locations map[string]*models.Location
	calls     []string
}

func newFakeGeocoder() *fakeGeocoder {
	return &fakeGeocoder{locations: map[string]*models.Location{
		"233 Bay State Rd Boston MA 02215": {
			Type: "Point", Coordinates: [2]float64{-71.104028, 42.350846},
			FormattedAddress: "233 Bay State Rd, Boston, MA 02215, US", City: "Boston", State: "MA", Zipcode: "02215", Country: "US",
		},
		"02118": {Type: "Point", Coordinates: [2]float64{-71.0726, 42.3362}, Zipcode: "02118"},
		"10001": {Type: "Point", Coordinates: [2]float64{-73.9967, 40.7484}, Zipcode: "10001"},
		"45 Upper College Rd Kingston RI 02881": {
			Type: "Point", Coordinates: [2]float64{-71.525909, 41.483657}, City: "Kingston", State: "RI",
		},
	}}
}

func (g *fakeGeocoder) Geocode(_ context.Context, address string) (*models.Location, error) {
	g.calls = append(g.calls, address)
	loc, ok := g.locations[address]
	if !ok {
		return nil, geocoder.ErrNoResults
	}
	c := *loc
	return &c, nil
}

// memStorage is an in-memory filestorage.FileStorage
type memStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
	saveErr error
}

func newMemStorage() *memStorage { return &memStorage{files: map[string][]byte{}} }

func (s *memStorage) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = data
	return name, nil
}

func (s *memStorage) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, name)
	s.deleted = append(s.deleted, name)
	return nil
}

func (s *memStorage) URL(name string) string { return "/uploads/" + name }

// fakeMailer records reset links
type fakeMailer struct {
	links []string
	err   error
}

func (m *fakeMailer) SendPasswordResetEmail(_ context.Context, _, _, resetURL string) error {
	if m.err != nil {
		return m.err
	}
	m.links = append(m.links, resetURL)
	return nil
}

type fixture struct {
	store     *repotest.Store
	geo       *fakeGeocoder
	storage   *memStorage
	bootcamps BootcampService
	courses   CourseService
}

func newFixture(maxUpload int64) *fixture {
	store := repotest.NewStore()
	geo := newFakeGeocoder()
	storage := newMemStorage()
	authz := appauth.NewAuthorizationService(store.Bootcamps(), store.Courses())
	return &fixture{
		store:     store,
		geo:       geo,
		storage:   storage,
		bootcamps: NewBootcampService(store.Bootcamps(), authz, geo, storage, maxUpload, nopLogger),
		courses:   NewCourseService(store.Courses(), store.Bootcamps(), authz, nopLogger),
	}
}

func (f *fixture) user(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Name: email, Email: email, Role: role, Password: "x"}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, status, apperrors.StatusOf(err), "unexpected error: %v", err)
}

func newFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPut, "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)
