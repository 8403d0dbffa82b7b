package organizations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seminaires/backend/internal/middleware"
	"github.com/seminaires/backend/internal/models"
	"github.com/seminaires/backend/pkg/apperr"
)

var admin = models.Session{ID: "sid", UserID: 1, Username: "admin"}

type fakeStore struct {
	rows      []models.Organization
	createErr error
	updateErr error
	deleteErr error
	created   int
}

func (f *fakeStore) List(context.Context) ([]models.Organization, error) { return f.rows, nil }

func (f *fakeStore) Create(_ context.Context, name, country string) (*models.Organization, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	o := models.Organization{ID: int64(f.created), Name: name, Country: country}
	f.rows = append(f.rows, o)
	return &o, nil
}

func (f *fakeStore) Update(context.Context, int64, string, string) error { return f.updateErr }
func (f *fakeStore) Delete(context.Context, int64) error                 { return f.deleteErr }

type staticCountries []string

func (s staticCountries) Safe(context.Context) []string { return s }

func TestCreateRequiresBothFields(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, staticCountries{}, nil)

	out, err := svc.Create(context.Background(), admin, "ONG Sahel", " ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Tous champs doivent être renseigné!", out.Message.Text)
	assert.Zero(t, store.created)

	out, err = svc.Create(context.Background(), admin, " ONG Sahel ", "Mali")
	require.NoError(t, err)
	assert.Equal(t, "Organisme ajouté avec succès!", out.Message.Text)
	assert.Equal(t, "ONG Sahel", store.rows[0].Name)
}

func TestCreateConflict(t *testing.T) {
	svc := NewService(&fakeStore{createErr: apperr.ErrConflict}, staticCountries{}, nil)

	out, err := svc.Create(context.Background(), admin, "ONG Sahel", "Mali")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "L'enregistrement existe déjà!", out.Message.Text)
	assert.Equal(t, PagePath, out.Redirect)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	out, err := NewService(&fakeStore{}, staticCountries{}, nil).Update(ctx, admin, 1, "", "Mali")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Tous les champs doivent être renseigné!", out.Message.Text)

	_, err = NewService(&fakeStore{updateErr: apperr.ErrNotFound}, staticCountries{}, nil).Update(ctx, admin, 7, "A", "B")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	boom := errors.New("boom")
	out, err = NewService(&fakeStore{updateErr: boom}, staticCountries{}, nil).Update(ctx, admin, 7, "A", "B")
	assert.ErrorIs(t, err, boom)
	assert.True(t, out.IsZero())
}

func TestDelete(t *testing.T) {
	out, err := NewService(&fakeStore{}, staticCountries{}, nil).Delete(context.Background(), admin, 3)
	require.NoError(t, err)
	assert.Equal(t, "Organisme #3 supprimé!", out.Message.Text)
}

func TestPageListsCountries(t *testing.T) {
	svc := NewService(&fakeStore{}, staticCountries{"Bénin", "Mali"}, nil)

	page, err := svc.Page(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, []models.Organization{}, page.Organizations)
	assert.Equal(t, []string{"Bénin", "Mali"}, page.Countries)

	_, err = svc.Page(context.Background(), models.Session{})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestHandlerCreateReadsOriginalFieldNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeStore{}
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(middleware.ContextSession, admin) })
	NewHandler(NewService(store, staticCountries{}, nil)).Register(r)

	form := url.Values{"organisme": {"ONG Sahel"}, "pays": {"Niger"}}
	req := httptest.NewRequest(http.MethodPost, "/organismes/create", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/organismes", rec.Header().Get("Location"))
	require.Len(t, store.rows, 1)
	assert.Equal(t, "Niger", store.rows[0].Country)
}
