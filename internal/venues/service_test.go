package venues

import (
	"context"
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
	"github.com/seminaires/backend/pkg/flash"
)

var admin = models.Session{ID: "sid", UserID: 1, Username: "admin"}

// memStore enforces name uniqueness the way the table constraint does.
type memStore struct {
	next int64
	rows []models.Venue
}

func (m *memStore) List(context.Context) ([]models.Venue, error) {
	return append([]models.Venue(nil), m.rows...), nil
}

func (m *memStore) Create(_ context.Context, name string) (*models.Venue, error) {
	for _, t := range m.rows {
		if t.Name == name {
			return nil, apperr.ErrConflict
		}
	}
	m.next++
	t := models.Venue{ID: m.next, Name: name}
	m.rows = append(m.rows, t)
	return &t, nil
}

func (m *memStore) Update(_ context.Context, id int64, name string) error {
	idx := -1
	for i, t := range m.rows {
		if t.Name == name && t.ID != id {
			return apperr.ErrConflict
		}
		if t.ID == id {
			idx = i
		}
	}
	if idx < 0 {
		return apperr.ErrNotFound
	}
	m.rows[idx].Name = name
	return nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	for i, t := range m.rows {
		if t.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&memStore{}, nil)

	out, err := svc.Create(ctx, admin, "  Hôtel Ivoire  ")
	require.NoError(t, err)
	assert.Equal(t, flash.New(PagePath, flash.Success, "Lieu “Hôtel Ivoire” ajouté."), out)

	out, err = svc.Create(ctx, admin, "Hôtel Ivoire")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "Ce lieu existe déjà.", out.Message.Text)
	assert.Equal(t, PagePath, out.Redirect)

	out, err = svc.Create(ctx, admin, "   ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Le nom ne peut être vide!", out.Message.Text)

	list, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	svc := NewService(store, nil)
	_, err := svc.Create(ctx, admin, "Centre Kalaban Coura")
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, "Ecole ENA")
	require.NoError(t, err)

	out, err := svc.Update(ctx, admin, 1, "Centre Kalaban")
	require.NoError(t, err)
	assert.Equal(t, "Lieu mis à jour avec succès!", out.Message.Text)

	_, err = svc.Update(ctx, admin, 1, "Ecole ENA")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "Centre Kalaban", store.rows[0].Name)

	_, err = svc.Update(ctx, admin, 42, "X")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "Lieu #42 introuvable", apperr.Message(err, ""))

	out, err = svc.Delete(ctx, admin, 2)
	require.NoError(t, err)
	assert.Equal(t, flash.New(PagePath, flash.Info, "Lieu #2 supprimé!"), out)

	_, err = svc.Delete(ctx, admin, 2)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRequiresSession(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&memStore{}, nil)

	_, err := svc.List(ctx, models.Session{})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = svc.Create(ctx, models.Session{}, "x")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = svc.Delete(ctx, models.Session{}, 1)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestHandlerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(&memStore{}, nil))
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(middleware.ContextSession, admin) })
	h.Register(r)

	form := url.Values{"name": {"Centre Kalaban Coura"}}
	req := httptest.NewRequest(http.MethodPost, PagePath+"/create", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, PagePath, rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, PagePath+"/abc/delete", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, PagePath+"/9/delete", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, PagePath, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Centre Kalaban Coura"`)
}
