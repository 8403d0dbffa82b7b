package requests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seminaires/backend/internal/middleware"
	"github.com/seminaires/backend/internal/models"
	"github.com/seminaires/backend/internal/organizations"
)

type tokenResolver map[string]models.Session

func (r tokenResolver) CurrentSession(_ context.Context, token string) (models.Session, bool) {
	s, ok := r[token]
	return s, ok
}

type refs struct{}

func (refs) List(context.Context, models.Session) ([]models.TrainingType, error) {
	return []models.TrainingType{{ID: 1, Name: "Séminaire"}}, nil
}

type venueRefs struct{}

func (venueRefs) List(context.Context, models.Session) ([]models.Venue, error) { return nil, nil }

type seminarRefs struct{}

func (seminarRefs) List(context.Context, models.Session) ([]models.Seminar, error) { return nil, nil }

type orgRefs struct{}

func (orgRefs) Page(context.Context, models.Session) (organizations.Page, error) {
	return organizations.Page{Organizations: []models.Organization{}, Countries: []string{"Mali"}}, nil
}

func newTestRouter(store *memStore, idx *fakeIndex) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(store, nil), NewLookup(idx, idx), ReferenceData{
		Types: refs{}, Venues: venueRefs{}, Seminars: seminarRefs{}, Organizations: orgRefs{},
	})
	r := gin.New()
	r.Use(middleware.LoadSession(tokenResolver{"good": admin}, "session"))
	g := r.Group("")
	g.Use(middleware.RequireSession())
	h.Register(g)
	return r
}

func do(r http.Handler, method, target, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.AddCookie(&http.Cookie{Name: "session", Value: "good"})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestUnauthenticatedNeverSeesData(t *testing.T) {
	store := &memStore{rows: []models.Request{{ID: 1, LastName: "Traoré"}}}
	r := newTestRouter(store, &fakeIndex{})

	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/demandes"},
		{http.MethodGet, "/filtrer-demandes"},
		{http.MethodGet, "/filtrer-demandes-avances?types[]=Atelier"},
		{http.MethodGet, "/operations"},
		{http.MethodPost, "/demandes/create"},
		{http.MethodPost, "/demandes/1/edit"},
		{http.MethodPost, "/demandes/1/delete"},
	} {
		rec := do(r, tc.method, tc.target, "", false)
		assert.Equal(t, http.StatusFound, rec.Code, tc.target)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/login?next="), tc.target)
		assert.NotContains(t, rec.Body.String(), "Traoré", tc.target)
	}
	assert.Empty(t, store.filters)
	assert.Len(t, store.rows, 1)
}

func TestFilterEndpointsReturnBareArrays(t *testing.T) {
	store := &memStore{rows: []models.Request{{ID: 1, Type: "Atelier", Reference: "A-1", Theme: "x"}}}
	r := newTestRouter(store, &fakeIndex{})

	rec := do(r, http.MethodGet, "/filtrer-demandes?type=all&pays=Mali&debut=not-a-date", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var views []models.RequestView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "", views[0].DateDebut)
	assert.Equal(t, []string{"pays = $1"}, store.filters[0].Conditions)

	rec = do(r, http.MethodGet, "/filtrer-demandes-avances", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Len(t, store.filters, 1)

	rec = do(r, http.MethodGet, "/filtrer-demandes-avances?types[]=Atelier&types[]=Forum&seminaires[]=A-1&limit=5", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.filters, 2)
	assert.Equal(t, []any{[]string{"Atelier", "Forum"}, []string{"A-1"}}, store.filters[1].Args)
	assert.Equal(t, Page{Limit: 5}, store.filters[1].Page)
}

func TestLookupEndpoint(t *testing.T) {
	idx := &fakeIndex{refs: map[string][]string{"Séminaire": {"SEM-01", "SEM-01"}}}
	r := newTestRouter(&memStore{}, idx)

	rec := do(r, http.MethodPost, "/demandes", `{"action":"get_references","type":"Séminaire"}`, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["SEM-01"]`, rec.Body.String())

	rec = do(r, http.MethodPost, "/demandes", `{"action":"get_organismes","pays":"Niger"}`, true)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(r, http.MethodPost, "/demandes", `{"action":"nope"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodPost, "/demandes", `{not json`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestsPage(t *testing.T) {
	r := newTestRouter(&memStore{}, &fakeIndex{})

	rec := do(r, http.MethodGet, "/demandes", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Demandes  []models.RequestView  `json:"demandes"`
			Types     []models.TrainingType `json:"types"`
			Countries []string              `json:"countries"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.NotNil(t, body.Data.Demandes)
	assert.Len(t, body.Data.Types, 1)
	assert.Equal(t, []string{"Mali"}, body.Data.Countries)
}
