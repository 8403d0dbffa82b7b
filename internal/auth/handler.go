package auth

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/seminaires/backend/internal/middleware"
	"github.com/seminaires/backend/pkg/apperr"
	"github.com/seminaires/backend/pkg/flash"
	"github.com/seminaires/backend/pkg/response"
)

// HomePath is where a successful login lands by default.
const HomePath = "/demandes"

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Handler handles login, logout and user management endpoints.
type Handler struct {
	svc    *Service
	cookie CookieConfig
}

// NewHandler creates an auth handler.
func NewHandler(svc *Service, cookie CookieConfig) *Handler {
	return &Handler{svc: svc, cookie: cookie}
}

// LoginPage handles GET / and GET /login. A caller already signed in is sent on.
func (h *Handler) LoginPage(c *gin.Context) {
	if middleware.SessionFrom(c).Valid() {
		c.Redirect(http.StatusFound, safeNext(c.Query("next")))
		return
	}
	response.OK(c, gin.H{"next": c.Query("next"), "flashes": response.PopFlashes(c)})
}

// Login handles POST / and POST /login with form fields username and password.
func (h *Handler) Login(c *gin.Context) {
	next := c.PostForm("next")
	if next == "" {
		next = c.Query("next")
	}
	sess, token, err := h.svc.Login(c.Request.Context(), strings.TrimSpace(c.PostForm("username")), c.PostForm("password"))
	if err != nil {
		if errors.Is(err, apperr.ErrAuth) {
			target := response.LoginPath
			if next != "" {
				target += "?next=" + url.QueryEscape(next)
			}
			response.Redirect(c, flash.New(target, flash.Danger, apperr.Message(err, "Identifiants invalides!")))
			return
		}
		_ = c.Error(err)
		response.Internal(c, "login failed")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, int(h.svc.tokens.TTL().Seconds()), "/", "", h.cookie.Secure, true)
	response.Redirect(c, flash.New(safeNext(next), flash.Success, "Bienvenue, "+sess.Username))
}

// Logout handles GET /logout.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.SessionFrom(c)); err != nil && !errors.Is(err, apperr.ErrUnauthorized) {
		_ = c.Error(err)
	}
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	response.Redirect(c, flash.New(response.LoginPath, flash.Info, "Vous êtes déconnecté."))
}

// UsersPage handles GET /utilisateurs.
func (h *Handler) UsersPage(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		response.Apply(c, response.NoOutcome, err)
		return
	}
	response.OK(c, gin.H{"utilisateurs": users, "flashes": response.PopFlashes(c)})
}

// CreateUser handles POST /utilisateurs/create.
func (h *Handler) CreateUser(c *gin.Context) {
	out, err := h.svc.CreateUser(c.Request.Context(), middleware.SessionFrom(c), c.PostForm("username"), c.PostForm("password"))
	response.Apply(c, out, err)
}

// DeleteUser handles POST /utilisateurs/:id/delete.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := response.IDParam(c)
	if !ok {
		return
	}
	out, err := h.svc.DeleteUser(c.Request.Context(), middleware.SessionFrom(c), id)
	response.Apply(c, out, err)
}

// RegisterPublic mounts the login routes.
func (h *Handler) RegisterPublic(r gin.IRoutes) {
	for _, path := range []string{"/", response.LoginPath} {
		r.GET(path, h.LoginPage)
		r.POST(path, h.Login)
	}
}

// Register mounts the routes that need a session.
func (h *Handler) Register(g gin.IRoutes) {
	g.GET("/logout", h.Logout)
	g.GET(UsersPath, h.UsersPage)
	g.POST(UsersPath+"/create", h.CreateUser)
	g.POST(UsersPath+"/:id/delete", h.DeleteUser)
}

// safeNext keeps next only when it is a local absolute path.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return HomePath
	}
	return next
}
