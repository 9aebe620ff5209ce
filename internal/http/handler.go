package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"loginhub/internal/service"
)

// CookieSettings describes the session cookie the handler issues on login
// and clears on logout.
type CookieSettings struct {
	Name   string
	MaxAge int // seconds, mirrors the session TTL
	Secure bool
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	sessions service.SessionService
	log      *logrus.Logger
	cookie   CookieSettings
}

func NewHandler(users service.UserService, sessions service.SessionService, log *logrus.Logger, cookie CookieSettings) *Handler {
	return &Handler{
		users:    users,
		sessions: sessions,
		log:      log,
		cookie:   cookie,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(loadTemplates())

	router.GET("/", h.getHome)

	users := router.Group("/users")
	{
		guest := users.Group("", h.MustNotLogin())
		{
			guest.GET("/register", h.getRegister)
			guest.POST("/register", h.postRegister)
			guest.GET("/login", h.getLogin)
			guest.POST("/login", h.postLogin)
		}

		authed := users.Group("", h.MustLogin())
		{
			authed.GET("/logout", h.getLogout)
			authed.GET("/profile", h.getProfile)
			authed.POST("/profile", h.postProfile)
			authed.GET("/password", h.getPassword)
			authed.POST("/password", h.postPassword)
		}
	}

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}
}

func (h *Handler) getHome(c *gin.Context) {
	user, err := h.sessions.Current(c.Request.Context(), h.sessionToken(c))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "home", pageData{Title: "Home", User: user})
}

func (h *Handler) getRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register", pageData{Title: "Register"})
}

func (h *Handler) postRegister(c *gin.Context) {
	in := service.RegisterInput{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	if _, err := h.users.Register(c.Request.Context(), in); err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			c.HTML(http.StatusBadRequest, "register", pageData{
				Title:    "Register",
				Error:    vErr.Error(),
				Username: in.Username,
				Email:    in.Email,
			})
			return
		}
		h.renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/users/login")
}

func (h *Handler) getLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login", pageData{Title: "Login"})
}

func (h *Handler) postLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.users.Login(c.Request.Context(), username, password)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			c.HTML(http.StatusBadRequest, "login", pageData{
				Title:    "Login",
				Error:    vErr.Error(),
				Username: username,
			})
			return
		}
		h.renderError(c, err)
		return
	}

	session, err := h.sessions.Create(c.Request.Context(), user.Username)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.setSessionCookie(c, session.Token, h.cookie.MaxAge)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) getLogout(c *gin.Context) {
	if err := h.sessions.Destroy(c.Request.Context(), h.sessionToken(c)); err != nil {
		h.renderError(c, err)
		return
	}

	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusFound, "/users/login")
}

func (h *Handler) getProfile(c *gin.Context) {
	user := currentUser(c)
	c.HTML(http.StatusOK, "profile", pageData{Title: "Profile", User: user, Email: user.Email})
}

func (h *Handler) postProfile(c *gin.Context) {
	user := currentUser(c)
	email := c.PostForm("email")

	updated, err := h.users.UpdateEmail(c.Request.Context(), user.Username, email)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			c.HTML(http.StatusBadRequest, "profile", pageData{
				Title: "Profile",
				User:  user,
				Email: email,
				Error: vErr.Error(),
			})
			return
		}
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "profile", pageData{
		Title:  "Profile",
		User:   updated,
		Email:  updated.Email,
		Notice: "Profile updated.",
	})
}

func (h *Handler) getPassword(c *gin.Context) {
	c.HTML(http.StatusOK, "password", pageData{Title: "Password", User: currentUser(c)})
}

func (h *Handler) postPassword(c *gin.Context) {
	user := currentUser(c)
	oldPassword := c.PostForm("old_password")
	newPassword := c.PostForm("new_password")

	if err := h.users.UpdatePassword(c.Request.Context(), user.Username, oldPassword, newPassword); err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			c.HTML(http.StatusBadRequest, "password", pageData{
				Title: "Password",
				User:  user,
				Error: vErr.Error(),
			})
			return
		}
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "password", pageData{
		Title:  "Password",
		User:   user,
		Notice: "Password updated.",
	})
}

// sessionToken reads the session cookie; absent means anonymous.
func (h *Handler) sessionToken(c *gin.Context) string {
	token, err := c.Cookie(h.cookie.Name)
	if err != nil {
		return ""
	}
	return token
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// renderError logs the failure and shows the generic error page. Validation
// failures never reach here; they re-render their own form.
func (h *Handler) renderError(c *gin.Context, err error) {
	h.log.WithError(err).Error("request failed")
	c.HTML(http.StatusInternalServerError, "error", pageData{Title: "Error"})
}
