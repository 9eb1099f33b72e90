package handler

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/bookshelf/internal/domain"
	"github.com/ErlanBelekov/bookshelf/internal/transport/http/middleware"
	"github.com/ErlanBelekov/bookshelf/internal/view"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	logger *slog.Logger
}

func NewAuthHandler(logger *slog.Logger) *AuthHandler {
	return &AuthHandler{logger: logger.With("component", "auth_handler")}
}

type formField struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Value       string
}

type authForm struct {
	Heading string
	Action  string
	Button  string
	Fields  []formField
	Error   string
}

func loginForm(email, errMsg string) authForm {
	return authForm{
		Heading: "Sign In",
		Action:  "/login",
		Button:  "Sign In",
		Error:   errMsg,
		Fields: []formField{
			{Name: "email", Label: "Email", Type: "email", Placeholder: "your@email.com", Value: email},
			{Name: "password", Label: "Password", Type: "password", Placeholder: "Enter your password"},
		},
	}
}

func registerForm(in domain.RegisterInput, errMsg string) authForm {
	return authForm{
		Heading: "Sign Up",
		Action:  "/register",
		Button:  "Create Account",
		Error:   errMsg,
		Fields: []formField{
			{Name: "firstName", Label: "First Name", Type: "text", Placeholder: "John", Value: in.FirstName},
			{Name: "lastName", Label: "Last Name", Type: "text", Placeholder: "Doe", Value: in.LastName},
			{Name: "email", Label: "Email", Type: "email", Placeholder: "your@email.com", Value: in.Email},
			{Name: "password", Label: "Password", Type: "password", Placeholder: "Minimum 6 characters"},
			{Name: "passwordConfirm", Label: "Confirm Password", Type: "password", Placeholder: "Repeat your password"},
		},
	}
}

// GET / and GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	errMsg := middleware.CurrentSession(c).Store.Auth.Snapshot().Request.Error()
	render(c, http.StatusOK, view.PageLogin, "Sign In", loginForm("", errMsg))
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var creds domain.Credentials
	if err := c.ShouldBind(&creds); err != nil {
		h.logger.WarnContext(c.Request.Context(), "bind login form", "error", err)
		render(c, http.StatusBadRequest, view.PageLogin, "Sign In", loginForm("", errBadForm))
		return
	}
	if err := domain.Validate(creds); err != nil {
		render(c, statusFor(err), view.PageLogin, "Sign In", loginForm(creds.Email, err.Error()))
		return
	}

	sess := middleware.CurrentSession(c)
	if _, err := sess.Store.Auth.Login(c.Request.Context(), creds); err != nil {
		render(c, statusFor(err), view.PageLogin, "Sign In", loginForm(creds.Email, err.Error()))
		return
	}
	redirect(c, "/dashboard")
}

// GET /register
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	errMsg := middleware.CurrentSession(c).Store.Auth.Snapshot().Request.Error()
	render(c, http.StatusOK, view.PageRegister, "Create Account", registerForm(domain.RegisterInput{}, errMsg))
}

// POST /register
// Password rules are checked before anything is sent.
func (h *AuthHandler) Register(c *gin.Context) {
	var in domain.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		h.logger.WarnContext(c.Request.Context(), "bind register form", "error", err)
		render(c, http.StatusBadRequest, view.PageRegister, "Create Account", registerForm(domain.RegisterInput{}, errBadForm))
		return
	}
	if err := domain.Validate(in); err != nil {
		render(c, statusFor(err), view.PageRegister, "Create Account", registerForm(in, err.Error()))
		return
	}

	sess := middleware.CurrentSession(c)
	if _, err := sess.Store.Auth.Register(c.Request.Context(), in); err != nil {
		render(c, statusFor(err), view.PageRegister, "Create Account", registerForm(in, err.Error()))
		return
	}
	redirect(c, "/dashboard")
}

// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	sess.Store.Auth.Logout(c.Request.Context())
	sess.Success(msgLoggedOut)
	h.logger.InfoContext(c.Request.Context(), "logged out")
	redirect(c, "/login")
}

// GET /dashboard
func (h *AuthHandler) Dashboard(c *gin.Context) {
	render(c, http.StatusOK, view.PageDashboard, "Dashboard", nil)
}
