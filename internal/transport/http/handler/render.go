package handler

import (
	"errors"
	"net/http"

	"github.com/ErlanBelekov/bookshelf/internal/apiclient"
	"github.com/ErlanBelekov/bookshelf/internal/domain"
	"github.com/ErlanBelekov/bookshelf/internal/transport/http/middleware"
	"github.com/ErlanBelekov/bookshelf/internal/view"
	"github.com/gin-gonic/gin"
)

// render executes page name for the current session, draining its toasts.
func render(c *gin.Context, status int, name, title string, body any) {
	sess := middleware.CurrentSession(c)
	c.HTML(status, name, view.Page{
		Title:  title,
		User:   sess.Store.Auth.Snapshot().User,
		Toasts: sess.PopToasts(),
		Body:   body,
	})
}

func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusSeeOther, path)
}

// statusFor maps an operation failure onto the status of the re-rendered form.
func statusFor(err error) int {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		return apiErr.Status
	default:
		return http.StatusBadGateway
	}
}

// NotFound renders the error page for unmatched routes.
func NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, view.PageError, "Page Not Found", nil)
}
