package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/bookshelf/internal/domain"
	"github.com/ErlanBelekov/bookshelf/internal/session"
	"github.com/ErlanBelekov/bookshelf/internal/transport/http/middleware"
	"github.com/ErlanBelekov/bookshelf/internal/view"
	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	logger *slog.Logger
}

func NewBookHandler(logger *slog.Logger) *BookHandler {
	return &BookHandler{logger: logger.With("component", "book_handler")}
}

type bookModal struct {
	Editing bool
	Action  string
	Input   domain.BookInput
	Error   string
}

type booksPage struct {
	Books []domain.Book
	Error string
	Modal *bookModal
}

type deletePage struct {
	Book  domain.Book
	Error string
}

func (h *BookHandler) renderList(c *gin.Context, status int, modal *bookModal) {
	snap := middleware.CurrentSession(c).Store.Books.Snapshot()
	render(c, status, view.PageBooks, "Books", booksPage{
		Books: snap.Books,
		Error: snap.Request.Error(),
		Modal: modal,
	})
}

// lookup returns the book with id from the listed collection, falling back
// to a fetch when it is not listed yet.
func lookup(ctx context.Context, sess *session.Session, id string) (domain.Book, error) {
	if b, ok := sess.Store.Books.Snapshot().Find(id); ok {
		return b, nil
	}
	return sess.Store.Books.Load(ctx, id)
}

// expired sends the visitor to the login page when err is a rejected token.
func expired(c *gin.Context, sess *session.Session, err error) bool {
	if !errors.Is(err, domain.ErrUnauthorized) {
		return false
	}
	sess.Store.Unauthorized()
	sess.Error(errSessionExpired)
	redirect(c, "/login")
	return true
}

// GET /books
// ?modal=new opens the create form, ?edit=<id> the edit form.
func (h *BookHandler) List(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	ctx := c.Request.Context()

	if _, err := sess.Store.Books.Fetch(ctx); expired(c, sess, err) {
		return
	}

	var modal *bookModal
	switch {
	case c.Query("modal") == "new":
		sess.Store.Books.SetCurrent(nil)
		modal = &bookModal{Action: "/books"}
	case c.Query("edit") != "":
		book, err := lookup(ctx, sess, c.Query("edit"))
		if err != nil {
			if expired(c, sess, err) {
				return
			}
			sess.Error(err.Error())
			break
		}
		sess.Store.Books.SetCurrent(&book)
		modal = &bookModal{Editing: true, Action: "/books/" + book.ID, Input: book.Input()}
	}
	h.renderList(c, http.StatusOK, modal)
}

// POST /books
func (h *BookHandler) Create(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	var in domain.BookInput
	if err := c.ShouldBind(&in); err != nil {
		h.logger.WarnContext(c.Request.Context(), "bind book form", "error", err)
		h.renderList(c, http.StatusBadRequest, &bookModal{Action: "/books", Error: errBadForm})
		return
	}

	if err := domain.Validate(in); err != nil {
		h.renderList(c, statusFor(err), &bookModal{Action: "/books", Input: in, Error: err.Error()})
		return
	}

	if _, err := sess.Store.Books.Add(c.Request.Context(), in); err != nil {
		if expired(c, sess, err) {
			return
		}
		sess.Error(err.Error())
		h.renderList(c, statusFor(err), &bookModal{Action: "/books", Input: in, Error: err.Error()})
		return
	}
	sess.Success(msgBookAdded)
	redirect(c, "/books")
}

// POST /books/:id
// The edit form always submits every field, so the patch sets all of them.
func (h *BookHandler) Update(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	id := c.Param("id")
	var in domain.BookInput
	if err := c.ShouldBind(&in); err != nil {
		h.logger.WarnContext(c.Request.Context(), "bind book form", "error", err)
		h.renderList(c, http.StatusBadRequest, &bookModal{Editing: true, Action: "/books/" + id, Error: errBadForm})
		return
	}
	modal := &bookModal{Editing: true, Action: "/books/" + id, Input: in}

	if err := domain.Validate(in); err != nil {
		modal.Error = err.Error()
		h.renderList(c, statusFor(err), modal)
		return
	}

	if _, err := sess.Store.Books.Update(c.Request.Context(), id, in.Patch()); err != nil {
		if expired(c, sess, err) {
			return
		}
		sess.Error(err.Error())
		modal.Error = err.Error()
		h.renderList(c, statusFor(err), modal)
		return
	}
	sess.Store.Books.SetCurrent(nil)
	sess.Success(msgBookUpdated)
	redirect(c, "/books")
}

// GET /books/:id/delete
func (h *BookHandler) ConfirmDelete(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	book, err := lookup(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		if expired(c, sess, err) {
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			sess.Error(errBookNotFound)
		} else {
			sess.Error(err.Error())
		}
		redirect(c, "/books")
		return
	}
	render(c, http.StatusOK, view.PageBookDelete, "Delete Book", deletePage{Book: book})
}

// POST /books/:id/delete
func (h *BookHandler) Delete(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	id := c.Param("id")

	if err := sess.Store.Books.Delete(c.Request.Context(), id); err != nil {
		if expired(c, sess, err) {
			return
		}
		sess.Error(err.Error())
		book, ok := sess.Store.Books.Snapshot().Find(id)
		if !ok {
			book = domain.Book{ID: id}
		}
		render(c, statusFor(err), view.PageBookDelete, "Delete Book", deletePage{Book: book, Error: err.Error()})
		return
	}
	sess.Success(msgBookDeleted)
	redirect(c, "/books")
}

// POST /books/errors/clear
// Dismisses the error banner and closes any open form.
func (h *BookHandler) ClearError(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	sess.Store.Books.ClearError()
	sess.Store.Books.SetCurrent(nil)
	redirect(c, "/books")
}
