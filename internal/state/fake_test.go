package state_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/ErlanBelekov/bookshelf/internal/apiclient"
	"github.com/ErlanBelekov/bookshelf/internal/domain"
)

// fakeAPI implements state.API with per-method function fields.
type fakeAPI struct {
	register   func(ctx context.Context, in domain.RegisterInput) (apiclient.AuthResponse, error)
	login      func(ctx context.Context, creds domain.Credentials) (apiclient.AuthResponse, error)
	me         func(ctx context.Context) (domain.User, error)
	listBooks  func(ctx context.Context) ([]domain.Book, error)
	getBook    func(ctx context.Context, id string) (domain.Book, error)
	createBook func(ctx context.Context, in domain.BookInput) (domain.Book, error)
	updateBook func(ctx context.Context, id string, patch domain.BookPatch) (domain.Book, error)
	deleteBook func(ctx context.Context, id string) error
}

func (f *fakeAPI) Register(ctx context.Context, in domain.RegisterInput) (apiclient.AuthResponse, error) {
	return f.register(ctx, in)
}

func (f *fakeAPI) Login(ctx context.Context, creds domain.Credentials) (apiclient.AuthResponse, error) {
	return f.login(ctx, creds)
}

func (f *fakeAPI) Me(ctx context.Context) (domain.User, error) {
	return f.me(ctx)
}

func (f *fakeAPI) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return f.listBooks(ctx)
}

func (f *fakeAPI) GetBook(ctx context.Context, id string) (domain.Book, error) {
	return f.getBook(ctx, id)
}

func (f *fakeAPI) CreateBook(ctx context.Context, in domain.BookInput) (domain.Book, error) {
	return f.createBook(ctx, in)
}

func (f *fakeAPI) UpdateBook(ctx context.Context, id string, patch domain.BookPatch) (domain.Book, error) {
	return f.updateBook(ctx, id, patch)
}

func (f *fakeAPI) DeleteBook(ctx context.Context, id string) error {
	return f.deleteBook(ctx, id)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func apiErr(status int, msg string) error {
	return &apiclient.APIError{Status: status, Message: msg}
}
