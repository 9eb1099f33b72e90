package state

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/ErlanBelekov/bookshelf/internal/domain"
)

const (
	OpFetchBooks = "books/fetchAll"
	OpLoadBook   = "books/get"
	OpAddBook    = "books/add"
	OpUpdateBook = "books/update"
	OpDeleteBook = "books/delete"
)

const (
	msgFetchFailed  = "Failed to fetch books"
	msgLoadFailed   = "Failed to load book"
	msgAddFailed    = "Failed to add book"
	msgUpdateFailed = "Failed to update book"
	msgDeleteFailed = "Failed to delete book"
)

// BookAPI is the subset of the API client the books slice needs.
type BookAPI interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	GetBook(ctx context.Context, id string) (domain.Book, error)
	CreateBook(ctx context.Context, in domain.BookInput) (domain.Book, error)
	UpdateBook(ctx context.Context, id string, patch domain.BookPatch) (domain.Book, error)
	DeleteBook(ctx context.Context, id string) error
}

// BookState is a point-in-time copy of the books slice.
type BookState struct {
	Books   []domain.Book
	Current *domain.Book
	Request Request
}

// Find returns the listed book with id.
func (s BookState) Find(id string) (domain.Book, bool) {
	i := slices.IndexFunc(s.Books, func(b domain.Book) bool { return b.ID == id })
	if i < 0 {
		return domain.Book{}, false
	}
	return s.Books[i], true
}

// BookSlice mirrors the remote book collection. All operations share one
// Request; when they overlap, the last one to settle decides it.
type BookSlice struct {
	api    BookAPI
	logger *slog.Logger

	// onUnauthorized runs when the API rejects the token.
	onUnauthorized func()

	mu    sync.Mutex
	state BookState
}

func NewBookSlice(api BookAPI, logger *slog.Logger) *BookSlice {
	return &BookSlice{
		api:    api,
		logger: logger.With("component", "book_slice"),
		state:  BookState{Books: []domain.Book{}},
	}
}

func (s *BookSlice) Snapshot() BookState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := BookState{
		Books:   slices.Clone(s.state.Books),
		Request: s.state.Request,
	}
	if s.state.Current != nil {
		b := *s.state.Current
		out.Current = &b
	}
	return out
}

// Fetch replaces the whole local collection with the server's.
func (s *BookSlice) Fetch(ctx context.Context) ([]domain.Book, error) {
	s.begin(OpFetchBooks)
	books, err := s.api.ListBooks(ctx)
	if err != nil {
		return nil, s.fail(OpFetchBooks, err, msgFetchFailed)
	}
	if books == nil {
		books = []domain.Book{}
	}
	s.mu.Lock()
	s.state.Books = slices.Clone(books)
	s.state.Request = succeeded(OpFetchBooks)
	s.mu.Unlock()
	return books, nil
}

// Load fetches one book and makes it the current book.
func (s *BookSlice) Load(ctx context.Context, id string) (domain.Book, error) {
	s.begin(OpLoadBook)
	book, err := s.api.GetBook(ctx, id)
	if err != nil {
		return domain.Book{}, s.fail(OpLoadBook, err, msgLoadFailed)
	}
	s.mu.Lock()
	s.state.Current = &book
	s.state.Request = succeeded(OpLoadBook)
	s.mu.Unlock()
	return book, nil
}

// Add creates a book and appends the server's canonical record.
func (s *BookSlice) Add(ctx context.Context, in domain.BookInput) (domain.Book, error) {
	s.begin(OpAddBook)
	book, err := s.api.CreateBook(ctx, in)
	if err != nil {
		return domain.Book{}, s.fail(OpAddBook, err, msgAddFailed)
	}
	s.mu.Lock()
	s.state.Books = append(s.state.Books, book)
	s.state.Request = succeeded(OpAddBook)
	s.mu.Unlock()
	return book, nil
}

// Update replaces the entry with the server record in place. No entry with
// that id leaves the collection unchanged.
func (s *BookSlice) Update(ctx context.Context, id string, patch domain.BookPatch) (domain.Book, error) {
	s.begin(OpUpdateBook)
	book, err := s.api.UpdateBook(ctx, id, patch)
	if err != nil {
		return domain.Book{}, s.fail(OpUpdateBook, err, msgUpdateFailed)
	}
	if book.ID == "" {
		book.ID = id
	}
	s.mu.Lock()
	if i := slices.IndexFunc(s.state.Books, func(b domain.Book) bool { return b.ID == book.ID }); i >= 0 {
		s.state.Books[i] = book
	}
	if s.state.Current != nil && s.state.Current.ID == book.ID {
		cur := book
		s.state.Current = &cur
	}
	s.state.Request = succeeded(OpUpdateBook)
	s.mu.Unlock()
	return book, nil
}

// Delete removes the entry with id.
func (s *BookSlice) Delete(ctx context.Context, id string) error {
	s.begin(OpDeleteBook)
	if err := s.api.DeleteBook(ctx, id); err != nil {
		return s.fail(OpDeleteBook, err, msgDeleteFailed)
	}
	s.mu.Lock()
	s.state.Books = slices.DeleteFunc(s.state.Books, func(b domain.Book) bool { return b.ID == id })
	if s.state.Current != nil && s.state.Current.ID == id {
		s.state.Current = nil
	}
	s.state.Request = succeeded(OpDeleteBook)
	s.mu.Unlock()
	return nil
}

// SetCurrent selects the book being edited; nil clears it.
func (s *BookSlice) SetCurrent(book *domain.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if book == nil {
		s.state.Current = nil
		return
	}
	b := *book
	s.state.Current = &b
}

// ClearError drops a failure status back to idle.
func (s *BookSlice) ClearError() {
	s.mu.Lock()
	if s.state.Request.Phase == Failed {
		s.state.Request = Request{}
	}
	s.mu.Unlock()
}

func (s *BookSlice) begin(op string) {
	s.mu.Lock()
	s.state.Request = pending(op)
	s.mu.Unlock()
}

func (s *BookSlice) fail(op string, err error, fallback string) error {
	if errors.Is(err, domain.ErrUnauthorized) && s.onUnauthorized != nil {
		s.onUnauthorized()
	}
	opErr := failure(s.logger, op, err, fallback)
	s.mu.Lock()
	s.state.Request = failed(op, opErr.Message)
	s.mu.Unlock()
	return opErr
}
