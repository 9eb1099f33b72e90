package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ErlanBelekov/bookshelf/internal/domain"
)

type listBooksResponse struct {
	Status  string        `json:"status"`
	Results int           `json:"results"`
	Data    []domain.Book `json:"data"`
}

type bookResponse struct {
	Status string      `json:"status"`
	Data   domain.Book `json:"data"`
}

func bookPath(id string) string {
	return "/books/" + url.PathEscape(id)
}

func (c *Client) ListBooks(ctx context.Context) ([]domain.Book, error) {
	var resp listBooksResponse
	if err := c.doJSON(ctx, "books.list", http.MethodGet, "/books", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []domain.Book{}, nil
	}
	return resp.Data, nil
}

func (c *Client) GetBook(ctx context.Context, id string) (domain.Book, error) {
	var resp bookResponse
	if err := c.doJSON(ctx, "books.get", http.MethodGet, bookPath(id), nil, &resp); err != nil {
		return domain.Book{}, err
	}
	return resp.Data, nil
}

// CreateBook returns the server's canonical record for the new book.
func (c *Client) CreateBook(ctx context.Context, in domain.BookInput) (domain.Book, error) {
	var resp bookResponse
	if err := c.doJSON(ctx, "books.create", http.MethodPost, "/books", in, &resp); err != nil {
		return domain.Book{}, err
	}
	return resp.Data, nil
}

func (c *Client) UpdateBook(ctx context.Context, id string, patch domain.BookPatch) (domain.Book, error) {
	var resp bookResponse
	if err := c.doJSON(ctx, "books.update", http.MethodPut, bookPath(id), patch, &resp); err != nil {
		return domain.Book{}, err
	}
	return resp.Data, nil
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.doJSON(ctx, "books.delete", http.MethodDelete, bookPath(id), nil, nil)
}
