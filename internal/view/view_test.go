package view_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/bookshelf/internal/domain"
	"github.com/ErlanBelekov/bookshelf/internal/flash"
	"github.com/ErlanBelekov/bookshelf/internal/view"
)

func render(t *testing.T, name string, page view.Page) string {
	t.Helper()
	r, err := view.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	w := httptest.NewRecorder()
	if err := r.Instance(name, page).Render(w); err != nil {
		t.Fatalf("render %s: %v", name, err)
	}
	return w.Body.String()
}

func TestDashboard_ShowsProfileAndToasts(t *testing.T) {
	user := &domain.User{
		ID:        "u1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	body := render(t, view.PageDashboard, view.Page{
		Title:  "Dashboard",
		User:   user,
		Toasts: []flash.Toast{{Kind: flash.Success, Text: "Images uploaded successfully!"}},
	})

	for _, want := range []string{
		"Welcome back, Ada!", "Ada Lovelace", "ada@example.com", "u1", "May 1, 2024",
		`class="toast-success"`, "Images uploaded successfully!", `action="/logout"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestError_IsTheFallbackPage(t *testing.T) {
	body := render(t, "no-such-page", view.Page{Title: "Not Found"})
	if !strings.Contains(body, "Page Not Found") {
		t.Errorf("unknown page did not render the error page:\n%s", body)
	}
	if strings.Contains(body, `action="/logout"`) {
		t.Error("nav rendered without a user")
	}
}

func TestTemplates_EscapeServerData(t *testing.T) {
	body := render(t, view.PageBookDelete, view.Page{
		Title: "Delete",
		User:  &domain.User{ID: "u1"},
		Body: struct {
			Book  domain.Book
			Error string
		}{Book: domain.Book{ID: "b1", Title: "<script>alert(1)</script>"}},
	})
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("book title rendered unescaped")
	}
}
