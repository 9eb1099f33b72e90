package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/ErlanBelekov/bookshelf/internal/apiclient"
	"github.com/ErlanBelekov/bookshelf/internal/domain"
	"github.com/gabriel-vasile/mimetype"
)

func (a *app) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register")
	var in domain.RegisterInput
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Password, "password", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var err error
	if in.Password, err = a.prompt("Password", in.Password); err != nil {
		return err
	}
	if in.PasswordConfirm, err = a.prompt("Confirm Password", ""); err != nil {
		return err
	}
	if err := domain.Validate(in); err != nil {
		return err
	}

	user, err := a.store.Auth.Register(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", user.DisplayName())
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	var creds domain.Credentials
	fs.StringVar(&creds.Email, "email", "", "email")
	fs.StringVar(&creds.Password, "password", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var err error
	if creds.Password, err = a.prompt("Password", creds.Password); err != nil {
		return err
	}
	if err := domain.Validate(creds); err != nil {
		return err
	}

	user, err := a.store.Auth.Login(ctx, creds)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome back, %s!\n", user.FirstName)
	return nil
}

func (a *app) whoami() error {
	u := a.store.Auth.Snapshot().User
	fmt.Fprintf(a.out, "%s <%s>\nid: %s\nmember since: %s\n",
		u.DisplayName(), u.Email, u.ID, u.CreatedAt.Format("Jan 2, 2006"))
	return nil
}

func (a *app) books(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		books, err := a.store.Books.Fetch(ctx)
		if err != nil {
			return err
		}
		if len(books) == 0 {
			fmt.Fprintln(a.out, "Your book collection is currently empty.")
			return nil
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tPUBLISHED\tPUBLISHER")
		for _, b := range books {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, b.PublishDay(), b.PublisherName)
		}
		return tw.Flush()

	case "show":
		if len(rest) != 1 {
			return errUsage
		}
		b, err := a.store.Books.Load(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s\nby %s\n\n%s\n\npublisher: %s\npublished: %s\nid: %s\n",
			b.Title, b.Author, b.Description, b.PublisherName, b.PublishDay(), b.ID)
		return nil

	case "add":
		fs := newFlagSet("books add")
		var in domain.BookInput
		bindBookFlags(fs, &in)
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		if err := domain.Validate(in); err != nil {
			return err
		}
		b, err := a.store.Books.Add(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Book added to collection! (%s)\n", b.ID)
		return nil

	case "update":
		if len(rest) == 0 || strings.HasPrefix(rest[0], "-") {
			return errUsage
		}
		id := rest[0]
		fs := newFlagSet("books update")
		var in domain.BookInput
		bindBookFlags(fs, &in)
		if err := fs.Parse(rest[1:]); err != nil {
			return errUsage
		}
		patch := patchFromFlags(fs, in)
		if err := domain.Validate(patch); err != nil {
			return err
		}
		if _, err := a.store.Books.Update(ctx, id, patch); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Book updated successfully!")
		return nil

	case "delete":
		if len(rest) != 1 {
			return errUsage
		}
		if err := a.store.Books.Delete(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Book deleted successfully.")
		return nil
	}
	return errUsage
}

func bindBookFlags(fs *flag.FlagSet, in *domain.BookInput) {
	fs.StringVar(&in.Title, "title", "", "title")
	fs.StringVar(&in.Author, "author", "", "author")
	fs.StringVar(&in.Description, "description", "", "description")
	fs.StringVar(&in.PublishDate, "date", "", "publish date, YYYY-MM-DD")
	fs.StringVar(&in.PublisherName, "publisher", "", "publisher name")
}

// patchFromFlags sets only the fields whose flags were given.
func patchFromFlags(fs *flag.FlagSet, in domain.BookInput) domain.BookPatch {
	var patch domain.BookPatch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			patch.Title = &in.Title
		case "author":
			patch.Author = &in.Author
		case "description":
			patch.Description = &in.Description
		case "date":
			patch.PublishDate = &in.PublishDate
		case "publisher":
			patch.PublisherName = &in.PublisherName
		}
	})
	return patch
}

func (a *app) upload(ctx context.Context, paths []string) error {
	var (
		files   []apiclient.UploadFile
		skipped int
	)
	for _, p := range paths {
		mt, err := mimetype.DetectFile(p)
		if err != nil || !strings.HasPrefix(mt.String(), "image/") {
			skipped++
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		files = append(files, apiclient.UploadFile{Name: filepath.Base(p), ContentType: mt.String(), Body: f})
	}

	if skipped > 0 {
		fmt.Fprintln(a.out, "Some files were skipped. Only images are allowed.")
	}
	if len(files) == 0 {
		return errors.New("Please select some images first.")
	}

	if _, err := a.client.UploadImages(ctx, files); err != nil {
		if msg := apiclient.MessageOf(err); msg != "" {
			return errors.New(msg)
		}
		a.logger.ErrorContext(ctx, "upload images", "error", err)
		return errors.New("Upload failed. Please try again.")
	}
	fmt.Fprintf(a.out, "Images uploaded successfully! (%d)\n", len(files))
	return nil
}
