package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// UploadFile is one image to send. ContentType defaults to
// application/octet-stream.
type UploadFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// UploadResponse is kept loose: the API does not pin its upload payload.
type UploadResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// UploadImages posts files as multipart form data, one "images" field each.
func (c *Client) UploadImages(ctx context.Context, files []UploadFile) (UploadResponse, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="images"; filename="%s"`, quoteEscaper.Replace(f.Name)))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := writer.CreatePart(h)
		if err != nil {
			return UploadResponse{}, fmt.Errorf("create part %q: %w", f.Name, err)
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return UploadResponse{}, fmt.Errorf("copy %q: %w", f.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return UploadResponse{}, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", body)
	if err != nil {
		return UploadResponse{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp UploadResponse
	if err := c.do(req, "upload.images", &resp); err != nil {
		return UploadResponse{}, err
	}
	return resp, nil
}
