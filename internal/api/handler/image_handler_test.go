package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubImageStore struct {
	saved   map[string][]byte
	saveErr error
}

func (s *stubImageStore) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if s.saved == nil {
		s.saved = make(map[string][]byte)
	}
	path := "images/fixed-" + filename
	s.saved[path] = b
	return path, nil
}

func (s *stubImageStore) Remove(string) error { return nil }

type stubDiscarder struct {
	paths []string
}

func (d *stubDiscarder) Discard(path string) { d.paths = append(d.paths, path) }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type upload struct {
	filename    string
	contentType string
	body        string
	oldPath     string
}

func multipartRequest(t *testing.T, u *upload) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if u.filename != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+u.filename+`"`)
		h.Set("Content-Type", u.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write([]byte(u.body))
	}
	if u.oldPath != "" {
		_ = w.WriteField("oldPath", u.oldPath)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPut, "/post-image", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func serveUpload(t *testing.T, h *ImageHandler, u *upload) (*httptest.ResponseRecorder, imageResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(multipartRequest(t, u), rec)

	if err := h.Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp imageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, resp
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestUpload_StoresImage(t *testing.T) {
	store := &stubImageStore{}
	discarder := &stubDiscarder{}
	h := NewImageHandler(store, discarder, zerolog.Nop())

	rec, resp := serveUpload(t, h, &upload{filename: "cat.png", contentType: "image/png", body: "png-bytes"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if resp.Message != "File stored!" || resp.FilePath != "images/fixed-cat.png" {
		t.Errorf("unexpected response %+v", resp)
	}
	if string(store.saved["images/fixed-cat.png"]) != "png-bytes" {
		t.Error("file content not stored")
	}
	if len(discarder.paths) != 0 {
		t.Errorf("expected nothing discarded, got %v", discarder.paths)
	}
}

func TestUpload_ReplacesOldImage(t *testing.T) {
	discarder := &stubDiscarder{}
	h := NewImageHandler(&stubImageStore{}, discarder, zerolog.Nop())

	rec, _ := serveUpload(t, h, &upload{
		filename: "dog.jpeg", contentType: "image/jpeg", body: "jpeg", oldPath: "images/old.png",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(discarder.paths) != 1 || discarder.paths[0] != "images/old.png" {
		t.Errorf("expected old image discarded, got %v", discarder.paths)
	}
}

func TestUpload_NoAcceptableFile(t *testing.T) {
	tests := []struct {
		name string
		u    *upload
	}{
		{"no file", &upload{oldPath: "images/old.png"}},
		{"gif", &upload{filename: "a.gif", contentType: "image/gif", body: "gif", oldPath: "images/old.png"}},
		{"text", &upload{filename: "a.txt", contentType: "text/plain", body: "txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubImageStore{}
			discarder := &stubDiscarder{}
			h := NewImageHandler(store, discarder, zerolog.Nop())

			rec, resp := serveUpload(t, h, tt.u)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if resp.Message != "No file provided!" || resp.FilePath != "" {
				t.Errorf("unexpected response %+v", resp)
			}
			if len(store.saved) != 0 || len(discarder.paths) != 0 {
				t.Error("expected no storage side effects")
			}
		})
	}
}
