package form_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matheuspbmarques/go-useform/pkg/form"
)

func TestRequestEvent_URLEncoded(t *testing.T) {
	body := url.Values{"tags": {"go", "zig"}, "name": {"ada"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	event := form.NewRequestEvent(req)
	event.PreventDefault()
	entries, err := event.FormData()
	if err != nil {
		t.Fatalf("form data: %v", err)
	}

	want := form.FormData{
		{Name: "name", Value: "ada"},
		{Name: "tags", Value: "go"},
		{Name: "tags", Value: "zig"},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if !event.Prevented() {
		t.Fatalf("expected prevented flag")
	}
}

func TestRequestEvent_Query(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/search?q=forms&page=2", nil)

	entries, err := form.NewRequestEvent(req).FormData()
	if err != nil {
		t.Fatalf("form data: %v", err)
	}

	want := form.Data{"q": "forms", "page": "2"}
	if diff := cmp.Diff(want, form.ParseFormData(entries)); diff != "" {
		t.Fatalf("parsed query mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestEvent_Multipart(t *testing.T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("name", "ada"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	part, err := writer.CreateFormFile("avatar", "ada.png")
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	if _, err := part.Write([]byte("png")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/signup", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	entries, err := form.NewRequestEvent(req, form.WithMaxMemory(1<<20)).FormData()
	if err != nil {
		t.Fatalf("form data: %v", err)
	}

	data := form.ParseFormData(entries)
	if data.String("name") != "ada" {
		t.Fatalf("expected name field, got %#v", data["name"])
	}
	header, ok := data["avatar"].(*multipart.FileHeader)
	if !ok || header.Filename != "ada.png" {
		t.Fatalf("expected avatar upload, got %#v", data["avatar"])
	}
}

func TestFormData_KeysAndGetAll(t *testing.T) {
	var entries form.FormData
	entries.Add("b", "1")
	entries.Add("a", "2")
	entries.Add("b", "3")

	if diff := cmp.Diff([]string{"b", "a"}, entries.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"1", "3"}, entries.GetAll("b")); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if entries.GetAll("missing") != nil {
		t.Fatalf("expected nil for missing name")
	}
}
