package gcs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func stubClient(baseURL string) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: 5 * time.Second},
		defaultBucket: "qrbatch-artifacts",
		baseURL:       baseURL,
		tokenSource: &tokenSource{
			fetch: func(context.Context) (string, time.Time, error) {
				return "stub-token", time.Now().Add(time.Hour), nil
			},
		},
	}
}

func TestUploadSendsMediaRequest(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := stubClient(srv.URL)

	err := client.Upload(context.Background(), "batches/abc/manifest.csv", []byte("code,master_id\n"), "text/csv")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if gotPath != "/upload/storage/v1/b/qrbatch-artifacts/o" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotQuery != "uploadType=media&name=batches%2Fabc%2Fmanifest.csv" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if gotAuth != "Bearer stub-token" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotContentType != "text/csv" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if string(gotBody) != "code,master_id\n" {
		t.Fatalf("unexpected body %q", gotBody)
	}
}

func TestUploadOverwriteSucceeds(t *testing.T) {
	var uploads int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uploads++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := stubClient(srv.URL)

	for _, content := range []string{"first", "second"} {
		if err := client.Upload(context.Background(), "batches/abc/report.pdf", []byte(content), "application/pdf"); err != nil {
			t.Fatalf("upload %q: %v", content, err)
		}
	}
	if uploads != 2 {
		t.Fatalf("expected 2 uploads, got %d", uploads)
	}
}

func TestUploadSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := stubClient(srv.URL)

	if err := client.Upload(context.Background(), "batches/abc/manifest.csv", []byte("x"), "text/csv"); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestUploadValidation(t *testing.T) {
	client := stubClient("http://unused")

	if err := client.Upload(context.Background(), "", []byte("x"), "text/csv"); err == nil {
		t.Fatal("expected error for empty object name")
	}
	if err := client.Upload(context.Background(), "obj", []byte("x"), ""); err == nil {
		t.Fatal("expected error for empty content type")
	}
}

func TestPublicURL(t *testing.T) {
	client := stubClient("http://unused")

	got := client.PublicURL("batches/abc/manifest.csv")
	want := "https://storage.googleapis.com/qrbatch-artifacts/batches/abc/manifest.csv"
	if got != want {
		t.Fatalf("expected %q got %q", want, got)
	}

	if client.PublicURL("") != "" {
		t.Fatal("expected empty url for empty object")
	}
}
