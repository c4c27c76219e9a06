package illustrator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPrompt_PureFunctionOfTitle(t *testing.T) {
	a := Prompt("Critical router flaw")
	b := Prompt("Critical router flaw")
	if a != b {
		t.Error("Prompt must be deterministic for the same title")
	}

	if !strings.Contains(a, "Critical router flaw") {
		t.Errorf("Prompt should embed the title, got %q", a)
	}
	if !strings.Contains(a, "16:9") {
		t.Error("Prompt should carry the fixed aspect ratio directive")
	}
	if Prompt("Other title") == a {
		t.Error("Different titles must yield different prompts")
	}
}

func TestClient_Generate(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3}

	var gotReq txt2imgRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sdapi/v1/txt2img" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		fmt.Fprintf(w, `{"images":[%q]}`, base64.StdEncoding.EncodeToString(png))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.httpClient = server.Client()

	image, err := client.Generate(context.Background(), "Critical router flaw")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !bytes.Equal(image, png) {
		t.Error("Decoded image should match the backend payload")
	}
	if !strings.Contains(gotReq.Prompt, "Critical router flaw") {
		t.Errorf("Request prompt should embed the title, got %q", gotReq.Prompt)
	}
	if gotReq.Width*9 != gotReq.Height*16 {
		t.Errorf("Requested dimensions should be 16:9, got %dx%d", gotReq.Width, gotReq.Height)
	}
}

func TestClient_Generate_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.httpClient = server.Client()

	if _, err := client.Generate(context.Background(), "T"); err == nil {
		t.Error("Expected error for HTTP 500, got nil")
	}
}

func TestClient_Generate_NoImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"images":[]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.httpClient = server.Client()

	if _, err := client.Generate(context.Background(), "T"); err == nil {
		t.Error("Expected error for empty image list, got nil")
	}
}

func TestClient_Generate_BadBase64(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"images":["not-base64!!!"]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.httpClient = server.Client()

	if _, err := client.Generate(context.Background(), "T"); err == nil {
		t.Error("Expected error for invalid base64 payload, got nil")
	}
}
