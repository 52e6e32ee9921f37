package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/desertthunder/sinewave/internal/shared"
	tu "github.com/desertthunder/sinewave/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("Get", func(t *testing.T) {
		t.Run("Successful Request With JSON Response", func(t *testing.T) {
			rec := tu.NewRecorder().JSON("GET /api/songs", http.StatusOK, `[{"id":5,"title":"X"}]`)
			srv := NewAPIService(newTestClient(t, rec, `{"id":1}`))

			resp, err := srv.Get(context.Background(), "/api/songs")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Errorf("expected status 200, got %d", resp.StatusCode)
			}
			if !resp.IsJSON {
				t.Error("expected response to be JSON")
			}
			if items, ok := resp.JSONData.([]any); !ok || len(items) != 1 {
				t.Errorf("expected one decoded item, got %#v", resp.JSONData)
			}

			req, _ := rec.Last()
			if got := req.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("expected bearer token, got %q", got)
			}
		})

		t.Run("Successful Request With Non-JSON Response", func(t *testing.T) {
			rec := tu.NewRecorder().Handle("GET /health", func(*http.Request) *http.Response {
				resp := tu.NewJSONResponse(http.StatusOK, "ok")
				resp.Header.Set("Content-Type", "text/plain")
				return resp
			})
			srv := NewAPIService(newTestClient(t, rec, ""))

			resp, err := srv.Get(context.Background(), "/health")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON {
				t.Error("expected response not to be JSON")
			}
			if string(resp.Body) != "ok" {
				t.Errorf("expected body 'ok', got %s", resp.Body)
			}
		})

		t.Run("Error Status Is Returned As Is", func(t *testing.T) {
			rec := tu.NewRecorder().JSON("GET /api/admin/users", http.StatusForbidden, `{"message":"forbidden"}`)
			srv := NewAPIService(newTestClient(t, rec, `{"id":1}`))

			resp, err := srv.Get(context.Background(), "/api/admin/users")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.StatusCode != http.StatusForbidden {
				t.Errorf("expected status 403, got %d", resp.StatusCode)
			}
		})

		t.Run("Transport Failure", func(t *testing.T) {
			srv := NewAPIService(newTestClient(t, tu.NewMockRoundTripper(nil, errors.New("network down")), ""))

			_, err := srv.Get(context.Background(), "/api/songs")
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})

		t.Run("Unreadable Body", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: &tu.FCloser{}}
			srv := NewAPIService(newTestClient(t, tu.NewMockRoundTripper(resp, nil), ""))

			_, err := srv.Get(context.Background(), "/api/songs")
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})
	})

	t.Run("Post", func(t *testing.T) {
		rec := tu.NewRecorder().JSON("POST /api/playlists", http.StatusCreated, `{"id":3,"name":"Mix"}`)
		srv := NewAPIService(newTestClient(t, rec, `{"id":1}`))

		resp, err := srv.Post(context.Background(), "/api/playlists", []byte(`{"name":"Mix"}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("expected status 201, got %d", resp.StatusCode)
		}

		req, body := rec.Last()
		if body != `{"name":"Mix"}` {
			t.Errorf("expected body to be forwarded, got %s", body)
		}
		if got := req.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected JSON content type, got %s", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		rec := tu.NewRecorder().JSON("DELETE /api/admin/songs/4", http.StatusNoContent, ``)
		srv := NewAPIService(newTestClient(t, rec, `{"id":1}`))

		resp, err := srv.Delete(context.Background(), "/api/admin/songs/4")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("expected status 204, got %d", resp.StatusCode)
		}
	})
}
