package services

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/sinewave/internal/shared"
	tu "github.com/desertthunder/sinewave/internal/testing"
)

func TestSongService(t *testing.T) {
	ctx := context.Background()

	t.Run("Search Escapes Title", func(t *testing.T) {
		rec := tu.NewRecorder().JSON("GET /api/songs/search", http.StatusOK,
			`[{"id":5,"title":"Rock & Roll","artistName":"Led","genreName":"Rock","duration":220}]`)
		svc := NewSongService(newTestClient(t, rec, `{"id":1}`), "")

		songs, err := svc.Search(ctx, "Rock & Roll")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(songs) != 1 || songs[0].ArtistName != "Led" || songs[0].Duration != 220 {
			t.Errorf("unexpected songs %+v", songs)
		}

		req, _ := rec.Last()
		if got := req.URL.Query().Get("title"); got != "Rock & Roll" {
			t.Errorf("expected title query to round trip, got %q", got)
		}
	})

	t.Run("Search Requires Title", func(t *testing.T) {
		svc := NewSongService(newTestClient(t, tu.NewRecorder(), ""), "")
		if _, err := svc.Search(ctx, "  "); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Mine And ByUser", func(t *testing.T) {
		rec := tu.NewRecorder().
			JSON("GET /api/user/songs", http.StatusOK, `[{"id":1,"title":"A"}]`).
			JSON("GET /api/songs/user/7", http.StatusOK, `[{"id":2,"title":"B"},{"id":3,"title":"C"}]`)
		svc := NewSongService(newTestClient(t, rec, `{"id":1}`), "")

		mine, err := svc.Mine(ctx)
		if err != nil || len(mine) != 1 {
			t.Errorf("expected one song, got %v (err=%v)", mine, err)
		}
		theirs, err := svc.ByUser(ctx, 7)
		if err != nil || len(theirs) != 2 {
			t.Errorf("expected two songs, got %v (err=%v)", theirs, err)
		}
		if _, err := svc.ByUser(ctx, 0); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Get Not Found", func(t *testing.T) {
		rec := tu.NewRecorder()
		svc := NewSongService(newTestClient(t, rec, `{"id":1}`), "")
		if _, err := svc.Get(ctx, 99); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Upload", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "track.mp3")
		if err := os.WriteFile(path, []byte("ID3-audio"), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		var host string
		rec := tu.NewRecorder().Handle("POST /upload", func(r *http.Request) *http.Response {
			host = r.URL.Host
			return tu.NewJSONResponse(http.StatusOK, "File uploaded")
		})
		svc := NewSongService(newTestClient(t, rec, `{"id":1}`), "http://media.test/")

		out, err := svc.Upload(ctx, path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if host != "media.test" {
			t.Errorf("expected upload to go to the media host, got %s", host)
		}
		if out.Message != "File uploaded" {
			t.Errorf("expected plain-text message, got %q", out.Message)
		}

		req, body := rec.Last()
		if !strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("expected multipart content type, got %s", req.Header.Get("Content-Type"))
		}
		if !strings.Contains(body, `name="file"; filename="track.mp3"`) || !strings.Contains(body, "ID3-audio") {
			t.Errorf("expected file part in body, got %s", body)
		}
	})

	t.Run("Upload Without Media URL", func(t *testing.T) {
		svc := NewSongService(newTestClient(t, tu.NewRecorder(), ""), "")
		if _, err := svc.Upload(ctx, "x.mp3"); !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}

func TestPlaylistService(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		rec := tu.NewRecorder().JSON("POST /api/playlists", http.StatusCreated, `{"id":4,"name":"Mix","isPublic":true}`)
		svc := NewPlaylistService(newTestClient(t, rec, `{"id":1}`))

		p, err := svc.Create(ctx, " Mix ", true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if p.ID != 4 || !p.IsPublic {
			t.Errorf("unexpected playlist %+v", p)
		}
		_, body := rec.Last()
		if body != `{"name":"Mix","isPublic":true}` {
			t.Errorf("unexpected body %s", body)
		}
	})

	t.Run("Create Requires Name", func(t *testing.T) {
		svc := NewPlaylistService(newTestClient(t, tu.NewRecorder(), ""))
		if _, err := svc.Create(ctx, "", false); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("AddSong", func(t *testing.T) {
		rec := tu.NewRecorder().JSON("POST /api/playlists/songs", http.StatusOK, ``)
		svc := NewPlaylistService(newTestClient(t, rec, `{"id":1}`))

		if err := svc.AddSong(ctx, 4, 5); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		_, body := rec.Last()
		if body != `{"playlistId":4,"songId":5}` {
			t.Errorf("unexpected body %s", body)
		}
	})

	t.Run("Mine And Get", func(t *testing.T) {
		rec := tu.NewRecorder().
			JSON("GET /api/playlists/user", http.StatusOK, `[{"id":4,"name":"Mix","songCount":2}]`).
			JSON("GET /api/playlists/4", http.StatusOK, `{"id":4,"name":"Mix","songs":[{"id":1,"title":"A"},{"id":2,"title":"B"}]}`)
		svc := NewPlaylistService(newTestClient(t, rec, `{"id":1}`))

		list, err := svc.Mine(ctx)
		if err != nil || len(list) != 1 || list[0].SongCount != 2 {
			t.Errorf("unexpected playlists %+v (err=%v)", list, err)
		}

		p, err := svc.Get(ctx, 4)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if p.SongCount != 2 || len(p.Songs) != 2 {
			t.Errorf("expected song count derived from songs, got %+v", p)
		}

		if _, err := svc.Get(ctx, 5); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})
}

func TestUserService(t *testing.T) {
	ctx := context.Background()

	t.Run("Profiles And Search", func(t *testing.T) {
		rec := tu.NewRecorder().
			JSON("GET /api/users/me", http.StatusOK, `{"id":1,"username":"ana"}`).
			JSON("GET /api/users/2", http.StatusOK, `{"id":2,"username":"bo"}`).
			JSON("GET /api/users/search", http.StatusOK, `[{"id":2,"username":"bo"}]`)
		svc := NewUserService(newTestClient(t, rec, `{"id":1}`), nil)

		me, err := svc.Me(ctx)
		if err != nil || me.Username != "ana" {
			t.Errorf("unexpected me %+v (err=%v)", me, err)
		}
		other, err := svc.Get(ctx, 2)
		if err != nil || other.Username != "bo" {
			t.Errorf("unexpected user %+v (err=%v)", other, err)
		}
		found, err := svc.Search(ctx, "bo")
		if err != nil || len(found) != 1 {
			t.Errorf("unexpected search result %+v (err=%v)", found, err)
		}
	})

	t.Run("Follow Cycle", func(t *testing.T) {
		rec := tu.NewRecorder().
			JSON("GET /api/users/friends/is-following/2", http.StatusOK, `{"following":true}`).
			JSON("POST /api/users/friends/follow/2", http.StatusOK, ``).
			JSON("DELETE /api/users/friends/unfollow/2", http.StatusOK, ``)
		svc := NewUserService(newTestClient(t, rec, `{"id":1}`), nil)

		if err := svc.Follow(ctx, 2); err != nil {
			t.Errorf("follow failed: %v", err)
		}
		following, err := svc.IsFollowing(ctx, 2)
		if err != nil || !following {
			t.Errorf("expected following, got %v (err=%v)", following, err)
		}
		if err := svc.Unfollow(ctx, 2); err != nil {
			t.Errorf("unfollow failed: %v", err)
		}
		if rec.Count("DELETE /api/users/friends/unfollow/2") != 1 {
			t.Error("expected unfollow to use DELETE")
		}
	})

	t.Run("Anonymize Clears Session", func(t *testing.T) {
		rec := tu.NewRecorder().JSON("POST /api/users/anonymize-me", http.StatusOK, `{}`)
		c := newTestClient(t, rec, `{"id":1}`)
		cookies := &fakeCookies{}
		svc := NewUserService(c, cookies)

		if err := svc.Anonymize(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok, _ := c.Session().Get(ctx); ok {
			t.Error("expected session to be cleared")
		}
		if cookies.cleared != 1 {
			t.Errorf("expected cookies cleared, got %d", cookies.cleared)
		}
	})
}

func TestAdminService(t *testing.T) {
	ctx := context.Background()

	t.Run("Requires Admin Role", func(t *testing.T) {
		rec := tu.NewRecorder().JSON("GET /api/admin/songs", http.StatusOK, `[]`)
		svc := NewAdminService(newTestClient(t, rec, `{"id":1,"username":"ana","role":"USER"}`))

		if _, err := svc.Songs(ctx); !errors.Is(err, shared.ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
		if len(rec.Requests) != 0 {
			t.Error("expected no request for non-admin")
		}
	})

	t.Run("Requires Session", func(t *testing.T) {
		svc := NewAdminService(newTestClient(t, tu.NewRecorder(), ""))
		if _, err := svc.Users(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Admin Operations", func(t *testing.T) {
		rec := tu.NewRecorder().
			JSON("GET /api/admin/songs", http.StatusOK, `[{"id":1,"title":"A"}]`).
			JSON("GET /api/admin/users", http.StatusOK, `[{"id":2,"username":"bo"}]`).
			JSON("DELETE /api/admin/songs/1", http.StatusNoContent, ``).
			JSON("DELETE /api/admin/users/2", http.StatusNoContent, ``)
		svc := NewAdminService(newTestClient(t, rec, `{"id":1,"username":"root","role":"ADMIN"}`))

		songs, err := svc.Songs(ctx)
		if err != nil || len(songs) != 1 {
			t.Errorf("unexpected songs %+v (err=%v)", songs, err)
		}
		users, err := svc.Users(ctx)
		if err != nil || len(users) != 1 {
			t.Errorf("unexpected users %+v (err=%v)", users, err)
		}
		if err := svc.DeleteSong(ctx, 1); err != nil {
			t.Errorf("delete song failed: %v", err)
		}
		if err := svc.DeleteUser(ctx, 2); err != nil {
			t.Errorf("delete user failed: %v", err)
		}
	})
}
