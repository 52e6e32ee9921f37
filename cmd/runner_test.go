package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/sinewave/internal/client"
	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/session"
	"github.com/desertthunder/sinewave/internal/shared"
	tu "github.com/desertthunder/sinewave/internal/testing"
	"github.com/urfave/cli/v3"
)

const testUser = `{"id":1,"username":"ada","firstname":"Ada","lastname":"Lovelace","role":"USER"}`

type harness struct {
	runner *Runner
	rec    *tu.Recorder
	store  *session.MemoryStore
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newHarness(t *testing.T, signedIn bool) *harness {
	t.Helper()

	cfg := shared.DefaultConfig()
	cfg.Session.Backend = shared.SessionBackendMemory
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")

	store := session.NewMemoryStore()
	if signedIn {
		if err := store.Save(context.Background(), session.Session{Token: "tok", User: json.RawMessage(testUser)}); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}
	}

	h := &harness{
		rec:    tu.NewRecorder(),
		store:  store,
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
	h.runner = NewRunner(RunnerOpts{
		Config:     cfg,
		Logger:     shared.NewLogger(&bytes.Buffer{}),
		Output:     h.out,
		ErrOutput:  h.errOut,
		HTTPClient: &http.Client{Transport: h.rec},
		Store:      store,
		Opener:     func(string) error { return nil },
	})
	t.Cleanup(func() { h.runner.Close(context.Background(), nil) })
	return h
}

// app mirrors the command tree main builds, without the config file lookup.
func (h *harness) app() *cli.Command {
	return &cli.Command{
		Name: "sinewave",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
		},
		Before:   h.runner.Before,
		Commands: h.runner.register(),
	}
}

func (h *harness) run(args ...string) error {
	return h.app().Run(context.Background(), append([]string{"sinewave"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			store := session.NewMemoryStore()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Store:      store,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.errOutput != os.Stderr {
				t.Error("expected error output to default to os.Stderr")
			}
			if runner.navigator == nil {
				t.Error("expected navigator to be set")
			}
			if runner.services != nil {
				t.Error("expected services to be built lazily")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "{\"key\":\"value\"}\n" {
				t.Errorf("expected compact JSON, got %q", output.String())
			}
		})

		t.Run("returns error on marshal failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("returns error on write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("returns error on newline write failure", func(t *testing.T) {
			w := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &w})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("formats arguments", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("Hello %s, count: %d\n", "World", 42); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "Hello World, count: 42\n" {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("writePlainln pads with newlines", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			runner.writePlainln("Next steps:")
			if output.String() != "\nNext steps:\n" {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("returns error on write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
			if err := runner.writePlain("test"); err == nil {
				t.Error("expected error")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"setup", "auth", "songs", "playlists", "users", "admin", "api", "tui"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, name := range want {
			if commands[i].Name != name {
				t.Errorf("command %d: expected %s, got %s", i, name, commands[i].Name)
			}
		}
	})
}

func TestIDArg(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int64
		wantErr error
	}{
		{name: "valid", args: []string{"42"}, want: 42},
		{name: "missing", args: nil, wantErr: shared.ErrMissingArgument},
		{name: "not a number", args: []string{"abc"}, wantErr: shared.ErrInvalidArgument},
		{name: "zero", args: []string{"0"}, wantErr: shared.ErrInvalidArgument},
		{name: "negative", args: []string{"-3"}, wantErr: shared.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got int64
			var gotErr error
			cmd := &cli.Command{
				Name:      "probe",
				Arguments: idArgument("id"),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					got, gotErr = idArg(cmd, "id")
					return nil
				},
			}

			args := append([]string{"probe", "--"}, tt.args...)
			if err := cmd.Run(context.Background(), args); err != nil {
				t.Fatalf("run failed: %v", err)
			}

			if tt.wantErr != nil {
				if !errors.Is(gotErr, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, gotErr)
				}
				return
			}
			if gotErr != nil {
				t.Fatalf("unexpected error: %v", gotErr)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestNavigator(t *testing.T) {
	t.Run("prints the notice once", func(t *testing.T) {
		errOut := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{ErrOutput: errOut})

		runner.navigator.ToLogin(context.Background(), shared.ErrSessionExpired)
		runner.navigator.ToLogin(context.Background(), shared.ErrRefreshFailed)

		if got := strings.Count(errOut.String(), "Your session has ended"); got != 1 {
			t.Errorf("expected one notice, got %d: %q", got, errOut.String())
		}
		if !strings.Contains(errOut.String(), shared.ErrSessionExpired.Error()) {
			t.Errorf("expected the first reason in the notice, got %q", errOut.String())
		}
		if !runner.NoticeShown() {
			t.Error("expected NoticeShown to report true")
		}
	})

	t.Run("use redirects until restored", func(t *testing.T) {
		errOut := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{ErrOutput: errOut})

		var reasons []error
		restore := runner.navigator.use(client.NavigatorFunc(func(_ context.Context, reason error) {
			reasons = append(reasons, reason)
		}))

		runner.navigator.ToLogin(context.Background(), shared.ErrSessionExpired)
		if len(reasons) != 1 {
			t.Fatalf("expected target to receive the termination, got %d", len(reasons))
		}
		if errOut.Len() != 0 {
			t.Errorf("expected no notice while redirected, got %q", errOut.String())
		}

		restore()
		runner.navigator.ToLogin(context.Background(), shared.ErrSessionExpired)
		if len(reasons) != 1 {
			t.Errorf("expected restored navigator to skip the old target")
		}
		if !runner.NoticeShown() {
			t.Error("expected the notice after restore")
		}
	})
}

func TestExitMessage(t *testing.T) {
	wrapped := func(err error) error { return fmt.Errorf("op: %w", err) }

	t.Run("maps known errors", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{ErrOutput: &bytes.Buffer{}})

		tests := []struct {
			err  error
			want string
		}{
			{wrapped(shared.ErrSessionExpired), "Your session has ended"},
			{wrapped(shared.ErrRefreshFailed), "Your session has ended"},
			{wrapped(shared.ErrNotAuthenticated), "You are not signed in"},
			{wrapped(shared.ErrAuthFailed), "Invalid username or password"},
			{wrapped(shared.ErrForbidden), "administrator"},
			{errors.New("boom"), "application error: boom"},
		}
		for _, tt := range tests {
			if got := runner.ExitMessage(tt.err); !strings.Contains(got, tt.want) {
				t.Errorf("ExitMessage(%v) = %q, want it to contain %q", tt.err, got, tt.want)
			}
		}
	})

	t.Run("silent once the notice was shown", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{ErrOutput: &bytes.Buffer{}})
		runner.navigator.ToLogin(context.Background(), shared.ErrSessionExpired)

		if got := runner.ExitMessage(wrapped(shared.ErrSessionExpired)); got != "" {
			t.Errorf("expected no message, got %q", got)
		}
	})
}

func TestBefore(t *testing.T) {
	t.Run("loads the config file", func(t *testing.T) {
		h := newHarness(t, false)
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		content := fmt.Sprintf("[api]\nbase_url = \"http://example.test\"\n\n[database]\npath = %q\n", filepath.Join(dir, "cache.db"))
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if err := h.run("--config", path, "songs", "cached", "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if h.runner.config.API.BaseURL != "http://example.test" {
			t.Errorf("expected base URL from file, got %s", h.runner.config.API.BaseURL)
		}
		if h.runner.configPath != path {
			t.Errorf("expected config path %s, got %s", path, h.runner.configPath)
		}
		if strings.TrimSpace(h.out.String()) != "[]" {
			t.Errorf("expected empty cached listing, got %q", h.out.String())
		}
	})

	t.Run("missing config file keeps defaults", func(t *testing.T) {
		h := newHarness(t, false)
		before := h.runner.config

		if err := h.run("--config", filepath.Join(t.TempDir(), "missing.toml"), "songs", "cached"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h.runner.config != before {
			t.Error("expected config to be unchanged")
		}
	})

	t.Run("missing config file still honors the environment", func(t *testing.T) {
		t.Setenv(shared.APIURLEnv, "http://override:9000")
		h := newHarness(t, false)

		if err := h.run("--config", filepath.Join(t.TempDir(), "missing.toml"), "songs", "cached"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := h.runner.config.API.BaseURL; got != "http://override:9000" {
			t.Errorf("expected base URL from the environment, got %s", got)
		}
	})

	t.Run("invalid config file fails", func(t *testing.T) {
		h := newHarness(t, false)
		path := filepath.Join(t.TempDir(), "config.toml")
		os.WriteFile(path, []byte("[api\nbroken"), 0644)

		if err := h.run("--config", path, "songs", "cached"); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestCommands(t *testing.T) {
	t.Run("songs search prints JSON and caches results", func(t *testing.T) {
		h := newHarness(t, true)
		h.rec.JSON("GET /api/songs/search", http.StatusOK,
			`[{"id":7,"title":"Lofi Rain","artistName":"Nami","duration":185}]`)

		if err := h.run("songs", "search", "--json", "lofi"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var songs []models.Song
		if err := json.Unmarshal(h.out.Bytes(), &songs); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", h.out.String(), err)
		}
		if len(songs) != 1 || songs[0].Title != "Lofi Rain" {
			t.Errorf("unexpected songs %+v", songs)
		}

		req, _ := h.rec.Last()
		if got := req.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer token, got %q", got)
		}
		if got := req.URL.Query().Get("title"); got != "lofi" {
			t.Errorf("expected title query, got %q", got)
		}

		h.out.Reset()
		if err := h.run("songs", "cached", "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(h.out.String(), "Lofi Rain") {
			t.Errorf("expected cached song, got %q", h.out.String())
		}
	})

	t.Run("songs mine renders a table", func(t *testing.T) {
		h := newHarness(t, true)
		h.rec.JSON("GET /api/user/songs", http.StatusOK, `[{"id":3,"title":"Morning","duration":61}]`)

		if err := h.run("songs", "mine"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := h.out.String()
		for _, want := range []string{"Title", "Morning", "Unknown Artist", "1:01"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in table, got %q", want, out)
			}
		}
	})

	t.Run("renews once and retries on 401", func(t *testing.T) {
		h := newHarness(t, true)
		h.rec.Handle("GET /api/user/songs", func(r *http.Request) *http.Response {
			if r.Header.Get("Authorization") == "Bearer fresh" {
				return tu.NewJSONResponse(http.StatusOK, `[]`)
			}
			return tu.NewJSONResponse(http.StatusUnauthorized, `{"message":"expired"}`)
		})
		h.rec.JSON("POST /api/auth/refresh", http.StatusOK, `{"token":"fresh","user":`+testUser+`}`)

		if err := h.run("songs", "mine", "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := h.rec.Count("POST /api/auth/refresh"); got != 1 {
			t.Errorf("expected one renewal, got %d", got)
		}
		if got := h.rec.Count("GET /api/user/songs"); got != 2 {
			t.Errorf("expected original and retried request, got %d", got)
		}

		sess, ok, err := h.store.Load(context.Background())
		if err != nil || !ok || sess.Token != "fresh" {
			t.Errorf("expected renewed token to be stored, got %+v ok=%v err=%v", sess, ok, err)
		}
	})

	t.Run("failed renewal ends the session with one notice", func(t *testing.T) {
		h := newHarness(t, true)
		h.rec.JSON("GET /api/user/songs", http.StatusUnauthorized, `{"message":"expired"}`)
		h.rec.JSON("POST /api/auth/refresh", http.StatusUnauthorized, `{"message":"no refresh cookie"}`)

		err := h.run("songs", "mine")
		if !client.IsSessionEnded(err) {
			t.Fatalf("expected session ended error, got %v", err)
		}
		if strings.Count(h.errOut.String(), "Your session has ended") != 1 {
			t.Errorf("expected one notice, got %q", h.errOut.String())
		}
		if h.runner.ExitMessage(err) != "" {
			t.Error("expected no exit message after the notice")
		}
		if _, ok, _ := h.store.Load(context.Background()); ok {
			t.Error("expected session to be cleared")
		}
	})

	t.Run("auth login stores the session", func(t *testing.T) {
		h := newHarness(t, false)
		h.rec.JSON("POST /api/auth/login", http.StatusOK, `{"token":"t1","user":`+testUser+`}`)

		if err := h.run("auth", "login", "-u", "ada", "-p", "secret"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(h.out.String(), "Signed in as Ada Lovelace") {
			t.Errorf("unexpected output %q", h.out.String())
		}

		_, body := h.rec.Last()
		if !strings.Contains(body, `"username":"ada"`) {
			t.Errorf("expected credentials in body, got %s", body)
		}

		sess, ok, _ := h.store.Load(context.Background())
		if !ok || sess.Token != "t1" {
			t.Errorf("expected stored session, got %+v", sess)
		}
	})

	t.Run("auth login requires a password", func(t *testing.T) {
		h := newHarness(t, false)
		t.Setenv("SINEWAVE_PASSWORD", "")

		err := h.run("auth", "login", "-u", "ada")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected missing argument, got %v", err)
		}
	})

	t.Run("auth status without a session", func(t *testing.T) {
		h := newHarness(t, false)

		if err := h.run("auth", "status"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(h.out.String(), "Not signed in") {
			t.Errorf("unexpected output %q", h.out.String())
		}
	})

	t.Run("auth status with a session", func(t *testing.T) {
		h := newHarness(t, true)

		if err := h.run("auth", "status", "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var out statusOutput
		if err := json.Unmarshal(h.out.Bytes(), &out); err != nil {
			t.Fatalf("expected JSON, got %q", h.out.String())
		}
		if !out.LoggedIn || out.User == nil || out.User.Username != "ada" {
			t.Errorf("unexpected status %+v", out)
		}
	})

	t.Run("playlists add posts both IDs", func(t *testing.T) {
		h := newHarness(t, true)
		h.rec.JSON("POST /api/playlists/songs", http.StatusOK, `{}`)

		if err := h.run("playlists", "add", "4", "9"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, body := h.rec.Last()
		if !strings.Contains(body, `"playlistId":4`) || !strings.Contains(body, `"songId":9`) {
			t.Errorf("unexpected body %s", body)
		}
	})

	t.Run("playlists show rejects a bad ID without a request", func(t *testing.T) {
		h := newHarness(t, true)

		err := h.run("playlists", "show", "abc")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument, got %v", err)
		}
		if len(h.rec.Requests) != 0 {
			t.Errorf("expected no requests, got %d", len(h.rec.Requests))
		}
	})

	t.Run("playlists export writes files and a manifest", func(t *testing.T) {
		h := newHarness(t, true)
		h.rec.JSON("GET /api/playlists/5", http.StatusOK,
			`{"id":5,"name":"Focus","isPublic":true,"songs":[{"id":1,"title":"One","artistName":"A","duration":60}]}`)
		out := filepath.Join(t.TempDir(), "export")

		if err := h.run("playlists", "export", "--format", "csv", "--output", out, "--rate-limit", "100", "5"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(out, "playlist_5_songs.csv"))
		tu.AssertFileExists(t, filepath.Join(out, "playlist_5_metadata.json"))
		tu.AssertFileExists(t, filepath.Join(out, "export_manifest.json"))
		if !strings.Contains(h.out.String(), "Exported 1/1 playlists") {
			t.Errorf("unexpected output %q", h.out.String())
		}
	})

	t.Run("playlists export needs IDs or --all", func(t *testing.T) {
		h := newHarness(t, true)

		if err := h.run("playlists", "export"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected missing argument, got %v", err)
		}
		if err := h.run("playlists", "export", "--all", "3"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected invalid flag, got %v", err)
		}
	})

	t.Run("users anonymize requires confirmation", func(t *testing.T) {
		h := newHarness(t, true)

		if err := h.run("users", "anonymize"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected confirmation error, got %v", err)
		}
		if len(h.rec.Requests) != 0 {
			t.Error("expected no requests without --yes")
		}
	})

	t.Run("admin commands require an administrator", func(t *testing.T) {
		h := newHarness(t, true)

		err := h.run("admin", "users")
		if !errors.Is(err, shared.ErrForbidden) {
			t.Errorf("expected forbidden, got %v", err)
		}
		if h.rec.Count("GET /api/admin/users") != 0 {
			t.Error("expected no admin request for a regular user")
		}
	})

	t.Run("api post validates JSON", func(t *testing.T) {
		h := newHarness(t, true)

		err := h.run("api", "post", "--data", "{not json", "/api/playlists")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid input, got %v", err)
		}
	})

	t.Run("api dump collects endpoint failures", func(t *testing.T) {
		h := newHarness(t, true)
		h.rec.JSON("GET /api/users/me", http.StatusOK, testUser)
		h.rec.JSON("GET /api/user/songs", http.StatusOK, `[]`)
		h.rec.JSON("GET /api/playlists/user", http.StatusInternalServerError, `{"message":"boom"}`)

		if err := h.run("api", "dump", "--pretty=false"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var dump map[string]any
		if err := json.Unmarshal(h.out.Bytes(), &dump); err != nil {
			t.Fatalf("expected JSON, got %q", h.out.String())
		}
		if dump["profile"] == nil {
			t.Error("expected profile in dump")
		}
		errs, _ := dump["errors"].([]any)
		if len(errs) != 1 {
			t.Errorf("expected one endpoint error, got %v", dump["errors"])
		}
	})

	t.Run("setup config writes the template", func(t *testing.T) {
		h := newHarness(t, false)
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := h.run("--config", path, "setup", "config"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileExists(t, path)

		if err := h.run("--config", path, "setup", "config"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected existing file error, got %v", err)
		}
		if err := h.run("--config", path, "setup", "config", "--force"); err != nil {
			t.Errorf("expected --force to overwrite, got %v", err)
		}
	})

	t.Run("setup database runs migrations", func(t *testing.T) {
		h := newHarness(t, false)

		if err := h.run("setup", "database"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileExists(t, h.runner.config.Database.Path)
	})
}
