package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sinewave/internal/client"
	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/repositories"
	"github.com/desertthunder/sinewave/internal/services"
	"github.com/desertthunder/sinewave/internal/session"
	"github.com/desertthunder/sinewave/internal/shared"
	"github.com/desertthunder/sinewave/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// API dependencies are built on first use so that offline commands (setup, cached listings) never touch the session store.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	errOutput  io.Writer
	httpClient *http.Client
	store      session.Store
	opener     func(string) error
	navigator  *navigator

	db       *sql.DB
	jar      *session.PersistentJar
	services *services.Services
	engine   *tasks.LibraryEngine
	cache    *repositories.CacheAdapter
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	ErrOutput  io.Writer
	// HTTPClient replaces the cookie-persisting client built from config.
	HTTPClient *http.Client
	// Store replaces the session backend selected in config.
	Store  session.Store
	Opener func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		errOutput:  opts.ErrOutput,
		httpClient: opts.HTTPClient,
		store:      opts.Store,
		opener:     opts.Opener,
	}
	r.navigator = &navigator{fallback: &noticeNavigator{w: opts.ErrOutput}}
	return r
}

// SetLogger replaces the logger used by commands built after the call.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Before loads the configuration named by --config and applies --verbose.
//
// A missing config file is not an error: defaults (plus environment overrides) are used.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	if path == "" {
		return ctx, nil
	}
	r.configPath = path

	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return ctx, nil
	}

	cfg, err := shared.LoadConfig(path)
	if err != nil {
		return ctx, err
	}
	r.config = cfg
	return ctx, nil
}

// Close releases the database handle, if one was opened.
func (r *Runner) Close(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// needs wraps an action that talks to the API so its dependencies exist first.
func (r *Runner) needs(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := r.init(); err != nil {
			return err
		}
		return action(ctx, cmd)
	}
}

// init builds the session manager, authenticated client, services and export engine.
func (r *Runner) init() error {
	if r.services != nil {
		return nil
	}
	if err := r.config.Validate(); err != nil {
		return err
	}
	cfg := r.config

	store, err := r.sessionStore()
	if err != nil {
		return err
	}
	manager := session.NewManager(store, shared.WithLogger(r.logger, "component", "session"))

	httpClient := r.httpClient
	if httpClient == nil {
		jar, err := session.NewPersistentJar(cfg.Session.CookiePath, shared.WithLogger(r.logger, "component", "cookies"))
		if err != nil {
			return err
		}
		r.jar = jar
		httpClient = &http.Client{Jar: jar}
	}

	c, err := client.New(client.Options{
		BaseURL:           cfg.API.BaseURL,
		Session:           manager,
		Navigator:         r.navigator,
		Logger:            shared.WithLogger(r.logger, "component", "client"),
		HTTPClient:        httpClient,
		Timeout:           cfg.API.TimeoutDuration(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		UserAgent:         cfg.API.UserAgent,
	})
	if err != nil {
		return err
	}

	var cookies services.CookieClearer
	if r.jar != nil {
		cookies = r.jar
	}

	r.services = services.New(c, services.Options{
		MediaURL: cfg.API.MediaURL,
		Cookies:  cookies,
		Logger:   r.logger,
		Opener:   r.opener,
	})
	r.engine = tasks.NewLibraryEngine(r.services.Playlists, r.services.API)
	if cache, err := r.cacheAdapter(); err == nil {
		r.engine.SetCache(cache)
	}
	return nil
}

func (r *Runner) sessionStore() (session.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	switch r.config.Session.Backend {
	case shared.SessionBackendMemory:
		return session.NewMemoryStore(), nil
	case shared.SessionBackendSQLite:
		db, err := r.database()
		if err != nil {
			return nil, err
		}
		return session.NewSQLiteStore(db), nil
	default:
		return session.NewFileStore(r.config.Session.Path), nil
	}
}

// database opens the configured SQLite database once and applies migrations.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	return db, nil
}

func (r *Runner) cacheAdapter() (*repositories.CacheAdapter, error) {
	if r.cache != nil {
		return r.cache, nil
	}
	db, err := r.database()
	if err != nil {
		r.logger.Warn("local cache unavailable", "error", err)
		return nil, err
	}
	r.cache = repositories.NewCacheAdapter(repositories.NewSongRepository(db), repositories.NewPlaylistRepository(db))
	return r.cache, nil
}

// cacheSongs stores songs for offline listing. Failures are logged, never returned.
func (r *Runner) cacheSongs(songs []models.Song) {
	cache, err := r.cacheAdapter()
	if err != nil {
		return
	}
	if err := cache.CacheSongs(songs); err != nil {
		r.logger.Warn("failed to cache songs", "error", err)
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, songsCommand, playlistsCommand, usersCommand, adminCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeResult writes data as JSON when --json is set, otherwise as the rendered table.
func (r *Runner) writeResult(cmd *cli.Command, data any, render func() string) error {
	if cmd.Bool("json") {
		return r.writeJSON(data, cmd.Bool("pretty"))
	}
	return r.writePlain("%s\n", render())
}

// idArg parses the positional argument name as a positive API ID.
func idArg(cmd *cli.Command, name string) (int64, error) {
	raw := cmd.StringArg(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", shared.ErrMissingArgument, name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", shared.ErrInvalidArgument, name, raw)
	}
	return id, nil
}

// navigator routes session terminations to the active front end: the TUI while it runs, the CLI notice otherwise.
type navigator struct {
	mu       sync.Mutex
	target   client.Navigator
	fallback *noticeNavigator
}

// use directs terminations to n until the returned restore func is called.
func (nav *navigator) use(n client.Navigator) (restore func()) {
	nav.mu.Lock()
	prev := nav.target
	nav.target = n
	nav.mu.Unlock()

	return func() {
		nav.mu.Lock()
		nav.target = prev
		nav.mu.Unlock()
	}
}

func (nav *navigator) ToLogin(ctx context.Context, reason error) {
	nav.mu.Lock()
	target := nav.target
	nav.mu.Unlock()

	if target != nil {
		target.ToLogin(ctx, reason)
		return
	}
	nav.fallback.ToLogin(ctx, reason)
}

// noticeNavigator prints a sign-in notice once per process.
type noticeNavigator struct {
	mu    sync.Mutex
	w     io.Writer
	shown bool
}

func (n *noticeNavigator) ToLogin(_ context.Context, reason error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.shown {
		return
	}
	n.shown = true

	msg := "Your session has ended"
	if reason != nil {
		msg = fmt.Sprintf("%s (%v)", msg, reason)
	}
	fmt.Fprintf(n.w, "%s. Run `sinewave auth login` to sign in again.\n", msg)
}

func (n *noticeNavigator) Shown() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.shown
}

// NoticeShown reports whether the sign-in notice was printed.
func (r *Runner) NoticeShown() bool {
	return r.navigator.fallback.Shown()
}

// ExitMessage maps terminal errors to the text main prints before exiting.
func (r *Runner) ExitMessage(err error) string {
	switch {
	case client.IsSessionEnded(err):
		if r.NoticeShown() {
			return ""
		}
		return "Your session has ended. Run `sinewave auth login` to sign in again."
	case errors.Is(err, shared.ErrNotAuthenticated):
		return "You are not signed in. Run `sinewave auth login` first."
	case errors.Is(err, shared.ErrAuthFailed):
		return "Invalid username or password."
	case errors.Is(err, shared.ErrForbidden):
		return "This command requires an administrator account."
	default:
		return fmt.Sprintf("application error: %v", err)
	}
}
