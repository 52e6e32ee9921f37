package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// PersistentJar is an [http.CookieJar] whose cookies survive process restarts.
//
// The refresh cookie set by the auth endpoints lives here, so a later CLI
// invocation can still renew the session. An empty path keeps cookies in memory only.
type PersistentJar struct {
	mu      sync.Mutex
	path    string
	jar     *cookiejar.Jar
	entries map[string][]*http.Cookie
	logger  *log.Logger
	now     func() time.Time
}

var _ http.CookieJar = (*PersistentJar)(nil)

type jarEntry struct {
	URL     string         `json:"url"`
	Cookies []*http.Cookie `json:"cookies"`
}

// NewPersistentJar creates a jar and loads any cookies saved at path. A nil logger discards output.
func NewPersistentJar(path string, logger *log.Logger) (*PersistentJar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if logger == nil {
		logger = log.New(nopWriter{})
	}
	j := &PersistentJar{
		path:    path,
		jar:     inner,
		entries: make(map[string][]*http.Cookie),
		logger:  logger,
		now:     time.Now,
	}
	if err := j.load(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)

	key := originOf(u)
	merged := j.entries[key]
	for _, c := range cookies {
		merged = upsertCookie(merged, absoluteExpiry(c, j.now()))
	}
	j.entries[key] = merged

	// The in-memory jar stays authoritative for this process.
	if err := j.save(); err != nil {
		j.logger.Warn("failed to persist cookies", "path", j.path, "err", err)
	}
}

func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

// Clear drops every cookie and removes the saved file.
func (j *PersistentJar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	inner, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("failed to create cookie jar: %w", err)
	}
	j.jar = inner
	j.entries = make(map[string][]*http.Cookie)

	if j.path == "" {
		return nil
	}
	if err := os.Remove(j.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove cookie file: %w", err)
	}
	return nil
}

func (j *PersistentJar) load() error {
	if j.path == "" {
		return nil
	}
	data, err := os.ReadFile(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cookie file: %w", err)
	}

	var saved []jarEntry
	if err := json.Unmarshal(data, &saved); err != nil {
		return fmt.Errorf("failed to decode cookie file: %w", err)
	}
	for _, e := range saved {
		u, err := url.Parse(e.URL)
		if err != nil {
			continue
		}
		live := unexpired(e.Cookies, j.now())
		j.jar.SetCookies(u, live)
		j.entries[e.URL] = live
	}
	return nil
}

func (j *PersistentJar) save() error {
	if j.path == "" {
		return nil
	}
	saved := make([]jarEntry, 0, len(j.entries))
	for origin, cookies := range j.entries {
		saved = append(saved, jarEntry{URL: origin, Cookies: cookies})
	}
	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("failed to encode cookies: %w", err)
	}
	return writeFileAtomic(j.path, data)
}

// absoluteExpiry converts a positive MaxAge into Expires so a reload does not restart the countdown.
func absoluteExpiry(c *http.Cookie, now time.Time) *http.Cookie {
	if c.MaxAge <= 0 {
		return c
	}
	cp := *c
	cp.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
	cp.MaxAge = 0
	return &cp
}

func unexpired(cookies []*http.Cookie, now time.Time) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		if !c.Expires.IsZero() && !c.Expires.After(now) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func originOf(u *url.URL) string {
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}).String()
}

// upsertCookie replaces a cookie with the same name and path, or appends it.
// A cookie with a negative MaxAge deletes the stored one.
func upsertCookie(list []*http.Cookie, c *http.Cookie) []*http.Cookie {
	out := list[:0:0]
	for _, existing := range list {
		if existing.Name == c.Name && existing.Path == c.Path {
			continue
		}
		out = append(out, existing)
	}
	if c.MaxAge < 0 {
		return out
	}
	return append(out, c)
}
