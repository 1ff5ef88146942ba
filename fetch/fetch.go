package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// UserAgent is sent with every download; some image hosts refuse clients without a browser agent.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// ErrorLog appends human-readable failures to a text file shared by the download and background-removal steps.
type ErrorLog struct {
	mu   sync.Mutex
	path string
}

// NewErrorLog truncates (or creates) the log file at path.
func NewErrorLog(path string) (*ErrorLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return nil, fmt.Errorf("create error log: %w", err)
	}
	return &ErrorLog{path: path}, nil
}

// Path returns the log file location.
func (l *ErrorLog) Path() string { return l.path }

// Record appends one entry followed by a blank line. A nil ErrorLog discards entries.
func (l *ErrorLog) Record(format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("error log %s: %v", l.path, err)
		return
	}
	defer f.Close()
	fmt.Fprintf(f, format+"\n\n", args...)
}

// StatusError is a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Options configures a Client.
type Options struct {
	HTTP     *http.Client
	Attempts int           // default 3
	Backoff  time.Duration // wait attempt*Backoff between attempts; default 1s
	Errors   *ErrorLog
	Logger   *log.Logger
}

// Client downloads product photos with retries.
type Client struct {
	http     *http.Client
	attempts int
	backoff  time.Duration
	errors   *ErrorLog
	log      *log.Logger
}

// New creates a Client.
func New(opts Options) *Client {
	c := &Client{
		http:     opts.HTTP,
		attempts: opts.Attempts,
		backoff:  opts.Backoff,
		errors:   opts.Errors,
		log:      opts.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.attempts <= 0 {
		c.attempts = 3
	}
	if c.backoff <= 0 {
		c.backoff = time.Second
	}
	if c.log == nil {
		c.log = log.Default()
	}
	return c
}

// Download fetches url into path. Failures are written to the error log and returned; they never abort the
// caller's batch.
func (c *Client) Download(ctx context.Context, url, path string) error {
	var err error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt-1) * c.backoff):
			}
		}
		err = c.fetch(ctx, url, path)
		if err == nil {
			return nil
		}
		if !retryable(err) || ctx.Err() != nil {
			break
		}
		c.log.Printf("download %s attempt %d/%d failed: %v", url, attempt, c.attempts, err)
	}
	c.errors.Record("Failed to download image from %s. Reason: %v", url, err)
	return err
}

func (c *Client) fetch(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", UserAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: url, Code: resp.StatusCode}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("read body: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// retryable reports whether another attempt may succeed: transport errors, 429 and 5xx.
func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return !errors.Is(err, context.Canceled)
}
