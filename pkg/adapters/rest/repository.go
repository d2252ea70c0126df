// Package rest implements core.Repository against the NoteHub REST API.
//
// Endpoints:
//
//	GET    {base}/notes?page=P&perPage=N[&search=S]  -> {notes, totalPages}
//	POST   {base}/notes   {title, content, tag}      -> Note
//	DELETE {base}/notes/{id}                         -> Note or empty
//
// Every request carries the static bearer token from Config.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/aretw0/notehub/pkg/core"
)

const (
	DefaultBaseURL     = "https://notehub-public.goit.study/api"
	DefaultTimeout     = 30 * time.Second
	DefaultSearchParam = "search"
)

// Config holds the configuration for the REST repository.
type Config struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	SearchParam string       // query parameter carrying the search term (e.g. "search" or "q")
	HTTPClient  *http.Client // optional; Timeout is ignored when set
	Logger      *slog.Logger
	Breaker     BreakerConfig
}

// Repository implements core.Repository over HTTP.
type Repository struct {
	config  Config
	base    *url.URL
	client  *http.Client
	breaker *gobreaker.CircuitBreaker

	mu       sync.RWMutex
	requests uint64
	failures uint64
	lastErr  string
}

// NewRepository creates a REST-backed repository. A missing token is a
// configuration error: requests are never sent unauthenticated.
func NewRepository(config Config) (*Repository, error) {
	if strings.TrimSpace(config.Token) == "" {
		return nil, fmt.Errorf("missing API token: %w", core.ErrConfig)
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.SearchParam == "" {
		config.SearchParam = DefaultSearchParam
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	base, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: %w", config.BaseURL, core.ErrConfig)
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	r := &Repository{
		config: config,
		base:   base,
		client: client,
	}
	r.breaker = newBreaker(config.Breaker, config.Logger)
	return r, nil
}

var _ core.Repository = (*Repository)(nil)

type listResponse struct {
	Notes      []core.Note `json:"notes"`
	TotalPages int         `json:"totalPages"`
}

// List implements core.Repository.
func (r *Repository) List(ctx context.Context, q core.Query) (core.FetchResult, error) {
	q = q.Normalize()

	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("perPage", strconv.Itoa(q.PageSize))
	// An empty term is a different request from "no filter": omit it.
	if q.HasSearch() {
		params.Set(r.config.SearchParam, q.Search)
	}

	var out listResponse
	if err := r.do(ctx, "list notes", http.MethodGet, "/notes", params, nil, &out); err != nil {
		return core.FetchResult{}, err
	}
	if out.Notes == nil {
		out.Notes = []core.Note{}
	}
	return core.FetchResult{Notes: out.Notes, TotalPages: out.TotalPages}, nil
}

// Create implements core.Repository.
func (r *Repository) Create(ctx context.Context, d core.Draft) (core.Note, error) {
	if err := core.ValidateDraft(d); err != nil {
		return core.Note{}, err
	}

	var note core.Note
	if err := r.do(ctx, "create note", http.MethodPost, "/notes", nil, d, &note); err != nil {
		return core.Note{}, err
	}
	return note, nil
}

// Delete implements core.Repository. The id is escaped as a single path
// segment; "." and ".." are rejected before any request is sent.
func (r *Repository) Delete(ctx context.Context, id core.NoteID) (core.Note, error) {
	if id == "." || id == ".." {
		return core.Note{}, fmt.Errorf("delete note: invalid id %q: %w", id, core.ErrValidation)
	}
	var note core.Note
	path := "/notes/" + url.PathEscape(string(id))
	if err := r.do(ctx, "delete note", http.MethodDelete, path, nil, nil, &note); err != nil {
		return core.Note{}, err
	}
	if note.ID == "" {
		note.ID = id
	}
	return note, nil
}

// do runs one request through the circuit breaker.
func (r *Repository) do(ctx context.Context, op, method, path string, params url.Values, body, target any) error {
	_, err := r.breaker.Execute(func() (any, error) {
		return nil, r.roundTrip(ctx, op, method, path, params, body, target)
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = &core.NetworkError{Op: op, Err: err}
	}
	r.record(err)
	return err
}

func (r *Repository) roundTrip(ctx context.Context, op, method, path string, params url.Values, body, target any) error {
	// path is already escaped; Path is derived from it so ids stay one segment.
	u := *r.base
	u.RawPath = r.base.EscapedPath() + path
	unescaped, err := url.PathUnescape(u.RawPath)
	if err != nil {
		return fmt.Errorf("%s: invalid path: %w", op, err)
	}
	u.Path = unescaped
	if params != nil {
		u.RawQuery = params.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request body: %w", op, err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.config.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	r.config.Logger.Debug("api request", "op", op, "method", method, "url", u.Redacted())

	resp, err := r.client.Do(req)
	if err != nil {
		return &core.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &core.APIError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       string(data),
			Kind:       core.KindForStatus(resp.StatusCode),
		}
	}

	if target == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &core.NetworkError{Op: op, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, errors.Join(core.ErrServer, err))
	}
	return nil
}

func (r *Repository) record(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests++
	if err != nil {
		r.failures++
		r.lastErr = err.Error()
	}
}
