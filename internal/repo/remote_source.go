package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"user-dashboard/internal/domain"
)

const (
	DefaultBaseURL    = "https://reqres.in/api"
	DefaultTimeout    = 10 * time.Second
	DefaultAllPerPage = 12
)

var errMalformedBody = errors.New("malformed response body")

type RemoteOptions struct {
	BaseURL    string
	APIKey     string        // reqres 需要 x-api-key，可选
	Timeout    time.Duration // 默认 10s
	AllPerPage int           // FetchAll 读取第 1 页的条数，默认 12
	Client     *http.Client
}

// RemoteSource 远端 REST 用户目录
type RemoteSource struct {
	base       string
	apiKey     string
	allPerPage int
	hc         *http.Client
}

func NewRemoteSource(o RemoteOptions) *RemoteSource {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.AllPerPage <= 0 {
		o.AllPerPage = DefaultAllPerPage
	}
	hc := o.Client
	if hc == nil {
		hc = &http.Client{}
	}
	// 超时预算只作用于本来源，不改调用方传入的 client
	cp := *hc
	cp.Timeout = o.Timeout
	return &RemoteSource{
		base:       strings.TrimRight(o.BaseURL, "/"),
		apiKey:     o.APIKey,
		allPerPage: o.AllPerPage,
		hc:         &cp,
	}
}

func (r *RemoteSource) FetchPage(ctx context.Context, page, perPage int) (domain.RawPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var out domain.RawPage
	if err := r.getJSON(ctx, "/users", q, &out); err != nil {
		return domain.RawPage{}, err
	}
	if out.Data == nil {
		return domain.RawPage{}, fmt.Errorf("GET /users: %w", errMalformedBody)
	}
	return out, nil
}

func (r *RemoteSource) FetchByID(ctx context.Context, id int) (domain.RawUser, error) {
	var out struct {
		Data *domain.RawUser `json:"data"`
	}
	path := "/users/" + strconv.Itoa(id)
	if err := r.getJSON(ctx, path, nil, &out); err != nil {
		return domain.RawUser{}, err
	}
	if out.Data == nil || out.Data.ID == 0 {
		return domain.RawUser{}, fmt.Errorf("GET %s: %w", path, errMalformedBody)
	}
	return *out.Data, nil
}

func (r *RemoteSource) FetchAll(ctx context.Context) ([]domain.RawUser, error) {
	p, err := r.FetchPage(ctx, 1, r.allPerPage)
	if err != nil {
		return nil, err
	}
	return p.Data, nil
}

func (r *RemoteSource) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u := r.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if r.apiKey != "" {
		req.Header.Set("x-api-key", r.apiKey)
	}

	res, err := r.hc.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("GET %s: unexpected status %d", path, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: %w: %v", path, errMalformedBody, err)
	}
	return nil
}
