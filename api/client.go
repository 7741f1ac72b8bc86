package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dermalytics/dermalytics-go/auth"
	"github.com/dermalytics/dermalytics-go/cache"
	"github.com/dermalytics/dermalytics-go/history"
	"github.com/dermalytics/dermalytics-go/observe"
	"github.com/dermalytics/dermalytics-go/storage"
	"github.com/dermalytics/dermalytics-go/transport"
)

// Cache namespaces for the informational panels, used for targeted
// clears when a verification invalidates derived statistics.
const (
	nsModel      = "model"
	nsCommunity  = "community"
	nsPrevention = "prevention"
	nsDoctors    = "doctors"
)

// maxResponseBody caps decoded success bodies. Prediction responses
// carry heatmaps and processed images, so the ceiling is generous.
const maxResponseBody = 32 << 20

// Config configures a Client. Only BaseURL is required.
type Config struct {
	// BaseURL is the backend root, e.g. "https://api.dermalytics.example".
	BaseURL string

	// Tokens supplies the bearer token. Nil sends unauthenticated.
	Tokens auth.TokenSource

	// Observer provides logging, tracing and metrics. Nil means noop.
	Observer observe.Observer

	// Transport overrides the general request client. Defaults to a
	// transport.Client with DefaultTimeout.
	Transport *transport.Client

	// PredictTransport overrides the client used for predictions, which
	// need the longer PredictTimeout. Defaults accordingly.
	PredictTransport *transport.Client

	// Cache overrides the response cache. Defaults to a fresh cache
	// with the standard TTLs.
	Cache *cache.Cache

	// Store overrides the history store. Defaults to an in-memory one.
	Store *history.Store

	// CommunityInsightTTL and PreventiveCareTTL override the freshness
	// windows of the slow-moving panels.
	CommunityInsightTTL time.Duration
	PreventiveCareTTL   time.Duration
}

// Client is the typed backend client. See the package comment for the
// error-versus-fallback contract.
type Client struct {
	base    *url.URL
	http    *transport.Client
	predict *transport.Client
	fetch   *cache.Fetcher
	store   *history.Store
	tokens  auth.TokenSource
	log     observe.Logger
	now     func() time.Time

	insightTTL    time.Duration
	preventionTTL time.Duration
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api: base URL %q is not absolute", cfg.BaseURL)
	}

	obs := cfg.Observer
	if obs == nil {
		obs = observe.NewNoop()
	}

	general := cfg.Transport
	if general == nil {
		general = transport.NewClient(transport.Config{
			Tokens:   cfg.Tokens,
			Observer: obs,
		})
	}
	predict := cfg.PredictTransport
	if predict == nil {
		predict = transport.NewClient(transport.Config{
			HTTPClient: &http.Client{Timeout: transport.PredictTimeout},
			Tokens:     cfg.Tokens,
			Observer:   obs,
		})
	}

	responses := cfg.Cache
	if responses == nil {
		responses = cache.New(cache.DefaultTTL)
	}
	store := cfg.Store
	if store == nil {
		store = history.NewStore(storage.NewMemoryKV(), history.Options{Logger: obs.Logger()})
	}

	insightTTL := cfg.CommunityInsightTTL
	if insightTTL <= 0 {
		insightTTL = cache.CommunityInsightTTL
	}
	preventionTTL := cfg.PreventiveCareTTL
	if preventionTTL <= 0 {
		preventionTTL = cache.PreventiveCareTTL
	}

	return &Client{
		base:          base,
		http:          general,
		predict:       predict,
		fetch:         cache.NewFetcher(responses),
		store:         store,
		tokens:        cfg.Tokens,
		log:           obs.Logger(),
		now:           time.Now,
		insightTTL:    insightTTL,
		preventionTTL: preventionTTL,
	}, nil
}

// History returns the persistent analysis store backing this client.
func (c *Client) History() *history.Store {
	return c.store
}

// Cache returns the response cache, for targeted invalidation.
func (c *Client) Cache() *cache.Cache {
	return c.fetch.Cache()
}

// endpoint resolves path and query params against the base URL.
func (c *Client) endpoint(path string, params map[string]string) string {
	u := c.base.JoinPath(path)
	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// getJSON issues a GET through the retrying transport and decodes the
// success body into out.
func (c *Client) getJSON(ctx context.Context, path string, params map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, params), nil)
	if err != nil {
		return fmt.Errorf("api: building request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

// postJSON issues a POST with a JSON body and decodes the success body.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("api: encoding request for %s: %w", path, err)
	}

	// bytes.Reader gives http.NewRequestWithContext a GetBody, so the
	// transport can replay the body on retries.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("api: building request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

// decodeJSON drains and decodes a success response body into out. A nil
// out discards the body.
func decodeJSON(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if out == nil {
		_, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return err
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(out); err != nil {
		return fmt.Errorf("api: decoding response: %w", err)
	}
	return nil
}

// identity resolves the current user's identity from the bearer token.
// Absence of a token or an unparsable one yields the zero Identity; the
// record is simply untagged.
func (c *Client) identity() auth.Identity {
	if c.tokens == nil {
		return auth.Identity{}
	}
	tok, err := c.tokens.Token()
	if err != nil {
		return auth.Identity{}
	}
	id, err := auth.ParseIdentity(tok)
	if err != nil {
		return auth.Identity{}
	}
	return id
}
