package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jengzang/fingerprint-calibrator/internal/models"
)

var (
	// ErrBackendUnavailable wraps transport failures.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrRequestFailed wraps non-2xx responses and undecodable bodies.
	ErrRequestFailed = errors.New("backend request failed")
)

// Config collects backend client options.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	JWTSecret string // signs a short-lived bearer token per request when set
}

// Client talks to the fingerprint backend over HTTP.
type Client struct {
	baseURL    string
	secret     []byte
	httpClient *http.Client
}

// New builds a client, normalizing defaults.
func New(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = "http://127.0.0.1:5000"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
	}
	if cfg.JWTSecret != "" {
		c.secret = []byte(cfg.JWTSecret)
	}
	return c
}

// ImageMetadata handles GET /api/image-metadata
func (c *Client) ImageMetadata(ctx context.Context) (models.ImageMetadata, error) {
	var meta models.ImageMetadata
	err := c.do(ctx, http.MethodGet, "/api/image-metadata", nil, &meta)
	return meta, err
}

// SetRouters handles POST /api/routers
func (c *Client) SetRouters(ctx context.Context, routers []models.RouterSpec) error {
	if routers == nil {
		routers = []models.RouterSpec{}
	}
	var ack models.AckResponse
	return c.do(ctx, http.MethodPost, "/api/routers", models.RoutersRequest{Routers: routers}, &ack)
}

// Scan handles POST /api/scan. Networks reported as null are left out so
// they show as unknown instead of 0 dBm.
func (c *Client) Scan(ctx context.Context, ssids []string) (models.Readings, error) {
	var raw map[string]*float64
	if err := c.do(ctx, http.MethodPost, "/api/scan", models.ScanRequest{SSIDs: ssids}, &raw); err != nil {
		return nil, err
	}
	readings := make(models.Readings, len(raw))
	for ssid, v := range raw {
		if v != nil {
			readings[ssid] = *v
		}
	}
	return readings, nil
}

type saveBody struct {
	OK  bool      `json:"ok"`
	Est []float64 `json:"est"`
}

// Save handles POST /api/save. An est that is not exactly an [x, y] pair
// is ignored.
func (c *Client) Save(ctx context.Context, req models.SaveRequest) (models.SaveResponse, error) {
	var body saveBody
	if err := c.do(ctx, http.MethodPost, "/api/save", req, &body); err != nil {
		return models.SaveResponse{}, err
	}
	resp := models.SaveResponse{OK: body.OK}
	switch {
	case len(body.Est) == 2:
		resp.Est = &[2]float64{body.Est[0], body.Est[1]}
	case body.Est != nil:
		log.Printf("Ignoring malformed estimate %v from backend", body.Est)
	}
	return resp, nil
}

// State handles GET /api/state
func (c *Client) State(ctx context.Context) (models.StateResponse, error) {
	var st models.StateResponse
	err := c.do(ctx, http.MethodGet, "/api/state", nil, &st)
	return st, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.secret != nil {
		token, err := c.token()
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrBackendUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrRequestFailed, method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrRequestFailed, path, err)
	}
	return nil
}

func (c *Client) token() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    "fingerprint-calibrator",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}
