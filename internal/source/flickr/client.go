package flickr

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"flickr_syncer/internal/domain"
)

// Flickr error codes indicating the authorization itself is no longer valid.
const (
	errCodeInvalidToken     = 98
	errCodeInsufficientPerm = 99
)

// Config holds Flickr API client configuration.
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	OAuthToken     string
	OAuthSecret    string
	OAuthVerifier  string
	ReauthURL      string
	Timeout        time.Duration
}

// Client reads the Flickr REST API with per-request OAuth1 signing. It never
// retries: transport and API failures abort the run, which itself repeats on
// the next schedule tick.
type Client struct {
	httpClient *http.Client
	baseURL    string
	reauthURL  string
	signer     *Signer
	logger     *slog.Logger
}

// New creates a new Flickr client.
func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		reauthURL: cfg.ReauthURL,
		signer: &Signer{
			ConsumerKey:    cfg.ConsumerKey,
			ConsumerSecret: cfg.ConsumerSecret,
			Token:          cfg.OAuthToken,
			TokenSecret:    cfg.OAuthSecret,
			Verifier:       cfg.OAuthVerifier,
		},
		logger: logger.With("source", "flickr"),
	}
}

// RecentlyUpdated fetches one page of photos updated since minDate (epoch
// seconds). The page counter is 1-based and driven by the caller; the
// returned Pages value tells the caller when to stop.
func (c *Client) RecentlyUpdated(ctx context.Context, minDate int64, page int) (*domain.PhotoPage, error) {
	params := url.Values{}
	params.Set("min_date", strconv.FormatInt(minDate, 10))
	params.Set("page", strconv.Itoa(page))

	env, err := c.call(ctx, "flickr.photos.recentlyUpdated", params)
	if err != nil {
		return nil, err
	}

	result := &domain.PhotoPage{Page: page, Pages: 1}
	if env.Photos != nil {
		result.Page = env.Photos.Page
		result.Pages = env.Photos.Pages
		for _, stub := range env.Photos.Photo {
			result.Photos = append(result.Photos, mapStub(stub))
		}
	}

	c.logger.Debug("fetched page",
		"page", result.Page,
		"pages", result.Pages,
		"photos", len(result.Photos),
	)

	return result, nil
}

// PhotoDetail fetches and maps the full metadata for one photo: getInfo for
// the photo/owner/tags record and getExif for the exif document.
func (c *Client) PhotoDetail(ctx context.Context, id, secret string) (*domain.PhotoDetail, error) {
	params := url.Values{}
	params.Set("photo_id", id)
	params.Set("secret", secret)

	infoEnv, err := c.call(ctx, "flickr.photos.getInfo", params)
	if err != nil {
		return nil, err
	}
	if infoEnv.Photo == nil {
		return nil, domain.E(domain.KindUpstreamAPI, "flickr api error: getInfo response missing photo (photo_id=%s)", id)
	}

	exifEnv, err := c.call(ctx, "flickr.photos.getExif", params)
	if err != nil {
		return nil, err
	}
	if exifEnv.Photo == nil {
		return nil, domain.E(domain.KindUpstreamAPI, "flickr api error: getExif response missing photo (photo_id=%s)", id)
	}

	return MapPhotoDetail(infoEnv.Photo, exifEnv.Photo), nil
}

func (c *Client) call(ctx context.Context, method string, params url.Values) (*envelope, error) {
	callParams := url.Values{}
	for k, vs := range params {
		callParams[k] = vs
	}
	callParams.Set("method", method)

	signed := c.signer.Sign(http.MethodGet, c.baseURL, callParams)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+signed.Encode(), nil)
	if err != nil {
		return nil, domain.E(domain.KindUpstreamAPI, "flickr api error: create request: %v (%s %s)", err, method, params.Encode())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.E(domain.KindUpstreamAPI, "flickr api error: %v (%s %s)", err, method, params.Encode())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.E(domain.KindAuth, "flickr authorization rejected, need login: %s", c.reauthURL)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.E(domain.KindUpstreamAPI, "flickr api error: status %d (%s %s)", resp.StatusCode, method, params.Encode())
	}

	var env envelope
	if err := xml.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, domain.E(domain.KindUpstreamAPI, "flickr api error: decode response: %v (%s %s)", err, method, params.Encode())
	}

	if env.Stat != "ok" {
		if env.Err != nil && (env.Err.Code == errCodeInvalidToken || env.Err.Code == errCodeInsufficientPerm) {
			return nil, domain.E(domain.KindAuth, "flickr authorization rejected: %s, need login: %s", env.Err.Msg, c.reauthURL)
		}
		msg := "malformed envelope"
		if env.Err != nil {
			msg = env.Err.Msg
		}
		return nil, domain.E(domain.KindUpstreamAPI, "flickr api error: %s (%s %s)", msg, method, params.Encode())
	}

	return &env, nil
}

// PhotoURL is the canonical live.staticflickr.com URL published alongside a
// photo's channel message.
func (c *Client) PhotoURL(server, id, secret string) string {
	return fmt.Sprintf("https://live.staticflickr.com/%s/%s_%s_c.jpg", server, id, secret)
}
