package lgtv

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"lgremote/internal"
	"lgremote/internal/logger"
)

// Client talks UDAP/2.0 to a single LG TV. Every failure collapses into a
// false return; retry policy belongs to the caller.
type Client struct {
	httpClient *http.Client
	config     Config
	debug      bool
	logger     zerolog.Logger
}

// NewClient creates a new UDAP client for the configured TV
func NewClient(config Config, options *internal.FnModeOptions) *Client {
	if options == nil {
		options = internal.NewModeOptions()
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Port <= 0 {
		config.Port = DefaultPort
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
		debug:  options.Debug,
		logger: logger.With("udap_client").With().Str("host", config.Hostname).Logger(),
	}
}

// BaseURL returns http://host, with the port only when it is not 80
func (c *Client) BaseURL() string {
	var url strings.Builder
	url.WriteString("http://")
	url.WriteString(strings.TrimSpace(c.config.Hostname))
	if c.config.Port != DefaultPort {
		url.WriteString(":")
		url.WriteString(strconv.Itoa(c.config.Port))
	}
	return url.String()
}

// RequestPairingKey makes the TV show its pairing key on screen
func (c *Client) RequestPairingKey(ctx context.Context) bool {
	_, ok := c.Call(ctx, http.MethodPost, PairingEndpoint, showKeyEnvelope())
	return ok
}

// SendPairingKey submits the configured pairing key and local port
func (c *Client) SendPairingKey(ctx context.Context) bool {
	_, ok := c.Call(ctx, http.MethodPost, PairingEndpoint, helloEnvelope(c.config.PairingKey, c.config.LocalPort))
	return ok
}

// SendKey presses a remote control key
func (c *Client) SendKey(ctx context.Context, key Key) bool {
	_, ok := c.Call(ctx, http.MethodPost, CommandEndpoint, keyInputEnvelope(key.Code))
	return ok
}

// Call performs one UDAP request and returns the raw response text.
// The boolean is false on any transport failure, and in strict mode also on
// a non-2xx status.
func (c *Client) Call(ctx context.Context, method string, endpoint UDAPEndpoint, body string) (string, bool) {
	url := c.BaseURL() + string(endpoint)
	c.logger.Trace().Str("url", url).Msg("api request url")

	var content io.Reader
	if strings.TrimSpace(body) != "" {
		c.logger.Trace().Str("body", body).Msg("api request content")
		content = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, content)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Error building api request")
		return "", false
	}

	if content != nil {
		req.Header.Set("Content-Type", XMLContentType)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Error executing api request")
		return "", false
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Error reading api response")
		return "", false
	}

	response := string(data)
	c.logger.Trace().
		Int("status", resp.StatusCode).
		Str("body", response).
		Msg("api response content")

	if c.config.StrictResponses && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("endpoint", string(endpoint)).
			Msg("TV rejected api request")
		return response, false
	}

	if c.debug {
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("endpoint", string(endpoint)).
			Msg("UDAP request completed")
	}

	return response, true
}
