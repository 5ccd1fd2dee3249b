// Package rest is the low-level HTTP core under the Graph client: token
// acquisition, request construction and response decoding.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/microsoft"

	"github.com/awillows/win365-lab-builder/client/query"
	"github.com/awillows/win365-lab-builder/config"
)

type RestClient interface {
	Get(ctx context.Context, path string, params query.Params, headers map[string]string) (*http.Response, error)
	Post(ctx context.Context, path string, body interface{}) (*http.Response, error)
	Patch(ctx context.Context, path string, body interface{}) (*http.Response, error)
	Delete(ctx context.Context, path string, params query.Params, headers map[string]string) (*http.Response, error)
	Send(req *http.Request) (*http.Response, error)
	CloseIdleConnections()
}

// NewRestClient builds an authenticated client for the given base URL.
// Token acquisition is lazy: construction never performs network calls, so
// the device-code prompt only appears once the first request goes out.
func NewRestClient(baseURL string, cfg config.Config) (RestClient, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url %q: %w", baseURL, err)
	}

	endpoint := microsoft.AzureADEndpoint(cfg.TenantID)

	var tokens oauth2.TokenSource
	if cfg.ClientSecret != "" && !cfg.UseDeviceCode {
		creds := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     endpoint.TokenURL,
			Scopes:       []string{baseURL + "/.default"},
		}
		tokens = creds.TokenSource(context.Background())
	} else {
		// Headless-capable fallback: the OAuth2 device authorization
		// grant. Required on hosts without a browser, not optional UX.
		tokens = oauth2.ReuseTokenSource(nil, &deviceCodeSource{
			conf: &oauth2.Config{
				ClientID: cfg.ClientID,
				Endpoint: endpoint,
				Scopes:   cfg.Scopes,
			},
		})
	}

	return &restClient{
		base:   base,
		http:   &http.Client{},
		tokens: tokens,
	}, nil
}

// NewRestClientWithTokenSource builds a client over a caller-supplied token
// source. Tests use this with a static token.
func NewRestClientWithTokenSource(baseURL string, tokens oauth2.TokenSource) (RestClient, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url %q: %w", baseURL, err)
	}
	return &restClient{base: base, http: &http.Client{}, tokens: tokens}, nil
}

type restClient struct {
	base   *url.URL
	http   *http.Client
	tokens oauth2.TokenSource
}

func (s *restClient) Get(ctx context.Context, path string, params query.Params, headers map[string]string) (*http.Response, error) {
	endpoint := s.base.ResolveReference(&url.URL{Path: path})
	paramsMap := make(map[string]string)
	if params != nil {
		paramsMap = params.AsMap()
		if params.NeedsEventualConsistencyHeaderFlag() {
			if headers == nil {
				headers = make(map[string]string)
			}
			headers["ConsistencyLevel"] = "eventual"
		}
	}
	if req, err := NewRequest(ctx, http.MethodGet, endpoint, nil, paramsMap, headers); err != nil {
		return nil, err
	} else {
		return s.Send(req)
	}
}

func (s *restClient) Post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	endpoint := s.base.ResolveReference(&url.URL{Path: path})
	if req, err := NewRequest(ctx, http.MethodPost, endpoint, body, nil, nil); err != nil {
		return nil, err
	} else {
		return s.Send(req)
	}
}

func (s *restClient) Patch(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	endpoint := s.base.ResolveReference(&url.URL{Path: path})
	if req, err := NewRequest(ctx, http.MethodPatch, endpoint, body, nil, nil); err != nil {
		return nil, err
	} else {
		return s.Send(req)
	}
}

func (s *restClient) Delete(ctx context.Context, path string, params query.Params, headers map[string]string) (*http.Response, error) {
	endpoint := s.base.ResolveReference(&url.URL{Path: path})
	paramsMap := make(map[string]string)
	if params != nil {
		paramsMap = params.AsMap()
	}
	if req, err := NewRequest(ctx, http.MethodDelete, endpoint, nil, paramsMap, headers); err != nil {
		return nil, err
	} else {
		return s.Send(req)
	}
}

func (s *restClient) Send(req *http.Request) (*http.Response, error) {
	token, err := s.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("acquiring token (hint: retry with device-code flow on headless hosts): %w", err)
	}
	token.SetAuthHeader(req)

	res, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return nil, NewGraphError(res)
	}
	return res, nil
}

func (s *restClient) CloseIdleConnections() {
	s.http.CloseIdleConnections()
}

// deviceCodeSource runs the device authorization grant on first use. It is
// always wrapped in oauth2.ReuseTokenSource, which serializes Token calls
// and refreshes via the bundled refresh token afterwards.
type deviceCodeSource struct {
	conf *oauth2.Config
}

func (s *deviceCodeSource) Token() (*oauth2.Token, error) {
	ctx := context.Background()
	resp, err := s.conf.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("requesting device code: %w", err)
	}
	fmt.Printf("To sign in, open %s and enter the code %s\n", resp.VerificationURI, resp.UserCode)
	token, err := s.conf.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("device-code sign-in: %w", err)
	}
	return token, nil
}
