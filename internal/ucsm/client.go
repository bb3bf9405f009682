// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package ucsm

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

const xmlApiPath = "/nuova"

// Config describes how to reach and authenticate against UCS Manager.
type Config struct {
	// Endpoint is either a full URL (https://ucsm.example.com) or a bare host name,
	// in which case https is assumed.
	Endpoint string
	Username string
	Password string
	Insecure bool
	// Proxy is an optional proxy URL used for all requests.
	Proxy   string
	Timeout time.Duration
}

// Client is an authenticated session with the UCS Manager XML API.
type Client struct {
	url      string
	http     *http.Client
	username string
	password string

	cookie        string
	refreshPeriod time.Duration
	version       string
}

func apiURL(endpoint string) (string, error) {
	if endpoint == "" {
		return "", fmt.Errorf("ucsm: endpoint is empty")
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("ucsm: invalid endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("ucsm: invalid endpoint %q: missing host", endpoint)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	if !strings.HasSuffix(u.Path, xmlApiPath) {
		u.Path += xmlApiPath
	}
	return u.String(), nil
}

// NewClient prepares a client without contacting UCS Manager.
func NewClient(cfg Config) (*Client, error) {
	endpoint, err := apiURL(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	transport := cleanhttp.DefaultPooledTransport()
	if cfg.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402
	}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("ucsm: invalid proxy %q: %w", cfg.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	httpClient := &http.Client{Transport: transport}
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}

	return &Client{
		url:      endpoint,
		http:     httpClient,
		username: cfg.Username,
		password: cfg.Password,
	}, nil
}

// Connect creates a client and logs in.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	c, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Login(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// URL returns the XML API address used by the client.
func (c *Client) URL() string { return c.url }

// Cookie returns the session cookie or empty string when logged out.
func (c *Client) Cookie() string { return c.cookie }

// Version returns UCS Manager version reported at login.
func (c *Client) Version() string { return c.version }

// RefreshPeriod returns the period after which the session cookie should be refreshed.
func (c *Client) RefreshPeriod() time.Duration { return c.refreshPeriod }

func (c *Client) Login(ctx context.Context) error {
	var resp aaaLoginResponse
	err := c.post(ctx, "aaaLogin", aaaLoginRequest{InName: c.username, InPassword: c.password}, &resp)
	if err != nil {
		return err
	}
	if resp.OutCookie == "" {
		return fmt.Errorf("ucsm: aaaLogin returned empty cookie")
	}

	c.cookie = resp.OutCookie
	c.refreshPeriod = time.Duration(resp.OutRefreshPeriod) * time.Second
	c.version = resp.OutVersion

	tflog.Debug(ctx, "ucsm: logged in", map[string]interface{}{
		"endpoint": c.url,
		"version":  c.version,
	})
	return nil
}

// Refresh renews the session cookie.
func (c *Client) Refresh(ctx context.Context) error {
	if c.cookie == "" {
		return ErrNotLoggedIn
	}
	var resp aaaRefreshResponse
	req := aaaRefreshRequest{InName: c.username, InPassword: c.password, InCookie: c.cookie}
	if err := c.post(ctx, "aaaRefresh", req, &resp); err != nil {
		return err
	}
	c.cookie = resp.OutCookie
	c.refreshPeriod = time.Duration(resp.OutRefreshPeriod) * time.Second
	return nil
}

// Logout ends the session. Calling Logout on a logged out client is a no-op.
func (c *Client) Logout(ctx context.Context) error {
	if c.cookie == "" {
		return nil
	}
	var resp aaaLogoutResponse
	err := c.post(ctx, "aaaLogout", aaaLogoutRequest{InCookie: c.cookie}, &resp)
	c.cookie = ""
	if err != nil {
		return err
	}
	tflog.Debug(ctx, "ucsm: logged out", map[string]interface{}{
		"endpoint": c.url,
		"status":   resp.OutStatus,
	})
	return nil
}

// ResolveDn returns the object located at dn or nil if there is none.
func (c *Client) ResolveDn(ctx context.Context, dn string) (*ManagedObject, error) {
	if c.cookie == "" {
		return nil, ErrNotLoggedIn
	}
	var resp configResolveDnResponse
	req := configResolveDnRequest{Cookie: c.cookie, Dn: dn, InHierarchical: "false"}
	if err := c.post(ctx, "configResolveDn", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.OutConfig.Objects) == 0 {
		return nil, nil
	}
	return resp.OutConfig.Objects[0], nil
}

// ResolveChildren returns children of dn. When classID is not empty only
// children of that class are returned.
func (c *Client) ResolveChildren(ctx context.Context, dn string, classID string) ([]*ManagedObject, error) {
	if c.cookie == "" {
		return nil, ErrNotLoggedIn
	}
	var resp configResolveChildrenResponse
	req := configResolveChildrenRequest{Cookie: c.cookie, InDn: dn, ClassId: classID, InHierarchical: "false"}
	if err := c.post(ctx, "configResolveChildren", req, &resp); err != nil {
		return nil, err
	}
	return resp.OutConfigs.Objects, nil
}

// ConfMos pushes objects with their status set in a single transaction.
func (c *Client) ConfMos(ctx context.Context, mos []*ManagedObject) ([]*ManagedObject, error) {
	if c.cookie == "" {
		return nil, ErrNotLoggedIn
	}
	if len(mos) == 0 {
		return nil, nil
	}

	req := configConfMosRequest{Cookie: c.cookie, InHierarchical: "false"}
	for _, mo := range mos {
		req.InConfigs.Pairs = append(req.InConfigs.Pairs, configPair{Key: mo.Dn, Object: mo})
	}

	var resp configConfMosResponse
	if err := c.post(ctx, "configConfMos", req, &resp); err != nil {
		return nil, err
	}

	out := make([]*ManagedObject, 0, len(resp.OutConfigs.Pairs))
	for _, pair := range resp.OutConfigs.Pairs {
		if pair.Object != nil {
			out = append(out, pair.Object)
		}
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, method string, in interface{}, out interface{}) error {
	body, err := xml.Marshal(in)
	if err != nil {
		return fmt.Errorf("ucsm: encoding %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ucsm: creating %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/xml")

	tflog.Trace(ctx, "ucsm: request", map[string]interface{}{
		"method": method,
	})

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ucsm: %s request failed: %w", method, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("ucsm: reading %s response: %w", method, err)
	}

	if res.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: res.StatusCode, Status: res.Status}
	}

	// UCSM may answer with an <error> element instead of the method element,
	// so check the status before decoding into the method specific type.
	var generic genericResponse
	if err := xml.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("ucsm: malformed %s response: %w", method, err)
	}
	if err := generic.err(method); err != nil {
		return err
	}
	if generic.XMLName.Local != method {
		return fmt.Errorf("ucsm: unexpected response element %q to %s", generic.XMLName.Local, method)
	}

	if err := xml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("ucsm: malformed %s response: %w", method, err)
	}
	return nil
}
