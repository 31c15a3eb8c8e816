package proxy

import (
	"fmt"
	"net/url"
)

// Settings contains the outbound proxy used for store API calls.
type Settings struct {
	Enabled  bool
	Hostname string
	Port     int
	Username string
	Password string
}

// HasProxy returns true if proxy is enabled and configured.
func (p Settings) HasProxy() bool {
	return p.Enabled && p.Hostname != "" && p.Port > 0
}

// HostPort returns the proxy host:port string (e.g., "http://proxy.local:3128").
func (p Settings) HostPort() string {
	if !p.HasProxy() {
		return ""
	}
	return fmt.Sprintf("http://%s:%d", p.Hostname, p.Port)
}

// FullURL returns the full proxy URL with credentials.
func (p Settings) FullURL() string {
	if !p.HasProxy() {
		return ""
	}
	if p.Username != "" && p.Password != "" {
		return fmt.Sprintf("http://%s@%s:%d", url.UserPassword(p.Username, p.Password).String(), p.Hostname, p.Port)
	}
	return p.HostPort()
}

// URL parses FullURL for use as http.Transport.Proxy. It returns nil when no proxy is set.
func (p Settings) URL() (*url.URL, error) {
	if !p.HasProxy() {
		return nil, nil
	}
	u, err := url.Parse(p.FullURL())
	if err != nil {
		return nil, fmt.Errorf("invalid proxy settings: %w", err)
	}
	return u, nil
}
