package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Bind URI defaults.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8080
)

// ErrNotListening is returned by Stop for an address with no server.
var ErrNotListening = errors.New("no server listening on address")

// ErrAlreadyListening is returned by Start for an address already served.
var ErrAlreadyListening = errors.New("address already served")

// ParseBindURI accepts "http://host:port", "host:port", ":port", "http://host"
// or "" and fills in DefaultHost and DefaultPort.
func ParseBindURI(uri string) (host string, port int, err error) {
	raw := strings.TrimSpace(uri)
	if raw == "" {
		return DefaultHost, DefaultPort, nil
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", 0, fmt.Errorf("parsing bind uri %q: %w", uri, err)
	}
	if u.Scheme != "http" {
		return "", 0, fmt.Errorf("bind uri %q: unsupported scheme %q", uri, u.Scheme)
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.User != nil {
		return "", 0, fmt.Errorf("bind uri %q: only scheme, host and port are allowed", uri)
	}

	host = u.Hostname()
	if host == "" {
		host = DefaultHost
	}
	port = DefaultPort
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port < 0 || port > 65535 {
			return "", 0, fmt.Errorf("bind uri %q: invalid port %q", uri, p)
		}
	}
	return host, port, nil
}

// bindKey canonicalises a bind URI to host:port.
func bindKey(uri string) (string, error) {
	host, port, err := ParseBindURI(uri)
	if err != nil {
		return "", err
	}
	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}

// Listeners tracks running servers by bind address. The zero value is not
// usable; call NewListeners.
type Listeners struct {
	mu      sync.Mutex
	servers map[string]*Server
}

// NewListeners returns an empty registry.
func NewListeners() *Listeners {
	return &Listeners{servers: make(map[string]*Server)}
}

// Start serves deps on uri. Host and port in deps.Config are replaced by
// the URI's. A URI with port 0 is registered under the address actually
// bound.
func (l *Listeners) Start(ctx context.Context, uri string, deps Deps) (*Server, error) {
	host, port, err := ParseBindURI(uri)
	if err != nil {
		return nil, err
	}
	key := net.JoinHostPort(host, strconv.Itoa(port))

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.servers[key]; ok {
		return nil, fmt.Errorf("%s: %w", key, ErrAlreadyListening)
	}

	deps.Config.Host, deps.Config.Port = host, port
	srv, err := New(deps)
	if err != nil {
		return nil, err
	}
	if err := srv.Start(ctx); err != nil {
		return nil, err
	}
	if port == 0 {
		key = srv.Addr()
	}
	l.servers[key] = srv
	return srv, nil
}

// Stop closes the server bound to uri.
func (l *Listeners) Stop(uri string) error {
	key, err := bindKey(uri)
	if err != nil {
		return err
	}

	l.mu.Lock()
	srv, ok := l.servers[key]
	delete(l.servers, key)
	l.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", key, ErrNotListening)
	}
	return srv.Close()
}

// StopAll closes every server concurrently and returns the first failure.
func (l *Listeners) StopAll() error {
	l.mu.Lock()
	servers := l.servers
	l.servers = make(map[string]*Server)
	l.mu.Unlock()

	var g errgroup.Group
	for key, srv := range servers {
		g.Go(func() error {
			if err := srv.Close(); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Addrs returns the registered addresses, sorted.
func (l *Listeners) Addrs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	addrs := make([]string, 0, len(l.servers))
	for key := range l.servers {
		addrs = append(addrs, key)
	}
	sort.Strings(addrs)
	return addrs
}
