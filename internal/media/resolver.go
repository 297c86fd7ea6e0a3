package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-unicms/pkg/interfaces"
)

var (
	// ErrEmptyReference reports a file field without a stored path.
	ErrEmptyReference = errors.New("media: empty file reference")
	// ErrRouteUnavailable reports a missing urlkit group or route.
	ErrRouteUnavailable = errors.New("media: route unavailable")
)

// DefaultPrefix is the path files are served under when nothing else is
// configured.
const DefaultPrefix = "/media/"

// PrefixResolver joins stored paths onto a base URL and prefix. Paths that
// are already absolute URLs are returned unchanged.
type PrefixResolver struct {
	base   string
	prefix string
}

// NewPrefixResolver returns a resolver for baseURL (may be empty for host
// relative URLs) and prefix.
func NewPrefixResolver(baseURL, prefix string) *PrefixResolver {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &PrefixResolver{
		base:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		prefix: prefix,
	}
}

func (r *PrefixResolver) ResolveURL(_ context.Context, ref interfaces.MediaReference) (string, error) {
	path := strings.TrimSpace(ref.Path)
	if path == "" {
		return "", ErrEmptyReference
	}
	if isAbsolute(path) {
		return path, nil
	}
	return r.base + r.prefix + escapePath(strings.TrimLeft(path, "/")), nil
}

// URLKitOptions configures URLKitResolver.
type URLKitOptions struct {
	Manager *urlkit.RouteManager
	// Group is a dot separated group path, for example "public.media".
	Group string
	Route string
	// Param receives the stored file path.
	Param string
}

// URLKitResolver builds file URLs from a go-urlkit route such as
// "/media/:path".
type URLKitResolver struct {
	manager *urlkit.RouteManager
	group   string
	route   string
	param   string

	mu     sync.RWMutex
	groups map[string]*urlkit.Group
}

func NewURLKitResolver(opts URLKitOptions) *URLKitResolver {
	if strings.TrimSpace(opts.Route) == "" {
		opts.Route = "file"
	}
	if strings.TrimSpace(opts.Param) == "" {
		opts.Param = "path"
	}
	return &URLKitResolver{
		manager: opts.Manager,
		group:   strings.TrimSpace(opts.Group),
		route:   strings.TrimSpace(opts.Route),
		param:   strings.TrimSpace(opts.Param),
		groups:  map[string]*urlkit.Group{},
	}
}

func (r *URLKitResolver) ResolveURL(_ context.Context, ref interfaces.MediaReference) (string, error) {
	path := strings.TrimSpace(ref.Path)
	if path == "" {
		return "", ErrEmptyReference
	}
	if isAbsolute(path) {
		return path, nil
	}
	group, err := r.lookup()
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, r.route)
	if err != nil {
		return "", err
	}
	builder.WithParam(r.param, strings.TrimLeft(path, "/"))
	return builder.Build()
}

func (r *URLKitResolver) lookup() (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groups[r.group]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}
	if r.manager == nil || r.group == "" {
		return nil, fmt.Errorf("%w: route manager not configured", ErrRouteUnavailable)
	}

	parts := strings.Split(r.group, ".")
	group, err := rootGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		if group, err = childGroup(group, part); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groups[r.group] = group
	r.mu.Unlock()
	return group, nil
}

// go-urlkit panics on unknown names; the helpers below turn that into an
// error.

func rootGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("%w: group %q", ErrRouteUnavailable, name)
		}
	}()
	return manager.Group(name), nil
}

func childGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("%w: group %q", ErrRouteUnavailable, name)
		}
	}()
	return parent.Group(name), nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			builder, err = nil, fmt.Errorf("%w: route %q", ErrRouteUnavailable, route)
		}
	}()
	return group.Builder(route), nil
}

func isAbsolute(path string) bool {
	u, err := url.Parse(path)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
