package media

import (
	"context"
	"errors"
	"testing"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-unicms/pkg/interfaces"
)

func TestPrefixResolver(t *testing.T) {
	cases := []struct {
		name   string
		base   string
		prefix string
		path   string
		want   string
	}{
		{name: "relative default prefix", path: "documents/charter.pdf", want: "/media/documents/charter.pdf"},
		{name: "base url", base: "https://api.example.kg/", prefix: "uploads", path: "/img/logo.png", want: "https://api.example.kg/uploads/img/logo.png"},
		{name: "escapes segments", path: "docs/план 2024.pdf", want: "/media/docs/%D0%BF%D0%BB%D0%B0%D0%BD%202024.pdf"},
		{name: "absolute passthrough", base: "https://api.example.kg", path: "https://cdn.example.kg/a.png", want: "https://cdn.example.kg/a.png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewPrefixResolver(tc.base, tc.prefix).ResolveURL(context.Background(), interfaces.MediaReference{Path: tc.path})
			if err != nil {
				t.Fatalf("ResolveURL: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPrefixResolverEmptyPath(t *testing.T) {
	_, err := NewPrefixResolver("", "").ResolveURL(context.Background(), interfaces.MediaReference{Path: "  "})
	if !errors.Is(err, ErrEmptyReference) {
		t.Fatalf("expected ErrEmptyReference, got %v", err)
	}
}

func TestURLKitResolver(t *testing.T) {
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "public",
				BaseURL: "https://example.com",
				Paths: map[string]string{
					"file": "/media/:path",
				},
			},
		},
	})

	resolver := NewURLKitResolver(URLKitOptions{Manager: manager, Group: "public"})
	got, err := resolver.ResolveURL(context.Background(), interfaces.MediaReference{Path: "charter.pdf"})
	if err != nil {
		t.Fatalf("ResolveURL: %v", err)
	}
	if got != "https://example.com/media/charter.pdf" {
		t.Fatalf("unexpected url %q", got)
	}

	missing := NewURLKitResolver(URLKitOptions{Manager: manager, Group: "public.cdn"})
	if _, err := missing.ResolveURL(context.Background(), interfaces.MediaReference{Path: "charter.pdf"}); !errors.Is(err, ErrRouteUnavailable) {
		t.Fatalf("expected ErrRouteUnavailable, got %v", err)
	}

	unconfigured := NewURLKitResolver(URLKitOptions{})
	if _, err := unconfigured.ResolveURL(context.Background(), interfaces.MediaReference{Path: "a.pdf"}); !errors.Is(err, ErrRouteUnavailable) {
		t.Fatalf("expected ErrRouteUnavailable without manager, got %v", err)
	}
}
