// Package http provides the read-only public API over net/http.
//
// Routes mount under a base path (default /api):
//   - Languages: /languages
//   - Collections: /{entity}, /{entity}/{id}
//   - Composite pages: /pages/bachelor-quotas, /pages/college
//
// Entity names accept hyphens or underscores (organization-structure).
// Every route honours ?lang=ru|en|kg; ky is accepted for kg.
//
// Host applications can register handlers on their own mux/router as needed.
package http
