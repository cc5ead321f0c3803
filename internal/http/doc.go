// Package http exposes the site content and the contact form as a JSON API.
//
// Routes mount under /api by default:
//   - Views: /home, /about
//   - Pages: /pages/{key}, /cv
//   - Posts: /posts (optional ?tag=), /posts/{slug} and the short form /{slug}
//   - Contact: POST /contact
//
// Handler additionally serves /healthz, /metrics when a metrics handler is
// configured and /static/ when a static directory is set, wrapped in request
// id, access log, canonical host, CORS and recovery middleware.
//
// Host applications can register the API routes on their own mux as needed.
package http
