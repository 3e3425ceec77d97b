// Package server provides HTTP routing, middleware, and the API handlers of the release tracker.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /api/image"), so several
// methods can share a path and unregistered methods answer 405.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Lists
//
// [ListHandler] serves the cookie-backed saved-items lists:
//   - GET /api/watchlist?type=video|board|movie and GET /api/bookshelf resolve the cookie's ids
//     against the matching catalog and respond {ids, games|movies|books}
//   - POST to the same paths takes {action: "add"|"remove", id, type?} and rewrites the cookie
//
// Upstream failures answer 500 with the ids and an empty entity list; errors are never cached.
//
// # Image Proxy
//
// [ImageProxy] fetches images from allow-listed hosts only. Redirects to other hosts are refused
// and rejected hosts are echoed back and logged.
//
// # Discovery
//
// /api/search, /api/bestsellers and /api/reviewed expose catalog search, NYT lists and OpenCritic's
// weekly reviews. The latter two are only mounted when their feature flag is on and the upstream
// has credentials.
package server
