// Package server exposes the library service over a JSON HTTP API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order so the first added runs
// outermost. [NewRouter] installs [RequestID], [Logger], [Recover], [CORS]
// and [RateLimit] in that order.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns
// ("GET /api/songs/{id}"), so unmatched methods get 405 from the mux.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib
// handler interface and adds routes. [LibraryHandler] registers every API
// pattern and dispatches on [http.Request.Pattern].
//
// # Errors
//
// Every failure body is {"message": "..."}. Malformed ids and bodies are 400,
// lookups wrapping [shared.ErrNotFound] are 404, validation failures wrapping
// [shared.ErrInvalidInput] are 400, and anything else is logged and returned
// as 500. Mutations that return nothing respond 204 and creates respond 201.
//
// # Lifecycle
//
// [Server.Run] serves until its context is cancelled, then shuts down
// gracefully within [ShutdownTimeout].
package server
