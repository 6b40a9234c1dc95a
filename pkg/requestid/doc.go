// Package requestid tags every request with a correlation id.
//
// Middleware keeps a client-supplied X-Request-ID when it is short and made of
// [a-zA-Z0-9_-], otherwise it generates a UUID. The id is stored in the
// request context, echoed in the response header and attached to log records
// through LoggerExtractor. The request timing log and the revision recorder
// both read it with FromContext.
package requestid
