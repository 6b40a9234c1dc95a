// Package reqtiming logs a debug line when a request enters the pipeline and
// another when its response leaves, tagged with the request correlation id,
// a pass counter and the elapsed time. Redirects log their target and other
// responses their body size.
package reqtiming
