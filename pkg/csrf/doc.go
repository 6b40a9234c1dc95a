// Package csrf guards state-changing requests against cross-site forgery
// using the browser's Fetch Metadata and Origin headers. Disable switches the
// check off for the whole process, which is meant for local development
// against a UI served from another port.
package csrf
