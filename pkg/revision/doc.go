// Package revision keeps a history of changed objects, one revision per
// successful request.
//
// Middleware opens a collector for every request. Services call Record after
// each save; when the response status is below 400 the collected versions
// are written to the Store as a single Revision tagged with the request id
// and the shop the changes belonged to.
package revision
