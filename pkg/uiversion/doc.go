// Package uiversion exposes the version of the bundled web UI in the
// X-UI-Version response header, read from the UI's package.json.
package uiversion
