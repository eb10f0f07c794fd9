// Package api provides the HTTP handlers for the sprint progression API:
// enrollment lifecycle, day progression, dialogue retrieval, and display
// preferences. Handlers translate service errors into sanitized HTTP
// responses; a locked day is answered with a redirect to the current
// accessible day.
package api
