// Package http provides HTTP handlers and middleware for the maintenance
// tracker API.
//
// The router exposes the following endpoints:
//   - POST /signup: registers an account. Body: {"email","display_name","password"}.
//   - POST /sessions: issues a session token. Body: {"email","password"}. The token
//     is returned in the response body, the `X-Session-Token` header, and a
//     `session_token` cookie.
//   - DELETE /sessions/current: revokes the current session token and clears the
//     cookie. Returns 204 No Content.
//   - GET /offices, GET /offices/{id}: the immutable office catalog exchanging the
//     `officeDTO` payload defined in office_handler.go.
//   - GET /events: the full calendar; with `?date=YYYY-MM-DD` the single event on
//     that day (404 when the day is free).
//   - POST /events/assignments: records a maintenance visit. Body:
//     {"date","office_id"}; omitted fields fall back to the stored selection.
//     Unresolvable input is ignored and answered with 204 No Content.
//   - GET /events/{id}/offices: the offices covered by an event, in catalog order.
//   - GET /summary/weeks: Sunday-starting weekly pay totals.
//   - GET /selection, PUT /selection, POST /selection/summary/toggle: the pending
//     calendar inputs exchanged as the `selectionDTO` payload defined in
//     calendar_handler.go.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
