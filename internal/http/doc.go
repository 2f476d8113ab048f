// Package http provides HTTP handlers and middleware for the workforce
// planner API.
//
// The router exposes the following endpoints:
//   - POST /login: issues a session token. Body: {"email","password"}. Response:
//     {"token","expires_at","operator"} with the token also surfaced via the
//     `X-Session-Token` header and a `session_token` cookie.
//   - POST /logout: revokes the current session token extracted from the
//     X-Session-Token header, the Authorization header or the session cookie.
//     Returns 204 No Content and clears the cookie.
//   - GET /services, POST /services, PUT /services/{id}, DELETE /services/{id}:
//     hotel service catalog endpoints exchanging the `serviceDTO` payload
//     defined in service_handler.go. Listing is available to any authenticated
//     operator while mutations require admin privileges.
//   - GET /employees, POST /employees, GET /employees/{id}, PUT /employees/{id},
//     DELETE /employees/{id}: roster endpoints exchanging the `employeeDTO`
//     payload defined in employee_handler.go.
//   - GET /housekeeping/rooms, PUT /housekeeping/rooms: room inventory
//     endpoints; the PUT replaces the whole inventory at once.
//   - GET /housekeeping/config, PUT /housekeeping/config: the singleton HR
//     staffing configuration.
//   - GET /housekeeping/capacity: the derived staffing report (minimum and
//     recommended headcount) for the current inventory and configuration.
//   - GET /leave, POST /leave, DELETE /leave/{id}: leave ledger endpoints;
//     listing accepts `employee_id` and `year` query filters.
//   - GET /leave/summary: per-employee, per-year compliance summary.
//   - GET /planning/schedules: the full derived planning snapshot.
//   - GET /planning/annual, GET /planning/alerts, GET /planning/applied:
//     narrower projections of the same snapshot plus the apply trace.
//   - POST /planning/editor, GET /planning/editor/{id},
//     PATCH /planning/editor/{id}, POST /planning/editor/{id}/apply: the
//     schedule editor lifecycle. Sessions are in-memory; only the apply
//     persists weekly totals.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
