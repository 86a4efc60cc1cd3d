// Package http provides HTTP handlers and middleware for the shift exchange
// API.
//
// The router exposes the following endpoints:
//   - POST /shifts, GET /shifts, GET /shifts/{id}: shift intake and queries
//     exchanging the `shiftDTO` payload defined in shift_handler.go. Listing
//     accepts employee_id, role, starts_after and starts_before query
//     parameters; without an explicit window only upcoming shifts are
//     returned.
//   - GET /open-shifts: shifts available for pickup, same payload and query
//     parameters as GET /shifts.
//   - POST /employees: registers a directory entry used for role eligibility
//     checks.
//   - POST /coverage-requests: opens a coverage request for a shift the caller
//     holds.
//   - POST /trade-offers, POST /trade-offers/{id}/approve,
//     POST /trade-offers/{id}/deny: trade negotiation. Approval acts on the
//     caller's dimension (employee or manager, from the X-Manager header);
//     when the second dimension approves, the shift swap executes atomically
//     and the offer is consumed. Deny removes the offer.
//   - POST /pickup-offers, POST /pickup-offers/{id}/approve,
//     POST /pickup-offers/{id}/deny: pickup negotiation. A single manager
//     decision resolves an offer; acting on a decided offer yields 409.
//   - GET /healthz: liveness probe, exempt from the principal requirement.
//
// Caller identity arrives via the X-Employee-Id and X-Manager headers set by
// the fronting gateway. Request/response DTOs live alongside their respective
// handlers so tests and documentation share the same ground truth.
package http
