// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - Auth: API key validation protecting the ledger endpoints.
//   - RayID: a unique Request ID (RayID) per request, stored in the context
//     and echoed in the response headers for tracing debit/credit calls.
package middleware
