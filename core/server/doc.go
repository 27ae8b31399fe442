// Package server holds the HTTP server configuration.
//
// The start command owns the Fiber application; this package only defines
// the listen port, the API key protecting the ledger endpoints and the
// graceful shutdown budget.
package server
