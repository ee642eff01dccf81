// Package handler is the first layer after the router.
//
// It binds request bodies, hands the decoded payload to the service layer
// and writes the response. Failures are returned as errors and rendered by
// the global error handler.
package handler
