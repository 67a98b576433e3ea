// Package logkey centralizes the attribute keys used in structured logs so
// log queries stay consistent across packages.
package logkey

const (
	TraceID = "trace_id"
	ERROR   = "error"
	UserID  = "user_id"
	OrderID = "order_id"
)
