// Package requestid tags every HTTP request with a correlation id that is
// echoed in the X-Request-ID response header and attached to log records
// through LoggerExtractor.
package requestid
