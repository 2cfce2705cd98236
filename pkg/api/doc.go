// Package api holds the pieces shared by the broker's HTTP handlers and
// middleware: JSON body decoding with size limits, JSON responses, and the
// mapping from failures to status codes and error bodies.
//
// Every error body has the form
//
//	{"error": "<title>", "message": "<detail>"}
//
// with supported_providers added for unknown provider ids, and detail used
// in place of message when an upstream could not be reached.
package api
