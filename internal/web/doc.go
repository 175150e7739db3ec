// Package web is the HTTP surface of the storefront. It exposes the session
// state as JSON and as a live datastar signal stream, plus the sign-in,
// catalog, cart and administration endpoints.
//
// Every JSON body follows one shape:
//
//	{"data": ...}
//	{"error": {"code": "wrong_password", "message": "Incorrect password"}}
package web
