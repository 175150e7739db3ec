// Package admin implements the administration panel operations: dashboard
// figures, the user list and role changes. Every call first checks the
// session manager and fails with ErrUnauthenticated or ErrForbidden unless
// an administrator is signed in.
package admin
