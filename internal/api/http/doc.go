// Package http exposes the workspace manager as a JSON API on gin.
//
// Domain failures map to status codes by kind: validation 400, not found
// 404, conflict 409, capacity 507 and I/O 500. Error bodies carry
// "error", "kind", "op" and "path".
package http
