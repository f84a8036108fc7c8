// Package server assembles the workspace, its HTTP surface and metrics
// into one runnable server.
package server
