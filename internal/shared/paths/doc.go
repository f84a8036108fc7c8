// Package paths describes the on-disk layout of a workspace.
//
// Managed names are slash-separated paths relative to the workspace root.
// The manifest file and the recycle holding directory sit inside the same
// root and are reserved: no managed entry may shadow them.
package paths
