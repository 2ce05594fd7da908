// Package fs stores received artifacts on the local filesystem.
package fs
