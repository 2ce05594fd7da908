// Package log adapts logging libraries to ports.Logger.
package log
