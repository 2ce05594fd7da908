package ports

import "time"

// Logger provides structured logging for the core.
// The CLI plugs in a zerolog adapter; tests and embedders may pass a no-op.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is a key-value pair attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Uint64 creates a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Bool creates a bool field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Hex16 creates a field rendered as 0x%04x, used for USB ids and fingerprints.
func Hex16(key string, value uint16) Field { return Field{Key: key, Value: HexUint16(value)} }

// Err creates an error field with key "error".
func Err(err error) Field { return Field{Key: "error", Value: err} }

// HexUint16 marks a value that adapters print in hex.
type HexUint16 uint16
