// Package logger wraps zap with a shared sugared logger, context helpers
// (ToContext/FromContext/WithKV) and level parsing.
//
// Library code takes a context and pulls the logger out of it, so callers
// decide where output goes and at which level.
package logger
