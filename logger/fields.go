package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRequestID = "request_id"
	FieldTool      = "tool"

	// Components
	FieldComponent = "component"

	// Operations
	FieldOperation = "operation"
	FieldQuery     = "query"
	FieldCategory  = "category"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError     = "error"
	FieldErrorKind = "error_kind"

	// Counts and sizes
	FieldCount = "count"
	FieldSteps = "steps"
	FieldTopN  = "top_n"

	// Files and paths
	FieldFile   = "file"
	FieldSource = "source"

	// Dissolution-specific
	FieldStyle      = "style"      // Visual type or canonical state id
	FieldPreset     = "preset"     // Attractor or rhythmic preset id
	FieldMode       = "mode"       // Attractor composition mode
	FieldNearest    = "nearest"    // Nearest canonical state id
	FieldConfidence = "confidence" // Classification or decomposition confidence
	FieldDistance   = "distance"   // Euclidean distance in the parameter space
	FieldAccuracy   = "accuracy"   // Round-trip nearest-type accuracy
	FieldMeanError  = "mean_error" // Round-trip mean reconstruction error
)

// Context keys for propagating logging context
type contextKey string

const (
	requestIDKey contextKey = "logger_request_id"
	toolKey      contextKey = "logger_tool"
)

// WithRequestID adds a request ID to the context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithTool adds an MCP tool name to the context for logging
func WithTool(ctx context.Context, tool string) context.Context {
	return context.WithValue(ctx, toolKey, tool)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		fields = append(fields, FieldRequestID, requestID)
	}
	if tool, ok := ctx.Value(toolKey).(string); ok && tool != "" {
		fields = append(fields, FieldTool, tool)
	}

	return fields
}

// LoggerFromContext returns a logger with fields extracted from context.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Engine struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func New() *Engine {
//	    return &Engine{
//	        logger: logger.ComponentLogger("dissolution"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
