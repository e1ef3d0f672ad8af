// pkg/commitor_io/context.go

package commitor_io

import (
	"context"
	"os"
	"runtime"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/frkngnc/commitor/pkg/logger"
	"github.com/frkngnc/commitor/pkg/shared"
	"github.com/frkngnc/commitor/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type RuntimeContext struct {
	Ctx        context.Context
	Log        *zap.Logger
	Timestamp  time.Time
	Span       trace.Span
	Command    string
	Attributes map[string]string
}

// NewContext starts the command span and scopes the logger to it.
func NewContext(parent context.Context, cmdName string) *RuntimeContext {
	if parent == nil {
		parent = context.Background()
	}
	ctx, span := telemetry.Start(parent, cmdName)
	traceID := span.SpanContext().TraceID().String()

	log := logger.L().With(
		zap.String("command", cmdName),
		zap.String("trace_id", traceID),
	).Named(cmdName)

	return &RuntimeContext{
		Ctx:        ctx,
		Span:       span,
		Log:        log,
		Timestamp:  time.Now(),
		Command:    cmdName,
		Attributes: make(map[string]string),
	}
}

// HandlePanic recovers panics, logs them, and converts to an error.
func (rc *RuntimeContext) HandlePanic(errPtr *error) {
	if r := recover(); r != nil {
		*errPtr = cerr.AssertionFailedf("panic: %v", r)
		rc.Log.Error("panic recovered", zap.Any("panic", r))
	}
}

// End logs the outcome, annotates the command span, and flushes.
func (rc *RuntimeContext) End(errPtr *error) {
	defer rc.Span.End()

	var err error
	if errPtr != nil {
		err = *errPtr
	}
	duration := time.Since(rc.Timestamp)
	success := err == nil

	switch {
	case success:
		rc.Log.Debug("Command completed", zap.Duration("duration", duration))
	case commitor_err.IsExpectedUserError(err):
		rc.Log.Warn("Command stopped", zap.Duration("duration", duration), zap.Error(err))
	default:
		rc.Log.Error("Command failed", zap.Duration("duration", duration), zap.Error(err))
	}

	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
		attribute.Int64("duration_ms", duration.Milliseconds()),
		attribute.String("os", runtime.GOOS),
		attribute.String("version", shared.Version),
		attribute.String("error_type", classifyError(err)),
	}
	if len(os.Args) > 1 {
		attrs = append(attrs, attribute.String("args", strings.Join(redactArgs(os.Args[1:]), " ")))
	}
	for k, v := range rc.Attributes {
		attrs = append(attrs, attribute.String(k, v))
	}
	rc.Span.SetAttributes(attrs...)
	if !success {
		rc.Span.RecordError(err)
		rc.Span.SetStatus(codes.Error, err.Error())
	}

	shared.SafeSync()
}

func classifyError(err error) string {
	if err == nil {
		return ""
	}
	if commitor_err.IsExpectedUserError(err) {
		return "user"
	}
	if code := commitor_err.CodeOf(err); code != "" {
		return string(code)
	}
	return "system"
}

// redactArgs hides the value of `config set api_key <value>` from telemetry.
func redactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i+1 < len(out); i++ {
		if strings.EqualFold(out[i], "api_key") || strings.EqualFold(out[i], "api-key") {
			out[i+1] = "***"
		}
	}
	return out
}
