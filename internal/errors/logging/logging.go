// Package logging turns AppErrors into structured log fields.
package logging

import (
	"context"

	apperrors "CWU/internal/errors"
	"CWU/internal/logger"
)

// promotedKeys are the metadata entries the fetcher, rotator and preparer attach,
// in the order they are rendered.
var promotedKeys = []string{"url", "path", "backup", "status"}

// Error logs msg at error level with the fields of appErr.
func Error(ctx context.Context, log logger.Logger, msg string, appErr *apperrors.AppError) {
	if log == nil {
		return
	}
	log.ErrorContext(ctx, msg, Fields(appErr)...)
}

// Debug logs msg at debug level with the fields of appErr followed by extra.
func Debug(ctx context.Context, log logger.Logger, msg string, appErr *apperrors.AppError, extra ...logger.Field) {
	if log == nil {
		return
	}
	log.DebugContext(ctx, msg, append(Fields(appErr), extra...)...)
}

// Fields flattens appErr into code, category, origin and cause, then any promoted
// metadata. Other metadata keys are not rendered.
func Fields(appErr *apperrors.AppError) []logger.Field {
	if appErr == nil {
		return nil
	}

	fields := []logger.Field{
		logger.String("code", appErr.Code),
		logger.String("category", string(appErr.Category)),
	}
	if origin := appErr.Origin(); origin != "" {
		fields = append(fields, logger.String("origin", origin))
	}
	fields = append(fields, logger.String("cause", appErr.Cause()))

	for _, key := range promotedKeys {
		if v, ok := appErr.Field(key); ok {
			fields = append(fields, logger.Any(key, v))
		}
	}
	return fields
}
