// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package errutil holds helpers for logging and asserting oops errors.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err at error level. For oops errors the code, domain and
// context are logged as separate attributes. attrs are appended as-is.
func LogError(logger *slog.Logger, msg string, err error, attrs ...any) {
	if logger == nil {
		logger = slog.Default()
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Error(msg, append([]any{"error", err}, attrs...)...)
		return
	}

	fields := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != nil && code != "" {
		fields = append(fields, "code", code)
	}
	if domain := oopsErr.Domain(); domain != "" {
		fields = append(fields, "domain", domain)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		fields = append(fields, "context", ctx)
	}
	logger.Error(msg, append(fields, attrs...)...)
}

// Code returns the oops code of err as a string, or "" when err carries none.
func Code(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code, _ := oopsErr.Code().(string)
	return code
}
