package errors

import (
	"time"
)

// Feedback is what the presentation layer shows for a rejected operation.
type Feedback struct {
	Code     ErrorCode         `json:"code"`
	Category string            `json:"category"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// ErrorHandler turns wizard errors into user feedback and logs them.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle normalizes err and returns the feedback to render. It returns nil
// for a nil error.
func (h *ErrorHandler) Handle(operation string, err error) *Feedback {
	if err == nil {
		return nil
	}

	stdErr := h.normalizeError(err)
	fb := &Feedback{
		Code:     stdErr.Code,
		Category: GetErrorCategory(stdErr.Code),
		Message:  stdErr.Message,
	}
	if len(stdErr.Fields) > 0 {
		fb.Fields = make(map[string]string, len(stdErr.Fields))
		for _, f := range stdErr.Fields {
			// First message per field wins; the rest are usually consequences.
			if _, seen := fb.Fields[f.Field]; !seen {
				fb.Fields[f.Field] = f.Message
			}
		}
	}

	h.logError(operation, stdErr)
	return fb
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

func (h *ErrorHandler) logError(operation string, stdErr *StandardError) {
	if h.logger == nil {
		return
	}
	fields := map[string]interface{}{
		"operation": operation,
		"errorCode": string(stdErr.Code),
		"category":  GetErrorCategory(stdErr.Code),
		"message":   stdErr.Message,
	}
	if stdErr.Details != "" {
		fields["details"] = stdErr.Details
	}
	if len(stdErr.Fields) > 0 {
		fields["fieldErrors"] = len(stdErr.Fields)
	}

	// Rejections are expected user-driven outcomes; only unknown errors are
	// logged at error level.
	if GetErrorCategory(stdErr.Code) == "OTHER" {
		h.logger.Error("operation failed", fields)
		return
	}
	h.logger.Warn("operation rejected", fields)
}
