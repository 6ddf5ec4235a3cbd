package models

import "strings"

// ErrorCode is the caller-visible error taxonomy.
type ErrorCode string

const (
	ErrCodeNetworkTimeout ErrorCode = "network_timeout"
	ErrCodeBlocked        ErrorCode = "blocked_by_service"
	ErrCodeToolNotFound   ErrorCode = "tool_not_found"
	ErrCodeInvalidURL     ErrorCode = "invalid_url"
	ErrCodeUnsupportedURL ErrorCode = "unsupported_url"
	ErrCodeNetwork        ErrorCode = "network_error"
	ErrCodeParse          ErrorCode = "parse_error"
	ErrCodeExecution      ErrorCode = "execution_error"
	ErrCodeDrm            ErrorCode = "drm_protected"
	ErrCodeMembersOnly    ErrorCode = "members_only"
	ErrCodeUnknown        ErrorCode = "unknown"
)

// ClassifiedError is a failure enriched with a taxonomy code, remediation
// advice and truncated raw tool output.
type ClassifiedError struct {
	Code    ErrorCode
	Message string
	Advice  string
	Detail  string
	Err     error
}

func (e *ClassifiedError) Error() string {
	var b strings.Builder
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(string(e.Code))
	}
	if e.Advice != "" {
		b.WriteString("\n\n")
		b.WriteString(e.Advice)
	}
	if e.Detail != "" {
		b.WriteString("\n\nDetails: ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}
