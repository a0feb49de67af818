package utils

import "context"

type contextKey string

const (
	SubjectKey contextKey = "subject"
)

// SetSubjectContext stores the authenticated token subject (called by middleware).
func SetSubjectContext(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, SubjectKey, subject)
}

// GetSubjectFromContext retrieves the token subject safely.
func GetSubjectFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(SubjectKey).(string)
	return sub, ok && sub != ""
}
