package internal

import "context"

type ctxKey string

const ContextUserKey ctxKey = "userID"

// ContextWithUserID stores the authenticated user's id for the request.
// Handlers read it back to attribute grants, revocations and template
// applications to the acting user.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextUserKey, userID)
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if userID, ok := ctx.Value(ContextUserKey).(string); ok {
		return userID
	}
	return ""
}
