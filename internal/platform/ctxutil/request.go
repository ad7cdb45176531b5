package ctxutil

import "context"

type requestDataKey struct{}

// RequestData is the authenticated caller attached by the auth middleware.
// A nil value (or UserID == 0) means the request is anonymous.
type RequestData struct {
	TokenString string
	UserID      uint64
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// AuthUserID returns the authenticated user id, or 0 and false for anonymous requests.
func AuthUserID(ctx context.Context) (uint64, bool) {
	rd := GetRequestData(ctx)
	if rd == nil || rd.UserID == 0 {
		return 0, false
	}
	return rd.UserID, true
}
