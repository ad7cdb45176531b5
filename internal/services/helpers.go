package services

import (
	"context"

	"github.com/yungbote/inspect-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	"github.com/yungbote/inspect-backend/internal/platform/ctxutil"
)

// authUser is the getAuthUser collaborator: the caller's id or unauthorized.
func authUser(ctx context.Context, op string) (uint64, error) {
	id, ok := ctxutil.AuthUserID(ctx)
	if !ok {
		return 0, domainagg.Unauthorized(op)
	}
	return id, nil
}

// viewerID is the caller's id, or 0 for anonymous reads.
func viewerID(ctx context.Context) uint64 {
	id, _ := ctxutil.AuthUserID(ctx)
	return id
}

// storeErr classifies a repo error. Unnamed reference failures take
// fallback as their message.
func storeErr(op string, err error, fallback string) error {
	mapped := aggregates.MapError(op, err)
	if fallback != "" && aggregates.IsUnnamedReference(mapped) {
		return domainagg.NewError(domainagg.CodePreconditionFailed, op, fallback, err)
	}
	return mapped
}
