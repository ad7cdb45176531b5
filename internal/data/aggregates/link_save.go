package aggregates

import (
	"context"
	"strings"

	"github.com/yungbote/inspect-backend/internal/data/repos"
	types "github.com/yungbote/inspect-backend/internal/domain"
	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
)

type SaveLinkInput struct {
	UserID  uint64
	URL     string
	Title   string
	BaseURL string
	LogoURI string
	// SourceID skips source resolution when the caller already holds the row.
	SourceID uint64
}

// LinkSave writes a link together with its source so a new domain never
// leaves a source row without the link that introduced it.
type LinkSave interface {
	domainagg.Aggregate
	SaveLink(ctx context.Context, in SaveLinkInput) (*types.Link, error)
}

type LinkSaveDeps struct {
	BaseDeps
	Links   repos.LinkRepo
	Sources repos.SourceRepo
}

type linkSave struct {
	deps LinkSaveDeps
}

func NewLinkSave(deps LinkSaveDeps) LinkSave {
	return &linkSave{deps: deps}
}

func (a *linkSave) Contract() domainagg.Contract { return domainagg.LinkSaveContract }

func (a *linkSave) SaveLink(ctx context.Context, in SaveLinkInput) (*types.Link, error) {
	const op = "link_save.save_link"
	if in.UserID == 0 {
		return nil, domainagg.Unauthorized(op)
	}
	in.URL = strings.TrimSpace(in.URL)
	if in.URL == "" {
		return nil, domainagg.Validation(op, "url is required")
	}
	in.BaseURL = strings.TrimSpace(in.BaseURL)
	if in.SourceID == 0 && in.BaseURL == "" {
		return nil, domainagg.Validation(op, "base url is required")
	}

	var out *types.Link
	err := executeWrite(ctx, a.deps.BaseDeps, op, func(dbc dbctx.Context) error {
		row := &types.Link{
			UserID: in.UserID,
			URL:    in.URL,
			Title:  strings.TrimSpace(in.Title),
		}
		var src *types.Source
		if in.SourceID != 0 {
			rows, err := a.deps.Sources.GetByIDs(dbc, []uint64{in.SourceID})
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return domainagg.PreconditionFailed(op, "invalid source_id")
			}
			src = rows[0]
		} else {
			var err error
			src, err = a.deps.Sources.FirstOrCreate(dbc, &types.Source{BaseURL: in.BaseURL, LogoURI: in.LogoURI})
			if err != nil {
				return err
			}
		}
		row.SourceID = &src.ID
		created, err := a.deps.Links.Create(dbc, []*types.Link{row})
		if err != nil {
			return err
		}
		out = created[0]
		out.Source = src
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
