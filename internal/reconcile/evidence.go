package reconcile

import (
	"time"

	types "github.com/yungbote/inspect-backend/internal/domain"
)

// LiveSnippet is one evidence row flattened for list display.
type LiveSnippet struct {
	ID            uint64    `json:"id"`
	SummaryID     uint64    `json:"summary_id"`
	Title         string    `json:"title"`
	UID           string    `json:"uid"`
	UpdatedAt     time.Time `json:"updated_at"`
	SourceBaseURL string    `json:"source_baseurl"`
	LogoURI       string    `json:"logo_uri"`
}

// AddEvidence merges rows into list. A row whose id is already present
// replaces the old entry in place; new rows are appended in order.
func AddEvidence(list []*types.Evidence, rows []*types.Evidence) []*types.Evidence {
	out := make([]*types.Evidence, 0, len(list)+len(rows))
	index := make(map[uint64]int, len(list))
	for _, e := range list {
		if e == nil {
			continue
		}
		index[e.ID] = len(out)
		out = append(out, e)
	}
	for _, e := range rows {
		if e == nil {
			continue
		}
		if i, ok := index[e.ID]; ok {
			out[i] = e
			continue
		}
		index[e.ID] = len(out)
		out = append(out, e)
	}
	return out
}

func RemoveEvidence(list []*types.Evidence, ids []uint64) []*types.Evidence {
	drop := idSet(ids)
	return without(list, func(e *types.Evidence) bool {
		_, ok := drop[e.ID]
		return ok
	})
}

// LiveSnippetData projects evidence onto its summaries. Rows without a
// loaded summary are skipped.
func LiveSnippetData(evidence []*types.Evidence) []LiveSnippet {
	out := make([]LiveSnippet, 0, len(evidence))
	for _, e := range evidence {
		if e == nil || e.Summary == nil {
			continue
		}
		s := LiveSnippet{
			ID:        e.ID,
			SummaryID: e.SummaryID,
			Title:     e.Summary.Title,
			UID:       e.Summary.UID,
			UpdatedAt: e.Summary.UpdatedAt,
		}
		if src := e.Summary.Source; src != nil {
			s.SourceBaseURL = src.BaseURL
			s.LogoURI = src.LogoURI
		}
		out = append(out, s)
	}
	return out
}

func idSet(ids []uint64) map[uint64]struct{} {
	out := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
