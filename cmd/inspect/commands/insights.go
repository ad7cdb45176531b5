package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yungbote/inspect-backend/internal/client"
	types "github.com/yungbote/inspect-backend/internal/domain"
)

var insightHeader = []string{"ID", "UID", "TITLE", "PUBLIC", "UPDATED"}

func insightRows(rows []*types.Insight) func() [][]string {
	return func() [][]string {
		out := make([][]string, 0, len(rows))
		for _, in := range rows {
			if in == nil {
				continue
			}
			out = append(out, []string{
				uitoa(in.ID),
				in.UID,
				in.Title,
				strconv.FormatBool(in.IsPublic),
				in.UpdatedAt.Format("2006-01-02 15:04"),
			})
		}
		return out
	}
}

func newInsightsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Browse insights on a running server",
	}
	cmd.AddCommand(newInsightsListCmd(opts), newInsightsShowCmd(opts), newInsightsCandidatesCmd(opts))
	return cmd
}

func newInsightsListCmd(opts *rootOptions) *cobra.Command {
	var p client.ListInsightsParams
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your insights, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := opts.apiClient().ListInsights(cmd.Context(), p)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), opts.output, rows, insightHeader, insightRows(rows))
		},
	}
	cmd.Flags().StringVarP(&p.Query, "query", "q", "", "title substring")
	cmd.Flags().IntVar(&p.Offset, "offset", 0, "rows to skip")
	cmd.Flags().IntVar(&p.Limit, "limit", 20, "page size")
	cmd.Flags().BoolVar(&p.Parents, "parents", false, "include parents")
	cmd.Flags().BoolVar(&p.Children, "children", false, "include children")
	cmd.Flags().BoolVar(&p.Evidence, "evidence", false, "include evidence")
	return cmd
}

func newInsightsShowCmd(opts *rootOptions) *cobra.Command {
	var p client.GetInsightParams
	cmd := &cobra.Command{
		Use:   "show <uid>",
		Short: "Show one insight with its relations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opts.apiClient().GetInsight(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			header := []string{"ID", "UID", "TITLE", "PUBLIC", "PARENTS", "CHILDREN", "EVIDENCE", "DIRECT", "TOTAL"}
			return printValue(cmd.OutOrStdout(), opts.output, in, header, func() [][]string {
				return [][]string{{
					uitoa(in.ID),
					in.UID,
					in.Title,
					strconv.FormatBool(in.IsPublic),
					strconv.Itoa(len(in.Parents)),
					strconv.Itoa(len(in.Children)),
					strconv.Itoa(len(in.Evidence)),
					count(in.DirectEvidenceCount),
					count(in.TotalEvidenceCount),
				}}
			})
		},
	}
	cmd.Flags().IntVar(&p.Offset, "offset", 0, "evidence rows to skip")
	cmd.Flags().IntVar(&p.Limit, "limit", 20, "evidence page size")
	cmd.Flags().BoolVar(&p.NestedEvidenceTotals, "nested", false, "count evidence through descendants")
	return cmd
}

func newInsightsCandidatesCmd(opts *rootOptions) *cobra.Command {
	var (
		query         string
		offset, limit int
	)
	cmd := &cobra.Command{
		Use:   "candidates <uid>",
		Short: "List insights that can be linked to <uid> without a cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := opts.apiClient().Candidates(cmd.Context(), args[0], query, offset, limit)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), opts.output, rows, insightHeader, insightRows(rows))
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "title substring")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	return cmd
}
