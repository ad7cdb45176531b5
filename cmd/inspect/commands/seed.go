package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/inspect-backend/internal/app"
	"github.com/yungbote/inspect-backend/internal/platform/ctxutil"
	"github.com/yungbote/inspect-backend/internal/services"
)

// Fixtures is the seed file layout. Keys are file-local names used to
// wire evidence and children; they are never stored.
type Fixtures struct {
	Users []FixtureUser `yaml:"users"`
}

type FixtureUser struct {
	Username string           `yaml:"username"`
	Email    string           `yaml:"email"`
	Links    []FixtureLink    `yaml:"links"`
	Insights []FixtureInsight `yaml:"insights"`
	Children []FixtureEdge    `yaml:"children"`
}

type FixtureLink struct {
	Key   string `yaml:"key"`
	URL   string `yaml:"url"`
	Title string `yaml:"title"`
}

type FixtureInsight struct {
	Key      string   `yaml:"key"`
	Title    string   `yaml:"title"`
	Public   bool     `yaml:"public"`
	Evidence []string `yaml:"evidence"`
	Comments []string `yaml:"comments"`
}

type FixtureEdge struct {
	Parent string `yaml:"parent"`
	Child  string `yaml:"child"`
}

type SeedReport struct {
	Users    int
	Links    int
	Insights int
	Evidence int
	Children int
	Comments int
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, links and insights from a YAML fixture file",
		Long: `Load fixtures through the same services the API uses, so every
ownership and cycle rule applies. Example:

  users:
    - username: ada
      email: ada@example.com
      links:
        - {key: go, url: https://go.dev/doc, title: Go docs}
      insights:
        - {key: root, title: Types matter, public: true, evidence: [go]}
        - {key: leaf, title: Interfaces are small}
      children:
        - {parent: root, child: leaf}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fx, err := readFixtures(file)
			if err != nil {
				return err
			}
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			rep, err := seedFixtures(cmd.Context(), a, fx)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), rep)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "fixture YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readFixtures(path string) (Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("read fixtures: %w", err)
	}
	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return Fixtures{}, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	return fx, nil
}

func seedFixtures(ctx context.Context, a *app.App, fx Fixtures) (SeedReport, error) {
	var rep SeedReport
	for _, fu := range fx.Users {
		u, err := a.Services.User.Create(ctx, fu.Username, fu.Email)
		if err != nil {
			return rep, fmt.Errorf("user %q: %w", fu.Username, err)
		}
		rep.Users++
		uctx := ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: u.ID})

		links := map[string]uint64{}
		for _, fl := range fu.Links {
			l, err := a.Services.Link.Create(uctx, fl.URL, fl.Title)
			if err != nil {
				return rep, fmt.Errorf("link %q: %w", fl.URL, err)
			}
			if fl.Key != "" {
				links[fl.Key] = l.ID
			}
			rep.Links++
		}

		insights := map[string]uint64{}
		for _, fi := range fu.Insights {
			in, err := a.Services.Insight.Create(uctx, fi.Title, fi.Public)
			if err != nil {
				return rep, fmt.Errorf("insight %q: %w", fi.Title, err)
			}
			rep.Insights++
			if fi.Key != "" {
				insights[fi.Key] = in.ID
			}

			rows := make([]services.EvidenceInput, 0, len(fi.Evidence))
			for _, key := range fi.Evidence {
				id, ok := links[key]
				if !ok {
					return rep, fmt.Errorf("insight %q: unknown link key %q", fi.Title, key)
				}
				rows = append(rows, services.EvidenceInput{InsightID: in.ID, SummaryID: id})
			}
			if len(rows) > 0 {
				created, err := a.Services.Evidence.Create(uctx, rows)
				if err != nil {
					return rep, fmt.Errorf("insight %q evidence: %w", fi.Title, err)
				}
				rep.Evidence += len(created)
			}

			for _, body := range fi.Comments {
				id := in.ID
				if _, err := a.Services.Comment.Create(uctx, services.CommentInput{Comment: body, InsightID: &id}); err != nil {
					return rep, fmt.Errorf("insight %q comment: %w", fi.Title, err)
				}
				rep.Comments++
			}
		}

		if len(fu.Children) > 0 {
			edges := make([]services.InsightLinkInput, 0, len(fu.Children))
			for _, e := range fu.Children {
				parent, ok := insights[e.Parent]
				if !ok {
					return rep, fmt.Errorf("children: unknown insight key %q", e.Parent)
				}
				child, ok := insights[e.Child]
				if !ok {
					return rep, fmt.Errorf("children: unknown insight key %q", e.Child)
				}
				edges = append(edges, services.InsightLinkInput{ParentID: parent, ChildID: child})
			}
			created, err := a.Services.InsightLink.Create(uctx, edges)
			if err != nil {
				return rep, fmt.Errorf("user %q children: %w", fu.Username, err)
			}
			rep.Children += len(created)
		}
	}
	return rep, nil
}

func printReport(w io.Writer, rep SeedReport) {
	fmt.Fprintf(w, "seeded %d users, %d links, %d insights, %d evidence, %d children, %d comments\n",
		rep.Users, rep.Links, rep.Insights, rep.Evidence, rep.Children, rep.Comments)
}
