// Package projects aggregates project records for the organization views.
package projects

import (
	"context"
	"fmt"

	"github.com/fystack/appstate/pkg/common/constant"
	"github.com/fystack/appstate/pkg/model"
	"github.com/fystack/appstate/pkg/repository"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

type ProjectFinder interface {
	Find(ctx context.Context, options repository.FindOptions) ([]*model.Project, error)
}

type WorkspaceCounter interface {
	Count(ctx context.Context, options repository.FindOptions) (int64, error)
}

// UntrackedProject is a project whose parent organization is unknown to the
// user, with the number of workspaces it holds.
type UntrackedProject struct {
	model.Project
	WorkspacesCount int64 `json:"workspacesCount"`
}

type Loader struct {
	projects    ProjectFinder
	workspaces  WorkspaceCounter
	concurrency int
}

func NewLoader(projects ProjectFinder, workspaces WorkspaceCounter) *Loader {
	return &Loader{
		projects:    projects,
		workspaces:  workspaces,
		concurrency: defaultConcurrency,
	}
}

// KnownOrganizations returns organizationIDs plus the scratchpad
// organization, without blanks or duplicates.
func KnownOrganizations(organizationIDs []string) []string {
	return lo.Uniq(append(lo.Compact(organizationIDs), constant.ScratchpadOrganizationID))
}

// Untracked returns every project not parented by one of organizationIDs
// (or the scratchpad), in the order the record store returns them.
func (l *Loader) Untracked(ctx context.Context, organizationIDs []string) ([]UntrackedProject, error) {
	known := KnownOrganizations(organizationIDs)

	projects, err := l.projects.Find(ctx, repository.FindOptions{
		WhereNot: repository.WhereType{"parent_id": known},
		Order:    repository.Order{"created_at": repository.OrderTypeAsc},
	})
	if err != nil {
		return nil, fmt.Errorf("find untracked projects: %w", err)
	}

	result := make([]UntrackedProject, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, project := range projects {
		g.Go(func() error {
			count, err := l.workspaces.Count(gctx, repository.FindOptions{
				Where: repository.WhereType{"parent_id": project.ID},
			})
			if err != nil {
				return fmt.Errorf("count workspaces of %s: %w", project.ID, err)
			}
			result[i] = UntrackedProject{Project: *project, WorkspacesCount: count}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
