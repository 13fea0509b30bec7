package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fystack/appstate/pkg/infra"
	"github.com/fystack/appstate/pkg/model"
	"github.com/fystack/appstate/pkg/projects"
	"github.com/fystack/appstate/pkg/repository"
	"github.com/samber/lo"
)

type UntrackedProjectsCmd struct {
	Org     []string      `help:"Known organization IDs. Defaults to every organization in the database." name:"org"`
	Timeout time.Duration `help:"Overall query timeout." default:"30s"`
}

func (c *UntrackedProjectsCmd) Run(g *Globals) error {
	cfg := setup(g)
	if cfg.Database.URL == "" {
		return errors.New("database.url (or APPSTATE_DATABASE_URL) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	db, err := infra.NewDBConnection(ctx, cfg.Database.URL, cfg.Environment)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	orgIDs := c.Org
	if len(orgIDs) == 0 {
		orgs, err := repository.NewRepository[model.Organization](db).Find(ctx, repository.FindOptions{
			Select: repository.Select("id"),
		})
		if err != nil {
			return fmt.Errorf("list organizations: %w", err)
		}
		orgIDs = lo.Map(orgs, func(o *model.Organization, _ int) string { return o.ID })
	}

	loader := projects.NewLoader(
		repository.NewRepository[model.Project](db),
		repository.NewRepository[model.Workspace](db),
	)
	untracked, err := loader.Untracked(ctx, orgIDs)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(map[string]any{"untrackedProjects": untracked}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
