package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"toolrent/pkg/model"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// Catalog is the seed file format:
//
//	owner_id = "owner-1"
//	owner_phone = "+16502530000"
//	currency = "EUR"
//
//	[[tools]]
//	name = "Cordless drill"
//	category = "power_tools"
//	city = "Lisbon"
//	daily_rate = 1200
//
// Top-level values fill fields a tool leaves empty.
type Catalog struct {
	OwnerID    string        `toml:"owner_id"`
	OwnerPhone string        `toml:"owner_phone"`
	Currency   string        `toml:"currency"`
	City       string        `toml:"city"`
	Tools      []CatalogTool `toml:"tools"`
}

type CatalogTool struct {
	OwnerID     string `toml:"owner_id"`
	OwnerPhone  string `toml:"owner_phone"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Category    string `toml:"category"`
	City        string `toml:"city"`
	DailyRate   int64  `toml:"daily_rate"`
	Currency    string `toml:"currency"`
}

var ErrEmptyCatalog = errors.New("catalog has no tools")

func LoadCatalog(path string) (*Catalog, error) {
	var c Catalog
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown catalog keys: %v", undecoded)
	}
	if len(c.Tools) == 0 {
		return nil, ErrEmptyCatalog
	}
	return &c, nil
}

// Models applies the catalog defaults. Field validation is left to the
// tools service.
func (c *Catalog) Models() []model.Tool {
	tools := make([]model.Tool, 0, len(c.Tools))
	for _, t := range c.Tools {
		tools = append(tools, model.Tool{
			OwnerID:     firstNonEmpty(t.OwnerID, c.OwnerID),
			OwnerPhone:  firstNonEmpty(t.OwnerPhone, c.OwnerPhone),
			Name:        t.Name,
			Description: t.Description,
			Category:    t.Category,
			City:        firstNonEmpty(t.City, c.City),
			DailyRate:   t.DailyRate,
			Currency:    firstNonEmpty(t.Currency, c.Currency),
		})
	}
	return tools
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type toolCreator interface {
	CreateTool(ctx context.Context, tool model.Tool) (*model.Tool, error)
}

// seedCatalog creates every tool, reporting each outcome, and fails if any
// tool was rejected.
func seedCatalog(ctx context.Context, out io.Writer, creator toolCreator, tools []model.Tool) error {
	var failed int
	for _, t := range tools {
		created, err := creator.CreateTool(ctx, t)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", t.Name, err)
			continue
		}
		fmt.Fprintf(out, "OK   %s %s\n", created.ID, created.Name)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d tools failed to seed", failed, len(tools))
	}
	return nil
}

type toolServiceCreator struct {
	opts *rootOptions
}

func (c toolServiceCreator) CreateTool(ctx context.Context, tool model.Tool) (*model.Tool, error) {
	tc, err := c.opts.toolClient()
	if err != nil {
		return nil, err
	}
	resp, err := tc.Create(ctx, tool)
	if err != nil {
		return nil, err
	}
	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return tc.DecodeTool(resp)
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the tools listed in a TOML catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := LoadCatalog(file)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			return seedCatalog(ctx, cmd.OutOrStdout(), toolServiceCreator{opts: opts}, catalog.Models())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "catalog.toml", "catalog file")
	return cmd
}
