package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"domainverse/internal/metrics"
	"domainverse/internal/service"
)

// queryFunc runs one read operation against the service
type queryFunc func(ctx context.Context, domains *service.DomainService, arg string) (interface{}, error)

var queries = []struct {
	use   string
	short string
	run   queryFunc
}{
	{"get <id>", "Prints a single domain", func(ctx context.Context, s *service.DomainService, id string) (interface{}, error) {
		return s.Get(ctx, id)
	}},
	{"linked <id>", "Prints the domains a domain links to", func(ctx context.Context, s *service.DomainService, id string) (interface{}, error) {
		return s.Linked(ctx, id)
	}},
	{"children <id>", "Prints the sub-domains of a domain", func(ctx context.Context, s *service.DomainService, id string) (interface{}, error) {
		return s.Children(ctx, id)
	}},
	{"related <id>", "Prints every domain related to a domain", func(ctx context.Context, s *service.DomainService, id string) (interface{}, error) {
		return s.Related(ctx, id)
	}},
	{"incoming <id>", "Prints the domains linking to a domain", func(ctx context.Context, s *service.DomainService, id string) (interface{}, error) {
		return s.Incoming(ctx, id)
	}},
	{"search <term>", "Prints the domains matching a term", func(ctx context.Context, s *service.DomainService, term string) (interface{}, error) {
		return s.Search(ctx, term), nil
	}},
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func queryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Queries the domain graph and prints JSON",
	}

	for _, q := range queries {
		run := q.run
		cmd.AddCommand(&cobra.Command{
			Use:   q.use,
			Short: q.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				domains, closeDomains, err := openDomains(ctx, a.cfg, service.NewEventBus(), metrics.NewRegistry())
				if err != nil {
					return err
				}
				defer closeDomains()

				result, err := run(ctx, domains, args[0])
				if err != nil {
					return fmt.Errorf("query %s: %w", cmd.Name(), err)
				}
				return printJSON(cmd.OutOrStdout(), result)
			},
		})
	}

	return cmd
}
