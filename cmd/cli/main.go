package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"resframe/adapters/excel"
	"resframe/adapters/resfile"
	"resframe/app"
	"resframe/domain/timeseries"
	"resframe/internal/aggregate"
	"resframe/internal/derived"
	"resframe/internal/logging"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "resframe-cli",
		Short: "Aggregate and inspect network simulation result tables",
	}

	rootCmd.AddCommand(
		newAggregateCmd(),
		newProfileCmd(),
		newNetworkCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newService() *app.ResultService {
	return app.NewResultService(derived.NewDefaultRegistry(), nil, excel.NewWriter(), logging.NewFromEnv())
}

func loadSet(ctx context.Context, service *app.ResultService, resultFile, networkFile string) (*app.ResultSet, error) {
	opts := []resfile.Option{}
	if networkFile != "" {
		opts = append(opts, resfile.WithNetworkFile(networkFile))
	}
	sets, err := service.Load(ctx, resfile.NewReader(resultFile, opts...))
	if err != nil {
		return nil, err
	}
	return sets[0], nil
}

func newAggregateCmd() *cobra.Command {
	var (
		group       string
		strategy    string
		timeStrat   string
		networkFile string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "aggregate [result-file]",
		Short: "Reduce a result table to one row per entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := timeseries.ParseGroup(group)
			if err != nil {
				return err
			}
			opts := []aggregate.Option{}
			if timeStrat != "" {
				opts = append(opts, aggregate.WithTimeStrategy(timeStrat))
			}
			agg, err := aggregate.New(strategy, opts...)
			if err != nil {
				return err
			}

			service := newService()
			set, err := loadSet(cmd.Context(), service, args[0], networkFile)
			if err != nil {
				return err
			}
			rec, err := service.Aggregate(cmd.Context(), set, g, agg)
			if err != nil {
				return err
			}

			if output != "" {
				return service.Export(rec, output)
			}
			return printJSON(rec)
		},
	}

	cmd.Flags().StringVar(&group, "group", "Reach", "entity group to aggregate (Node, Reach, Catchment, Structure)")
	cmd.Flags().StringVar(&strategy, "strategy", "max", "default strategy for duplicate, chainage and time")
	cmd.Flags().StringVar(&timeStrat, "time", "", "override strategy for the time axis")
	cmd.Flags().StringVar(&networkFile, "network", "", "CSV file with network entity attributes")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the run to an XLSX workbook instead of stdout")
	return cmd
}

func newProfileCmd() *cobra.Command {
	var networkFile string

	cmd := &cobra.Command{
		Use:   "profile [result-file]",
		Short: "Print summary statistics for every series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := newService()
			set, err := loadSet(cmd.Context(), service, args[0], networkFile)
			if err != nil {
				return err
			}
			profiles, err := service.Profile(set)
			if err != nil {
				return err
			}
			return printJSON(profiles)
		},
	}

	cmd.Flags().StringVar(&networkFile, "network", "", "CSV file with network entity attributes")
	return cmd
}

func newNetworkCmd() *cobra.Command {
	var networkFile string

	cmd := &cobra.Command{
		Use:   "network [result-file]",
		Short: "List the entities and quantities of a result table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := newService()
			set, err := loadSet(cmd.Context(), service, args[0], networkFile)
			if err != nil {
				return err
			}
			net := set.Network
			payload := map[string]interface{}{}
			for _, group := range timeseries.AllGroups {
				if group == timeseries.GroupGlobal {
					continue
				}
				var names []string
				switch group {
				case timeseries.GroupNode:
					names = net.NodeNames()
				case timeseries.GroupReach:
					names = net.ReachNames()
				case timeseries.GroupCatchment:
					names = net.CatchmentNames()
				case timeseries.GroupStructure:
					names = net.StructureNames()
				}
				if len(names) == 0 {
					continue
				}
				payload[string(group)] = map[string]interface{}{
					"names":      names,
					"quantities": net.Quantities(group),
				}
			}
			return printJSON(payload)
		},
	}

	cmd.Flags().StringVar(&networkFile, "network", "", "CSV file with network entity attributes")
	return cmd
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
