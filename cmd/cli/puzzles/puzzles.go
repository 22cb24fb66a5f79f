package puzzles

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/myrjola/botornot/internal/catalog"
	"github.com/myrjola/botornot/internal/errors"
	"github.com/myrjola/botornot/internal/outcome"
	"github.com/myrjola/botornot/internal/puzzle"
	"github.com/myrjola/botornot/internal/random"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "puzzles",
	Title: "Catalog and puzzle inspection",
}

func init() {
	Sample.Flags().String("kind", string(puzzle.KindSort), "puzzle kind to build")
	Sample.Flags().Uint64("seed", 0, "seed for a reproducible instance, 0 picks a random one")
	Sample.Flags().String("catalog", "", "catalog file or URL, empty selects the built-in catalog")
	Route.Flags().Bool("succeeded", false, "whether the challenge was solved without mistakes")
}

var Validate = &cobra.Command{
	Use:     "validate [catalog]",
	GroupID: "puzzles",
	Short:   "Validate a catalog",
	Long:    "Loads a JSON or YAML catalog and reports which puzzle kinds can be built from it",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		location := ""
		if len(args) == 1 {
			location = args[0]
		}
		c, err := catalog.NewSource(location).Load(cmd.Context())
		if err != nil {
			return errors.Wrap(err, "load catalog", slog.String("location", location))
		}

		out := cmd.OutOrStdout()
		for _, category := range c.NonEmpty() {
			_, _ = fmt.Fprintf(out, "%-12s %d items\n", category, len(c.Categories[category]))
		}
		sampler := puzzle.NewSampler(random.NewSeededRand(1))
		var failed bool
		for _, kind := range puzzle.Kinds {
			if _, err = sampler.BuildInstance(c, kind); err != nil {
				failed = true
				_, _ = fmt.Fprintf(out, "%-17s FAIL %v\n", kind, err)
				continue
			}
			_, _ = fmt.Fprintf(out, "%-17s ok\n", kind)
		}
		if failed {
			return errors.Wrap(catalog.ErrConfiguration, "validate catalog", slog.String("location", location))
		}
		return nil
	},
}

var Sample = &cobra.Command{
	Use:     "sample",
	GroupID: "puzzles",
	Short:   "Build a puzzle instance",
	Long:    "Builds one puzzle instance and prints it including the hidden categories",
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		kindFlag, _ := flags.GetString("kind")
		seed, _ := flags.GetUint64("seed")
		location, _ := flags.GetString("catalog")

		kind, err := puzzle.ParseKind(kindFlag)
		if err != nil {
			return err //nolint:wrapcheck // already wrapped
		}
		c, err := catalog.NewSource(location).Load(cmd.Context())
		if err != nil {
			return errors.Wrap(err, "load catalog", slog.String("location", location))
		}

		sampler := puzzle.NewSampler(random.NewSeededRand(seed))
		if seed == 0 {
			rnd, rndErr := random.NewRand()
			if rndErr != nil {
				return errors.Wrap(rndErr, "seed random source")
			}
			sampler = puzzle.NewSampler(rnd)
		}
		inst, err := sampler.BuildInstance(c, kind)
		if err != nil {
			return errors.Wrap(err, "build instance")
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err = encoder.Encode(inst); err != nil {
			return errors.Wrap(err, "encode instance")
		}
		return nil
	},
}

var Route = &cobra.Command{
	Use:     "route [attempt]",
	GroupID: "puzzles",
	Short:   "Show where a resolved challenge leads",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		attempt, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.Wrap(err, "parse attempt", slog.String("attempt", args[0]))
		}
		succeeded, _ := cmd.Flags().GetBool("succeeded")
		o := outcome.Route(succeeded, attempt)
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), o)
		return nil
	},
}
