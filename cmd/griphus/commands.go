package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"svw.info/griphus/internal/domain"
	"svw.info/griphus/internal/level"
	"svw.info/griphus/internal/solver"
)

func readLevel(path string) (*domain.Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	l, err := level.Parse(name, string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

func (a *app) seed(flag int64) int64 {
	switch {
	case flag != 0:
		return flag
	case a.cfg.Search.Seed != 0:
		return a.cfg.Search.Seed
	}
	return time.Now().UnixNano()
}

func (a *app) solveCmd() *cobra.Command {
	var (
		seed int64
		save bool
	)
	cmd := &cobra.Command{
		Use:   "solve <level-file>",
		Short: "Search a level for a route to an exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := readLevel(args[0])
			if err != nil {
				return err
			}
			uc, closeFn, err := a.service(nil)
			if err != nil {
				return err
			}
			defer closeFn()

			ctx := cmd.Context()
			if a.cfg.Search.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, a.cfg.Search.Timeout)
				defer cancel()
			}
			s := a.seed(seed)
			sol, st, err := uc.Solve(ctx, l, s)
			if errors.Is(err, solver.ErrUnsolvable) {
				fmt.Fprintf(cmd.OutOrStdout(), "unsolvable: %d states searched, %d dead ends, %d duplicates\n",
					st.Searches, st.DeadEnds, st.Duplicates)
				return err
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "moves:  %s\n", sol.Moves)
			fmt.Fprintf(out, "steps:  %d  energy: %d  seed: %d\n", sol.Steps, sol.Energy, s)
			fmt.Fprintf(out, "search: %d states, %d dead ends, %d duplicates, cache %d, %d ticks in %v\n",
				st.Searches, st.DeadEnds, st.Duplicates, st.CacheSize, st.Ticks, st.Duration.Round(time.Millisecond))
			if save {
				if err := uc.Save(ctx, sol); err != nil {
					return fmt.Errorf("save: %w", err)
				}
				fmt.Fprintf(out, "saved:  %s\n", sol.ID)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "search seed (0 uses config, then the clock)")
	cmd.Flags().BoolVar(&save, "save", false, "store the solution in the configured backend")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <level-file>...",
		Short: "Check levels for structural problems",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, closeFn, err := a.service(nil)
			if err != nil {
				return err
			}
			defer closeFn()
			bad := 0
			for _, path := range args {
				l, err := readLevel(path)
				if err != nil {
					return err
				}
				ok, issues, err := uc.Validate(cmd.Context(), l)
				if err != nil {
					return err
				}
				if ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
					continue
				}
				bad++
				for _, is := range issues {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: (%d,%d) %s\n", path, is.Pos.X, is.Pos.Y, is.Message)
				}
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d levels invalid", bad, len(args))
			}
			return nil
		},
	}
}

func (a *app) generateCmd() *cobra.Command {
	var (
		seed int64
		opts domain.GenOptions
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a random room in the level text format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, closeFn, err := a.service(nil)
			if err != nil {
				return err
			}
			defer closeFn()
			l, err := uc.Generate(cmd.Context(), a.seed(seed), opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), level.Format(l))
			return err
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "generator seed")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "room width including walls (0 = 7)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "room height including walls (0 = 7)")
	cmd.Flags().IntVar(&opts.Blocks, "blocks", 0, "blocks, one plate each (0 = 1)")
	cmd.Flags().IntVar(&opts.Walls, "walls", 0, "interior wall tiles")
	return cmd
}
