package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/framebuilder/internal/board"
	"github.com/jask/framebuilder/internal/prefs"
	"github.com/jask/framebuilder/internal/service"
	"github.com/jask/framebuilder/internal/testdata"
)

func newSnapshotCmd(r *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save the board to, or load it from, a JSON snapshot file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "save [path]",
			Short: "Write the whole board to a snapshot file",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := r.open(cmd.Context())
				if err != nil {
					return err
				}
				file := prefs.NewSnapshotFile(r.snapshotFile(args))
				if err := file.Save(cmd.Context(), s.State()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "snapshot saved to %s\n", file.Path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "load [path]",
			Short: "Replace the board with a snapshot file",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := r.open(cmd.Context())
				if err != nil {
					return err
				}
				file := prefs.NewSnapshotFile(r.snapshotFile(args))
				st, err := file.Load(cmd.Context())
				if errors.Is(err, board.ErrNoSnapshot) {
					return fmt.Errorf("no snapshot at %s", file.Path)
				}
				if err != nil {
					return err
				}
				if err := s.Replace(st); err != nil {
					return err
				}
				if err := s.Save(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "loaded %d frames and %d images\n", len(st.Frames), len(st.Library))
				return nil
			},
		},
	)
	return cmd
}

func (r *runtime) snapshotFile(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return r.cfg.Snapshot.Path
}

func newResetCmd(r *runtime) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard every frame and image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset discards the whole board; pass --yes to confirm")
			}
			if _, err := r.open(cmd.Context()); err != nil {
				return err
			}
			m := &service.MaintenanceService{DB: r.db}
			if err := m.Reset(cmd.Context()); err != nil {
				return err
			}
			r.log.Info("board reset")
			fmt.Fprintln(cmd.OutOrStdout(), "board reset")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	return cmd
}

func newSeedCmd(r *runtime) *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the board with generated sample data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			st, err := testdata.Seed(cmd.Context(), r.repo, seed)
			if err != nil {
				return err
			}
			if err := s.Replace(st); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d frames and %d images\n", len(st.Frames), len(st.Library))
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for the sample board")
	return cmd
}
