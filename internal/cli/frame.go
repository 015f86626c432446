package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jask/framebuilder/internal/board"
	"github.com/jask/framebuilder/internal/service"
)

func newFrameCmd(r *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Add, remove, caption, reorder and list frames",
		Long: `Frames are referenced by id, unique id prefix, 1-based position, or caption
(close misspellings of a caption are accepted).`,
	}
	cmd.AddCommand(
		newFrameAddCmd(r),
		newFrameRmCmd(r),
		newFrameCaptionCmd(r),
		newFrameMvCmd(r),
		newFrameLsCmd(r),
	)
	return cmd
}

func newFrameAddCmd(r *runtime) *cobra.Command {
	var caption string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a new empty frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			f := s.AddFrame()
			if caption != "" {
				s.SetCaption(f.ID, caption)
			}
			if err := s.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "frame %d added (%s)\n", f.OrderID+1, f.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&caption, "caption", "c", "", "caption for the new frame")
	return cmd
}

func newFrameRmCmd(r *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <frame>",
		Short: "Remove a frame; its images return to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			f, err := service.FindFrame(s.State(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			s.RemoveFrame(f.ID)
			if err := s.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "frame %d removed\n", f.OrderID+1)
			return nil
		},
	}
}

func newFrameCaptionCmd(r *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "caption <frame> <text...>",
		Short: "Set a frame's caption",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			f, err := service.FindFrame(s.State(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			s.SetCaption(f.ID, strings.Join(args[1:], " "))
			return s.Save(cmd.Context())
		},
	}
}

func newFrameMvCmd(r *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <frame> <to-frame>",
		Short: "Move a frame to another frame's position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			from, err := service.FindFrame(s.State(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			to, err := service.FindFrame(s.State(), args[1])
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}
			s.Move(board.DragItem{Kind: board.ItemFrame, ID: from.ID}, board.DropTarget{Kind: board.DropFrame, ID: to.ID})
			return s.Save(cmd.Context())
		},
	}
}

func newFrameLsCmd(r *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List frames in order with their images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			st := s.State()
			out := cmd.OutOrStdout()
			if len(st.Frames) == 0 {
				fmt.Fprintln(out, "no frames")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, f := range st.Frames {
				fmt.Fprintf(w, "%d\t%s\t%s\n", f.OrderID+1, shortID(f.ID), oneLine(f.Caption))
				for _, img := range f.Images {
					fmt.Fprintf(w, "\t\t  %s\n", img.URL)
				}
			}
			return w.Flush()
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
