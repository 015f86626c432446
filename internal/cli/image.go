package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/framebuilder/internal/board"
	"github.com/jask/framebuilder/internal/service"
)

func newIngestCmd(r *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [text...]",
		Short: "Add image URLs to the library",
		Long: `Extracts every URL from the arguments, or from stdin when none are given.
URLs of the form .../<name>-<size>_<suffix>.<ext> that share a name are stored
as size variants of one image.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, "\n")
			if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				raw = string(b)
			}
			s, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			res, err := s.IngestURLs(raw)
			if errors.Is(err, board.ErrNoURLs) {
				fmt.Fprintln(out, "No URLs found.")
				return nil
			}
			if err != nil {
				return err
			}
			if err := s.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d images added\n", len(res.Added))
			if res.Merged > 0 {
				fmt.Fprintf(out, "%d images were already added, updating size variants\n", res.Merged)
			}
			return nil
		},
	}
}

func newImageCmd(r *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "List or remove library images",
		Long:  "Images are referenced by id, unique id prefix, URL (any size variant) or 1-based library position.",
	}
	cmd.AddCommand(newImageLsCmd(r), newImageRmCmd(r))
	return cmd
}

func newImageLsCmd(r *runtime) *cobra.Command {
	var usedOnly, unusedOnly bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List the image library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			st := s.State()
			used := st.UsedIDs()
			out := cmd.OutOrStdout()
			for _, img := range st.Library {
				_, isUsed := used[img.ID]
				if (usedOnly && !isUsed) || (unusedOnly && isUsed) {
					continue
				}
				mark := " "
				if isUsed {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %d %s %s", mark, img.OrderID+1, shortID(img.ID), img.URL)
				if n := len(img.Sizes); n > 1 {
					fmt.Fprintf(out, " (%d sizes)", n)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&usedOnly, "used", false, "only images placed in a frame")
	cmd.Flags().BoolVar(&unusedOnly, "unused", false, "only images not placed in any frame")
	cmd.MarkFlagsMutuallyExclusive("used", "unused")
	return cmd
}

func newImageRmCmd(r *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <image>",
		Short: "Remove an image from the library and every frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			img, err := service.FindImage(s.State(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			s.RemoveImage(img.ID)
			if err := s.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Image removed")
			return nil
		},
	}
}

func newPlaceCmd(r *runtime) *cobra.Command {
	var before string
	cmd := &cobra.Command{
		Use:   "place <image> <frame>",
		Short: "Place an image into a frame",
		Long: `Places a library image into a frame, appending it, or inserting it before
another image with --before. An image already in a frame is moved.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			st := s.State()
			img, err := service.FindImage(st, args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			f, err := service.FindFrame(st, args[1])
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}

			item := board.DragItem{Kind: board.ItemLibraryImage, ID: img.ID}
			if owner := st.OwnerFrame(img.ID); owner != "" {
				item = board.DragItem{Kind: board.ItemFrameImage, ID: img.ID, FrameID: owner}
			}
			target := board.DropTarget{Kind: board.DropFrameZone, ID: f.ID}
			if before != "" {
				ref, err := service.FindImage(st, before)
				if err != nil {
					return fmt.Errorf("%s: %w", before, err)
				}
				if !f.Contains(ref.ID) {
					return fmt.Errorf("%s is not in frame %d", before, f.OrderID+1)
				}
				target = board.DropTarget{Kind: board.DropImage, ID: ref.ID}
			}
			if !s.Move(item, target) {
				return errors.New("nothing to place")
			}
			if err := s.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "placed in frame %d\n", f.OrderID+1)
			return nil
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "insert before this image in the frame")
	return cmd
}
