package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jask/framebuilder/internal/render"
)

func newExportCmd(r *runtime) *cobra.Command {
	var (
		format string
		indent int
		doCopy bool
		noCopy bool
		output string
		png    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the frames as a caption and image document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			e := r.exporter()
			if cmd.Flags().Changed("format") {
				e.Format = format
			}
			if cmd.Flags().Changed("indent") {
				e.Indent = indent
			}
			toClipboard := r.cfg.Export.Clipboard
			if cmd.Flags().Changed("copy") {
				toClipboard = doCopy
			}
			if noCopy {
				toClipboard = false
			}

			res, err := e.Export(s.State(), toClipboard)
			if err != nil {
				return err
			}
			errOut := cmd.ErrOrStderr()
			if output != "" {
				if err := os.WriteFile(output, []byte(res.Text+"\n"), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			}
			switch {
			case res.CopyErr != nil:
				fmt.Fprintf(errOut, "warning: %v\n", res.CopyErr)
			case res.Copied:
				fmt.Fprintln(errOut, "copied to clipboard")
			}
			if png != "" {
				if err := render.SavePNG(png, res.Document); err != nil {
					return fmt.Errorf("storyboard: %w", err)
				}
				fmt.Fprintf(errOut, "storyboard written to %s\n", png)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	f.IntVar(&indent, "indent", 2, "indent width")
	f.BoolVar(&doCopy, "copy", false, "copy the document to the clipboard")
	f.BoolVar(&noCopy, "no-copy", false, "never touch the clipboard")
	f.StringVarP(&output, "output", "o", "", "write the document to a file instead of stdout")
	f.StringVar(&png, "png", "", "also render a storyboard PNG to this path")
	return cmd
}
