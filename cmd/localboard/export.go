package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"LocalBoard/internal/export"
)

var shareBase string

// exportCmd renders the stored board
var exportCmd = &cobra.Command{
	Use:   "export [png|pdf|json|link] [file]",
	Short: "Export the saved board",
	Long: `Replays the stored stroke history and writes it out.

  png   raster image
  pdf   vector strokes on an A4 page
  json  the raw stroke history, loadable from the board window
  link  prints a share link with the image embedded (no file argument)

Example:
  localboard export pdf ~/Desktop/board.pdf`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&shareBase, "base", "localboard://board", "Link the drawing is embedded in (link format only)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	format := args[0]

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	c := newController(st)
	c.Load(ctx)

	if format == "link" {
		u, err := c.DataURL()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), export.ShareLink(shareBase, u))
		return nil
	}

	if len(args) < 2 {
		return fmt.Errorf("export %s needs an output file", format)
	}
	path := args[1]
	if filepath.Ext(path) == "" {
		path += "." + format
	}
	if err := export.ToFile(path, func(w io.Writer) error {
		return export.Write(w, c, format)
	}); err != nil {
		return err
	}
	logger.Info("Exported board", zap.String("format", format), zap.String("path", path), zap.Int("strokes", len(c.Snapshot())))
	return nil
}
