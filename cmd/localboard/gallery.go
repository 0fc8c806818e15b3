package main

import (
	"fmt"
	"image/png"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"LocalBoard/internal/board"
	"LocalBoard/internal/export"
	"LocalBoard/internal/surface"
)

// galleryCmd inspects saved drawings
var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "List and extract drawings saved from the board",
}

var galleryListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show saved drawings, newest first",
	Args:  cobra.NoArgs,
	RunE:  galleryList,
}

var galleryExportCmd = &cobra.Command{
	Use:   "export [index] [file]",
	Short: "Write a saved drawing to a PNG file",
	Args:  cobra.ExactArgs(2),
	RunE:  galleryExport,
}

func init() {
	galleryCmd.AddCommand(galleryListCmd)
	galleryCmd.AddCommand(galleryExportCmd)
}

func loadGallery(cmd *cobra.Command) ([]board.Drawing, error) {
	st, err := openStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return board.LoadGallery(cmd.Context(), st, logger), nil
}

func galleryList(cmd *cobra.Command, args []string) error {
	drawings, err := loadGallery(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(drawings) == 0 {
		fmt.Fprintln(out, "No saved drawings")
		return nil
	}
	for i, d := range drawings {
		fmt.Fprintf(out, "%3d  %s  %d KiB\n", i, d.CreatedAt().Format("2006-01-02 15:04"), len(d.DataURL)/1024)
	}
	return nil
}

func galleryExport(cmd *cobra.Command, args []string) error {
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", args[0], err)
	}
	drawings, err := loadGallery(cmd)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(drawings) {
		return fmt.Errorf("no drawing at index %d (%d saved)", i, len(drawings))
	}
	img, err := surface.DecodeDataURL(drawings[i].DataURL)
	if err != nil {
		return err
	}
	return export.ToFile(args[1], func(w io.Writer) error {
		return png.Encode(w, img)
	})
}
