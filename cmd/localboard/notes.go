package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"LocalBoard/internal/export"
	"LocalBoard/internal/notes"
)

var noteFrom string

// notesCmd manages the note log
var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Read and write the note log",
}

var notesAddCmd = &cobra.Command{
	Use:   "add [message]",
	Short: "Leave a note",
	Args:  cobra.MinimumNArgs(1),
	RunE:  notesAdd,
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show notes, newest first",
	Args:  cobra.NoArgs,
	RunE:  notesList,
}

var notesExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write every note to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  notesExport,
}

func init() {
	notesAddCmd.Flags().StringVar(&noteFrom, "from", "", "Who the note is from (required)")
	notesAddCmd.MarkFlagRequired("from")

	notesCmd.AddCommand(notesAddCmd)
	notesCmd.AddCommand(notesListCmd)
	notesCmd.AddCommand(notesExportCmd)
}

func openNotes(cmd *cobra.Command) (*notes.Log, func(), error) {
	st, err := openStore(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return notes.Open(cmd.Context(), st, logger), func() { st.Close() }, nil
}

func notesAdd(cmd *cobra.Command, args []string) error {
	log, done, err := openNotes(cmd)
	if err != nil {
		return err
	}
	defer done()

	n, err := log.Add(cmd.Context(), noteFrom, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Noted at %s\n", n.CreatedAt().Format("Jan 2 15:04"))
	return nil
}

func notesList(cmd *cobra.Command, args []string) error {
	log, done, err := openNotes(cmd)
	if err != nil {
		return err
	}
	defer done()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Notes since %s\n", log.Since())
	for _, n := range log.List() {
		fmt.Fprintf(out, "%s  %s: %s\n", n.CreatedAt().Format("2006-01-02 15:04"), n.From, n.Message)
	}
	return nil
}

func notesExport(cmd *cobra.Command, args []string) error {
	log, done, err := openNotes(cmd)
	if err != nil {
		return err
	}
	defer done()

	return export.ToFile(args[0], log.Export)
}
