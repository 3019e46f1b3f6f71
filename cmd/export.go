package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sozhaa-tech/chatbot-api/internal/transcript"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored transcripts as a spreadsheet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		store, err := transcript.Open(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "open transcript store")
		}
		defer store.Close() //nolint:errcheck

		data, err := store.ExportXLSX(ctx)
		if err != nil {
			return eris.Wrap(err, "export transcripts")
		}

		if err := os.WriteFile(exportOut, data, 0o644); err != nil {
			return eris.Wrapf(err, "write %s", exportOut)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", len(data), exportOut)
		return nil
	},
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "full_chat_history.xlsx", "output spreadsheet path")
	rootCmd.AddCommand(exportCmd)
}
