package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"fitcoach-backend/internal/conversation"
	"fitcoach-backend/internal/models"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the chat history",
	Long: `Export the chat history file as JSON (the on-disk format) or YAML.

Writes to stdout unless --out is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		msgs, err := conversation.NewFileSink(historyPath).Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}

		data, err := renderHistory(msgs, exportFormat)
		if err != nil {
			return err
		}

		if exportOut == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(exportOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d messages to %s\n", len(msgs), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file")
}

func renderHistory(msgs []models.ChatMessage, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := conversation.Encode(msgs)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		if msgs == nil {
			msgs = []models.ChatMessage{}
		}
		return yaml.Marshal(msgs)
	default:
		return nil, fmt.Errorf("unsupported format %q (valid: json, yaml)", format)
	}
}
