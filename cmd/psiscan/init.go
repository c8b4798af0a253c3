package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/psiscan/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/psiscan.yaml
var configTemplate embed.FS

const configTemplatePath = "templates/psiscan.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a psiscan configuration file",
		Long: `Init writes a commented .psiscan configuration file.

The generated file documents every option: input directory, text source,
NER backend and model location, entity labels (including the education
label, which differs between models), honorifics, the anonymization seed
and an example gazetteer.

Examples:
  # Create .psiscan in the current directory
  psiscan init

  # Create the per-user configuration
  psiscan init -o ~/.config/psiscan/config.yaml

  # Overwrite an existing file
  psiscan init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(configTemplatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// The file may hold an API key.
	if err := os.WriteFile(outputPath, content, 0o600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to choose:")
	fmt.Fprintln(out, "  - the NER backend (onnx, http or gazetteer)")
	fmt.Fprintln(out, "  - the entity labels your model emits")
	fmt.Fprintln(out, "  - a fixed anonymization seed for reproducible output")

	return nil
}
