package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"careermatrix/export"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <template-id>",
	Short: "Export a template as text, JSON or a diagram",
	Long:  "Export a stored template.\n\nFormats:\n" + formatHelp(),
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(export.FormatASCII), "Export format")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

func formatHelp() string {
	descs := export.GetFormatDescriptions()
	names := make([]string, 0, len(descs))
	for f := range descs {
		names = append(names, string(f))
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "  %-9s %s\n", name, descs[export.Format(name)])
	}
	return sb.String()
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	tmpl, err := st.Load(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("error loading template %s: %w", args[0], err)
	}

	out, err := exporter.Export(tmpl)
	if err != nil {
		return fmt.Errorf("error exporting %s: %w", exporter.GetFormatName(), err)
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	if exportOutput == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}
	if err := os.WriteFile(exportOutput, []byte(out), 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", exportOutput, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", exporter.GetFormatName(), exportOutput)
	return nil
}
