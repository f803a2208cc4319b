package cmd

import (
	"fmt"

	"careermatrix/export"
	"careermatrix/validation"

	"github.com/spf13/cobra"
)

var (
	validateRender  bool
	validateMaxText int
)

var validateCmd = &cobra.Command{
	Use:   "validate <template-id>",
	Short: "Check a template for invalid data",
	Long: `Checks a stored template: axes, cell colors and text length, arrow ids,
endpoints and colors. Exits non-zero when any error is found; warnings are
only reported.

With --render the table is also drawn and its box-drawing lines checked.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateRender, "render", false, "Also check the rendered table")
	validateCmd.Flags().IntVar(&validateMaxText, "max-text", validation.DefaultMaxTextLength, "Longest allowed cell text, in characters")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	tmpl, err := st.Load(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("error loading template %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	v := validation.NewTemplateValidator()
	v.MaxTextLength = validateMaxText
	report := v.Validate(tmpl)

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s (%s)", tmpl.Name, tmpl.ID)))
	for _, f := range report.Findings {
		style := warnStyle
		if f.Severity == validation.Error {
			style = errorStyle
		}
		fmt.Fprintf(out, "  %s %s\n", style.Render(f.Severity.String()), f.String())
	}

	lineErrors := 0
	if validateRender {
		rendered, err := export.NewASCIIExporter().Export(tmpl)
		if err != nil {
			return fmt.Errorf("error rendering template: %w", err)
		}
		for _, le := range validation.NewLineValidator().Validate(rendered) {
			fmt.Fprintf(out, "  %s %s\n", errorStyle.Render("render"), le.String())
			lineErrors++
		}
	}

	errCount := report.Count(validation.Error) + lineErrors
	warnCount := report.Count(validation.Warning)
	if errCount == 0 && warnCount == 0 {
		fmt.Fprintln(out, okStyle.Render("  ok"))
	} else {
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("  %d error(s), %d warning(s)", errCount, warnCount)))
	}
	if errCount > 0 {
		return fmt.Errorf("template %s failed validation", tmpl.ID)
	}
	return nil
}
