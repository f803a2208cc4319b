package cmd

import (
	"errors"
	"fmt"
	"strings"

	"careermatrix/matrix"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	createID         string
	createName       string
	createDepartment string
	createProfession string
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"template", "tpl"},
	Short:   "List and create templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplatesList,
}

var templatesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an empty template with the configured axes",
	Args:  cobra.NoArgs,
	RunE:  runTemplatesCreate,
}

func init() {
	f := templatesCreateCmd.Flags()
	f.StringVar(&createID, "id", "", "Template id (generated when empty)")
	f.StringVar(&createName, "name", "", "Template name")
	f.StringVar(&createDepartment, "department", "", "Department")
	f.StringVar(&createProfession, "profession", "", "Profession")

	templatesCmd.AddCommand(templatesListCmd, templatesCreateCmd)
	rootCmd.AddCommand(templatesCmd)
}

func runTemplatesList(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	infos, err := st.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("error listing templates: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No templates yet. Create one with: careermatrix templates create --name NAME"))
		return nil
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{info.ID, info.Name, info.Department, info.Profession})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("ID", "NAME", "DEPARTMENT", "PROFESSION").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(out, t.Render())
	return nil
}

func runTemplatesCreate(cmd *cobra.Command, _ []string) error {
	if strings.TrimSpace(createName) == "" {
		return errors.New("--name is required")
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	info := matrix.TemplateInfo{
		ID:         createID,
		Name:       createName,
		Department: createDepartment,
		Profession: createProfession,
	}
	id, err := st.Create(cmd.Context(), info, cfg.Axes)
	if err != nil {
		return fmt.Errorf("error creating template: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okStyle.Render("Created"), id)
	return nil
}
