package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/mbudget/internal/cli"
	"github.com/theirongolddev/mbudget/internal/config"
	"github.com/theirongolddev/mbudget/internal/planner"
	"github.com/theirongolddev/mbudget/internal/store"
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"tpl"},
	Short:   "Manage subcategory templates suggested when adding categories",
}

var templatesListCmd = &cobra.Command{
	Use:   "list [filter]",
	Short: "List templates, optionally filtered by name",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTemplatesList,
}

var templatesAddCmd = &cobra.Command{
	Use:   "add <category> <sub1,sub2,...>",
	Short: "Add or replace a template",
	Args:  cobra.ExactArgs(2),
	RunE:  runTemplatesAdd,
}

var templatesRemoveCmd = &cobra.Command{
	Use:   "remove <category>",
	Short: "Remove a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesRemove,
}

func init() {
	templatesCmd.AddCommand(templatesListCmd, templatesAddCmd, templatesRemoveCmd)
	rootCmd.AddCommand(templatesCmd)
}

func openCatalog() (*store.Catalog, error) {
	path := config.TemplatesPath()
	c, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening template catalog %s: %w", path, err)
	}
	return c, nil
}

func runTemplatesList(cmd *cobra.Command, args []string) error {
	c, err := openCatalog()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	var templates []store.Template
	if len(args) == 1 {
		templates, err = c.Suggest(args[0])
	} else {
		templates, err = c.List()
	}
	if err != nil {
		return err
	}

	if len(templates) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\n  No templates found.")
		return nil
	}

	rows := make([][]string, len(templates))
	for i, t := range templates {
		origin := "custom"
		if t.Builtin {
			origin = "built-in"
		}
		rows[i] = []string{t.Name, strings.Join(t.Subcategories, ", "), origin}
	}
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), cli.RenderTable(cli.Table{
		Title:   "Templates",
		Headers: []string{"Category", "Subcategories", "Origin"},
		Rows:    rows,
	}))
	return nil
}

func runTemplatesAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return planner.ErrEmptyName
	}
	subs := planner.ParseSubcategories(args[1])
	if len(subs) == 0 {
		return planner.ErrNoSubcategories
	}

	c, err := openCatalog()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if err := c.Put(store.Template{Name: name, Subcategories: subs}); err != nil {
		return err
	}
	log.Info().Str("template", name).Int("subcategories", len(subs)).Msg("template saved")
	fmt.Fprintf(cmd.OutOrStdout(), "  Saved %s: %s\n", name, strings.Join(subs, ", "))
	return nil
}

func runTemplatesRemove(cmd *cobra.Command, args []string) error {
	c, err := openCatalog()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if err := c.Remove(args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no template named %q", args[0])
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Removed %s\n", args[0])
	return nil
}
