package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/renga"
	"github.com/hupe1980/renga/category"
)

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version and whether it is supported",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open()
			if err != nil {
				return err
			}
			defer app.Close()

			v, err := app.Version()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Renga %s\n", v)

			minVersion, err := c.cfg.MinVersion()
			if err != nil {
				return err
			}
			if !minVersion.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), "supported (>= %s): %t\n", minVersion, v.AtLeast(minVersion))
			}

			return nil
		},
	}
}

func (c *cli) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the entity categories that can be imported",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tID")
			for _, cat := range category.All() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", cat.Key(), cat, cat.ID().Braced())
			}
			return w.Flush()
		},
	}
}

func (c *cli) importCmd() *cobra.Command {
	var (
		projectPath string
		saveAs      string
	)

	cmd := &cobra.Command{
		Use:   "import <category> <file>",
		Short: "Import a category file into a new or existing project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := category.Parse(args[0])
			if err != nil {
				return err
			}

			done := c.logger.StartTimer("import")
			defer done()

			app, err := c.open()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := c.requireCompatible(app); err != nil {
				return err
			}

			var project *renga.Project
			if projectPath != "" {
				project, err = app.OpenProject(projectPath)
			} else {
				project, err = app.NewProject()
			}
			if err != nil {
				return err
			}
			defer project.Release()

			tx, err := project.StartTransaction()
			if err != nil {
				return err
			}
			defer tx.Release()

			entity, err := project.ImportCategoryOf(cat, args[1])
			if err != nil {
				if rbErr := tx.Rollback(); rbErr != nil {
					c.logger.Error("rengactl.import.rollback_failed", "error", rbErr)
				}
				return err
			}
			defer entity.Release()

			if err := tx.Commit(); err != nil {
				return err
			}

			if saveAs != "" {
				if err := project.SaveAs(saveAs, true); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %s as entity %d (%s)\n", cat, entity.ID, entity.UniqueID)

			return nil
		},
	}

	cmd.Flags().StringVar(&projectPath, "project", "", "open this project instead of creating a new one")
	cmd.Flags().StringVar(&saveAs, "save-as", "", "save the project to this path after importing")

	return cmd
}

func (c *cli) entitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entities <project>",
		Short: "List the category entities of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open()
			if err != nil {
				return err
			}
			defer app.Close()

			project, err := app.OpenProject(args[0])
			if err != nil {
				return err
			}
			defer project.Release()

			coll, err := project.Categories()
			if err != nil {
				return err
			}
			defer coll.Release()

			entities, err := coll.Entities()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tUNIQUE ID")
			for _, e := range entities {
				name := "-"
				if cat, ok := e.Category(); ok {
					name = cat.String()
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.Name, name, e.UniqueID)
				e.Release()
			}
			return w.Flush()
		},
	}
}
