package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/catalog"
)

var seedCmd = &cobra.Command{
	Use:   "seed [catalog.yaml]",
	Short: "Load skills, roles and assessments from a catalog file",
	Long:  "Load skills, roles and assessments from a YAML catalog. Without a file the built-in sample catalog is loaded.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			c   *catalog.Catalog
			err error
		)
		if len(args) == 1 {
			c, err = catalog.LoadFile(args[0])
		} else {
			c, err = catalog.Sample()
		}
		if err != nil {
			return err
		}

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		st, err := c.Seed(cmd.Context(), d.Store)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d skills, %d roles, %d assessments.\n", st.Skills, st.Roles, st.Assessments)
		return nil
	},
}
