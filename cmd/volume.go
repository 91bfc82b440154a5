package cmd

import (
	"fmt"
	"strings"

	"github.com/smazurov/audiohal/internal/volume"
	"github.com/spf13/cobra"
)

// CreateVolumeCmd creates the volume command.
func CreateVolumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volume",
		Short: "Inspect volume and gain tables",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <file>",
		Short: "Parse a volume table file and print its curves",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			table, err := volume.Load(args[0])
			if err != nil {
				return err
			}
			printTable(c, table)
			return nil
		},
	})
	return cmd
}

func printTable(c *cobra.Command, t *volume.Table) {
	out := c.OutOrStdout()
	for _, typ := range volume.Types {
		curve := t.Volumes[typ]
		values := make([]string, len(curve))
		for i, v := range curve {
			values[i] = fmt.Sprintf("%.4f", v)
		}
		fmt.Fprintf(out, "%-13s %2d levels  %s\n", typ, len(curve), strings.Join(values, " "))
	}
	for _, g := range volume.Gains {
		fmt.Fprintf(out, "gain %-10s %.4f\n", g, t.Gains[g])
	}
}
