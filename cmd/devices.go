package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/smazurov/audiohal/internal/audio"
	"github.com/smazurov/audiohal/internal/device"
	"github.com/spf13/cobra"
)

// CreateDevicesCmd creates the devices command.
func CreateDevicesCmd() *cobra.Command {
	return newDevicesCmd(audio.NewDetector())
}

func newDevicesCmd(detector audio.Detector) *cobra.Command {
	var (
		direction string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List ALSA PCM devices and their hardware ranges",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			devices, err := detector.ListDevices()
			if err != nil {
				return fmt.Errorf("enumerate audio devices: %w", err)
			}
			if direction != "" {
				dir, err := device.ParseDirection(direction)
				if err != nil {
					return err
				}
				devices = audio.ByDirection(devices, dir)
			}

			out := c.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(devices)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DEVICE\tDIR\tCARD\tNAME\tRATES\tCHANNELS\tFORMATS")
			for _, d := range devices {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d-%d\t%s\n",
					d.ALSADevice, d.Direction, d.CardID, d.DeviceName,
					joinInts(d.SupportedRates), d.MinChannels, d.MaxChannels,
					strings.Join(d.SupportedFormats, ","))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "", "Only out (playback) or in (capture) devices")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ",")
}
