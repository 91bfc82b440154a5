package cmd

import (
	"fmt"

	"github.com/smazurov/audiohal/internal/bufferattr"
	"github.com/smazurov/audiohal/internal/device"
	"github.com/spf13/cobra"
)

// CreateBufferAttrCmd creates the buffer-attr command.
func CreateBufferAttrCmd() *cobra.Command {
	var (
		direction string
		latency   string
		format    string
		rate      uint32
		channels  uint32
	)

	cmd := &cobra.Command{
		Use:   "buffer-attr",
		Short: "Print sound server buffer attributes for a stream",
		Long: `Computes maxlength, tlength, prebuf, minreq and fragsize in bytes for a stream of the given
direction, latency class and sample spec. -1 means the sound server default.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			dir, err := device.ParseDirection(direction)
			if err != nil {
				return err
			}
			l, err := bufferattr.ParseLatency(latency)
			if err != nil {
				return err
			}
			f, err := bufferattr.ParseFormat(format)
			if err != nil {
				return err
			}

			a, err := bufferattr.Compute(dir, l, bufferattr.SampleSpec{Format: f, Rate: rate, Channels: channels})
			if err != nil {
				return err
			}

			out := c.OutOrStdout()
			fmt.Fprintf(out, "maxlength: %d\n", a.MaxLength)
			fmt.Fprintf(out, "tlength:   %d\n", a.TLength)
			fmt.Fprintf(out, "prebuf:    %d\n", a.PreBuf)
			fmt.Fprintf(out, "minreq:    %d\n", a.MinReq)
			fmt.Fprintf(out, "fragsize:  %d\n", a.FragSize)
			fmt.Fprintf(out, "period:    %d ms, %d samples x %d\n", a.Period.TimeMsec, a.Period.Samples, a.Period.Count)
			return nil
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "out", "Stream direction (out, in)")
	cmd.Flags().StringVar(&latency, "latency", "mid", "Latency class (low, mid, high, voip)")
	cmd.Flags().StringVar(&format, "format", "s16le", "Sample format")
	cmd.Flags().Uint32Var(&rate, "rate", 48000, "Sample rate in Hz")
	cmd.Flags().Uint32Var(&channels, "channels", 2, "Channel count")
	return cmd
}
