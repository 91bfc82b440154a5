package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/smazurov/audiohal/internal/nats"
	"github.com/spf13/cobra"
)

// CreateRemoteCmd creates the remote command group, which drives a running
// daemon over its NATS control subjects.
func CreateRemoteCmd() *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Control a running daemon over NATS",
	}
	cmd.PersistentFlags().StringVar(&url, "nats-url", "nats://127.0.0.1:4222", "NATS server of the daemon")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "Request timeout")

	connect := func() (*nats.Client, error) {
		return nats.NewClient(url, timeout, nil)
	}

	cmd.AddCommand(newRemoteStateCmd(connect))
	cmd.AddCommand(newRemoteSessionCmd(connect))
	cmd.AddCommand(newRemoteRouteCmd(connect))
	cmd.AddCommand(newRemoteResetCmd(connect))
	cmd.AddCommand(newRemoteWatchCmd(connect))
	return cmd
}

type connectFunc func() (*nats.Client, error)

func newRemoteStateCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the routing state",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			client, err := connect()
			if err != nil {
				return err
			}
			defer client.Close()

			st, err := client.State(c.Context())
			if err != nil {
				return err
			}
			printRemoteState(c.OutOrStdout(), st)
			return nil
		},
	}
}

func newRemoteSessionCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:     "session <command> <session> [subsession]",
		Short:   "Send a session command",
		Example: "  audiohal remote session start voicecall\n  audiohal remote session subsession voicecall call-record",
		Args:    cobra.RangeArgs(2, 3),
		RunE: func(c *cobra.Command, args []string) error {
			req := nats.SessionMessage{Command: args[0], Session: args[1]}
			if len(args) == 3 {
				req.Subsession = args[2]
			}

			client, err := connect()
			if err != nil {
				return err
			}
			defer client.Close()

			st, err := client.Session(c.Context(), req)
			if err != nil {
				return err
			}
			printRemoteState(c.OutOrStdout(), st)
			return nil
		},
	}
}

func newRemoteRouteCmd(connect connectFunc) *cobra.Command {
	var (
		devices []string
		flags   []string
	)

	cmd := &cobra.Command{
		Use:     "route <role>",
		Short:   "Apply a route on the daemon",
		Example: "  audiohal remote route call-voice -d out:builtin-receiver -d in:builtin-mic",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			infos, err := parseDeviceArgs(devices)
			if err != nil {
				return err
			}
			req := nats.RouteMessage{Role: args[0], Flags: flags}
			for _, info := range infos {
				req.Devices = append(req.Devices, nats.DeviceMessage{Type: info.Type, Direction: info.Direction.String()})
			}

			client, err := connect()
			if err != nil {
				return err
			}
			defer client.Close()

			plan, err := client.Route(c.Context(), req)
			if err != nil {
				return err
			}
			printRemotePlan(c.OutOrStdout(), plan)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&devices, "device", "d", nil, "Requested device as direction:token (repeatable)")
	cmd.Flags().StringSliceVar(&flags, "flag", nil, "Route flags")
	return cmd
}

func newRemoteResetCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <in|out>",
		Short: "Clear one direction of the active device set",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			client, err := connect()
			if err != nil {
				return err
			}
			defer client.Close()

			st, err := client.Reset(c.Context(), args[0])
			if err != nil {
				return err
			}
			printRemoteState(c.OutOrStdout(), st)
			return nil
		},
	}
}

func newRemoteWatchCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print relayed events until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			client, err := connect()
			if err != nil {
				return err
			}
			defer client.Close()

			out := c.OutOrStdout()
			stop, err := client.Watch(func(kind string, data []byte) {
				var payload map[string]any
				if json.Unmarshal(data, &payload) != nil {
					fmt.Fprintf(out, "%-18s %s\n", kind, data)
					return
				}
				compact, _ := json.Marshal(payload)
				fmt.Fprintf(out, "%-18s %s\n", kind, compact)
			})
			if err != nil {
				return err
			}
			defer stop()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sig)
			select {
			case <-sig:
			case <-c.Context().Done():
			}
			return nil
		},
	}
}

func printRemoteState(out io.Writer, st *nats.StateMessage) {
	if st == nil {
		return
	}
	fmt.Fprintf(out, "session:    %s\n", st.Session)
	fmt.Fprintf(out, "subsession: %s\n", st.Subsession)
	fmt.Fprintf(out, "call mode:  %t\n", st.CallMode)
	fmt.Fprintf(out, "outputs:    %s\n", strings.Join(st.Outputs, " "))
	fmt.Fprintf(out, "inputs:     %s\n", strings.Join(st.Inputs, " "))
	if st.Verb != "" {
		fmt.Fprintf(out, "verb:       %s %s\n", st.Verb, strings.Join(st.Devices, " "))
	}
	if st.VoicePlayback || st.VoiceCapture {
		fmt.Fprintf(out, "voice pcm:  playback=%t capture=%t rate=%d\n", st.VoicePlayback, st.VoiceCapture, st.VoiceRate)
	}
}

func printRemotePlan(out io.Writer, p *nats.PlanMessage) {
	if p == nil {
		return
	}
	if p.Kind == "reset" {
		for _, d := range p.Reset {
			fmt.Fprintf(out, "reset %s\n", d)
		}
		return
	}
	fmt.Fprintf(out, "kind:    %s\n", p.Kind)
	fmt.Fprintf(out, "verb:    %s\n", p.Verb)
	fmt.Fprintf(out, "devices: %s\n", strings.Join(p.Devices, " "))
}
