package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smazurov/audiohal/internal/device"
	"github.com/smazurov/audiohal/internal/route"
	"github.com/smazurov/audiohal/internal/session"
	"github.com/spf13/cobra"
)

// CreateRouteCmd creates the route command. It resolves a route request
// against a hypothetical state and prints the plan without touching
// hardware.
func CreateRouteCmd() *cobra.Command {
	var (
		devices  []string
		active   []string
		flags    []string
		sessName string
		subName  string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "route <role>",
		Short: "Resolve a route request without applying it",
		Long: `Resolves a route request for the given role and prints the UCM verb and ordered device list
the daemon would activate. Devices are given as direction:token, e.g. out:builtin-speaker.`,
		Example: `  audiohal route call-voice -d out:builtin-speaker -d in:builtin-mic
  audiohal route media -d out:audio-jack --active out:builtin-speaker --session fmradio`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			kind, err := route.ParseRole(args[0])
			if err != nil {
				return err
			}
			infos, err := parseDeviceArgs(devices)
			if err != nil {
				return err
			}
			f, err := route.ParseFlags(flags)
			if err != nil {
				return err
			}
			st, err := hypotheticalState(sessName, subName, active)
			if err != nil {
				return err
			}

			plan, err := route.Resolve(route.Request{Kind: kind, Devices: infos, Flags: f}, st)
			if err != nil {
				return err
			}
			return printPlan(c, plan, asJSON)
		},
	}

	cmd.Flags().StringArrayVarP(&devices, "device", "d", nil, "Requested device as direction:token (repeatable)")
	cmd.Flags().StringArrayVar(&active, "active", nil, "Device already in the active set as direction:token (repeatable)")
	cmd.Flags().StringSliceVar(&flags, "flag", nil, "Route flags (network-wideband, ...)")
	cmd.Flags().StringVar(&sessName, "session", "media", "Current session")
	cmd.Flags().StringVar(&subName, "subsession", "none", "Current subsession")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the plan as JSON")
	return cmd
}

// parseDeviceArgs parses direction:token pairs.
func parseDeviceArgs(args []string) ([]device.Info, error) {
	infos := make([]device.Info, 0, len(args))
	for _, arg := range args {
		dirName, token, ok := strings.Cut(arg, ":")
		if !ok || token == "" {
			return nil, fmt.Errorf("device %q: want direction:token", arg)
		}
		dir, err := device.ParseDirection(dirName)
		if err != nil {
			return nil, err
		}
		infos = append(infos, device.Info{Type: token, Direction: dir})
	}
	return infos, nil
}

func hypotheticalState(sessName, subName string, active []string) (route.State, error) {
	var st route.State

	s, err := session.ParseSession(sessName)
	if err != nil {
		return st, err
	}
	sub, err := session.ParseSubsession(subName)
	if err != nil {
		return st, err
	}
	st.Session = s
	st.Recording = sub.IsRecording()

	infos, err := parseDeviceArgs(active)
	if err != nil {
		return st, err
	}
	for _, info := range infos {
		flag := device.Resolve(info.Type, info.Direction)
		if flag.IsNone() {
			return st, fmt.Errorf("active device %q is not a known %s device", info.Type, info.Direction)
		}
		st.Active.Note(flag)
	}
	return st, nil
}

func printPlan(c *cobra.Command, plan route.Plan, asJSON bool) error {
	out := c.OutOrStdout()
	if asJSON {
		resets := make([]string, len(plan.Reset))
		for i, d := range plan.Reset {
			resets[i] = d.String()
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"kind":             plan.Kind.String(),
			"verb":             plan.Verb,
			"devices":          plan.Devices,
			"reset":            resets,
			"dual_out":         plan.DualOut,
			"input_suppressed": plan.InputSuppressed,
		})
	}

	if plan.Kind == route.KindReset {
		for _, d := range plan.Reset {
			fmt.Fprintf(out, "reset %s\n", d)
		}
		return nil
	}
	fmt.Fprintf(out, "kind:    %s\n", plan.Kind)
	fmt.Fprintf(out, "verb:    %s\n", plan.Verb)
	fmt.Fprintf(out, "devices: %s\n", strings.Join(plan.Devices, " "))
	if plan.DualOut {
		fmt.Fprintln(out, "dual output")
	}
	if plan.InputSuppressed {
		fmt.Fprintln(out, "inputs suppressed for radio")
	}
	return nil
}
