// Command minios-sim drives the simulator from the command line,
// generalizing the teacher's cmd/ublk-mem flag-then-drive-loop shape into
// cobra subcommands: "run" drives a program to completion, "step"
// advances it one instruction at a time, prompting for input as needed.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ehrlich-b/go-minios"
	"github.com/ehrlich-b/go-minios/examples/console"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var scheduler string
	var rrQuantum int
	var maxSteps int

	root := &cobra.Command{
		Use:   "minios-sim",
		Short: "minios-sim simulates a tiny multi-programmed operating system",
	}

	buildSystem := func(programs []string, hooks minios.Hooks) (*minios.System, error) {
		cfg := minios.Config{
			FS:    console.FileSystem{},
			Hooks: hooks,
		}
		switch scheduler {
		case "fcfs", "":
			cfg.Scheduler = minios.FCFS
		case "rr":
			cfg.Scheduler = minios.RoundRobin
			cfg.RRQuantum = rrQuantum
		case "mlfq":
			cfg.Scheduler = minios.MLFQ
		default:
			return nil, fmt.Errorf("unknown scheduler %q (want fcfs, rr, or mlfq)", scheduler)
		}

		sys := minios.NewSystem(cfg)
		for _, p := range programs {
			ok, err := sys.LoadProgram(p)
			if err != nil {
				return nil, fmt.Errorf("loading %s: %w", p, err)
			}
			if !ok {
				return nil, fmt.Errorf("loading %s: process table or memory arena is full", p)
			}
		}
		return sys, nil
	}

	runCmd := &cobra.Command{
		Use:   "run <program...>",
		Short: "load the given programs and drive the simulation to completion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := buildSystem(args, console.NewHooks())
			if err != nil {
				return err
			}
			for i := 0; i < maxSteps && !sys.IsComplete(); i++ {
				sys.Step()
			}
			if !sys.IsComplete() {
				return fmt.Errorf("did not complete within %d steps", maxSteps)
			}
			return nil
		},
	}
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 10000, "upper bound on simulated clock ticks")

	stepCmd := &cobra.Command{
		Use:   "step <program...>",
		Short: "load the given programs and single-step through the simulation, prompting for input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hooks := &promptTrackingHooks{Hooks: console.NewHooks()}
			sys, err := buildSystem(args, hooks)
			if err != nil {
				return err
			}
			stdin := bufio.NewReader(os.Stdin)
			for i := 0; i < maxSteps && !sys.IsComplete(); i++ {
				before := hooks.requests
				sys.Step()
				if hooks.requests > before {
					line, _ := console.ReadLine(stdin)
					sys.ProvideInput(line)
				}
			}
			return nil
		},
	}
	stepCmd.Flags().IntVar(&maxSteps, "max-steps", 10000, "upper bound on simulated clock ticks")

	root.PersistentFlags().StringVar(&scheduler, "scheduler", "fcfs", "scheduler policy: fcfs, rr, or mlfq")
	root.PersistentFlags().IntVar(&rrQuantum, "rr-quantum", 2, "round robin quantum (ignored unless --scheduler=rr)")
	root.AddCommand(runCmd, stepCmd)
	return root
}

// promptTrackingHooks counts RequestInput calls so the step loop knows
// when to pause and read a line from stdin.
type promptTrackingHooks struct {
	*console.Hooks
	requests int
}

func (h *promptTrackingHooks) RequestInput(pid int, varName string) {
	h.requests++
	h.Hooks.RequestInput(pid, varName)
}
