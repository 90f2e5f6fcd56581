// This file is part of RetroSoC.
//
// RetroSoC is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// RetroSoC is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with RetroSoC.  If not, see <https://www.gnu.org/licenses/>.

// RetroSoC assembles emulated STM32 machines from capability
// descriptors and boot images.
package main

import (
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"

	"github.com/retrosoc/retrosoc/chario"
	"github.com/retrosoc/retrosoc/chario/termio"
	"github.com/retrosoc/retrosoc/hardware/capability"
	"github.com/retrosoc/retrosoc/hardware/cortexm"
	"github.com/retrosoc/retrosoc/hardware/stm32"
	"github.com/retrosoc/retrosoc/inspect"
	"github.com/retrosoc/retrosoc/reset"
	"github.com/retrosoc/retrosoc/statsview"
)

var (
	// global flags
	debug bool
	quiet bool

	// construction overrides
	board    string
	cpuModel string
	ramKiB   int
	flashKiB int

	// serial port to attach the host terminal to. -1 leaves every port
	// on the null backend
	termPort int

	graphFile string
	stats     bool
)

var rootCmd = &cobra.Command{
	Use:   "retrosoc",
	Short: "STM32 machine emulation",
	Long: `RetroSoC assembles emulated STM32 machines: a Cortex-M core, an
interrupt controller, a validated address map and a capability-driven
peripheral set, booted from an ELF or flat binary image.

Examples:
  retrosoc variants                          # list supported chip variants
  retrosoc info -b stm32f407vg               # show the assembled machine
  retrosoc run -b stm32f103rb firmware.elf   # construct, load and reset`,
}

var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "List supported chip variants",
	Run: func(cmd *cobra.Command, args []string) {
		for _, n := range stm32.VariantNames() {
			d, _ := stm32.Variant(n)
			fmt.Printf("%-14s %s (%s, family %s)\n", n, d.Name, d.Model.Display(), d.Family)
		}
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Assemble a variant without an image and show the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		mach, err := construct(capability.Overrides{
			Model:    cpuModel,
			SRAMKiB:  ramKiB,
			FlashKiB: flashKiB,
			NoImage:  true,
		}, nil, nil)
		if err != nil {
			return err
		}

		inspect.Summary(os.Stdout, mach)
		return maybeGraph(mach)
	},
}

var runCmd = &cobra.Command{
	Use:   "run <image>",
	Short: "Assemble a variant, load the image and run the reset cascade",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		charioReg := &chario.Registry{}
		if termPort >= 0 {
			term, err := termio.Open()
			if err != nil {
				return err
			}
			defer term.Restore()
			if err := charioReg.Register(termPort, term); err != nil {
				return err
			}
		}

		resetReg := reset.NewRegistry()

		mach, err := construct(capability.Overrides{
			Model:    cpuModel,
			SRAMKiB:  ramKiB,
			FlashKiB: flashKiB,
			Image:    args[0],
		}, charioReg, resetReg)
		if err != nil {
			return err
		}

		if stats {
			if statsview.Available() {
				statsview.Launch(os.Stdout)
			} else {
				fmt.Fprintln(os.Stderr, "statsview not available in this build")
			}
		}

		// cold start
		resetReg.Invoke()

		inspect.Summary(os.Stdout, mach)
		fmt.Printf("\ncore: SP=%08x PC=%08x\n", mach.Core.SP, mach.Core.PC)

		return maybeGraph(mach)
	},
}

func construct(ov capability.Overrides, charioReg *chario.Registry, resetReg *reset.Registry) (*stm32.Machine, error) {
	return stm32.NewMachine(board, ov, cortexm.Collaborators{
		Chario: charioReg,
		Reset:  resetReg,
		Logger: newLogger(),
	})
}

// newLogger creates a logger with appropriate settings.
func newLogger() *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func maybeGraph(mach *stm32.Machine) error {
	if graphFile == "" {
		return nil
	}

	f, err := os.Create(graphFile)
	if err != nil {
		return err
	}
	defer f.Close()

	inspect.Graph(f, mach)
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log construction phases")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "errors only")
	rootCmd.PersistentFlags().StringVarP(&board, "board", "b", "stm32f407vg", "chip variant to assemble")
	rootCmd.PersistentFlags().StringVar(&cpuModel, "cpu", "", "override the core model (e.g. cortex-m4f)")
	rootCmd.PersistentFlags().IntVar(&ramKiB, "ram", 0, "override the SRAM size in KiB")
	rootCmd.PersistentFlags().IntVar(&flashKiB, "flash", 0, "override the Flash size in KiB")
	rootCmd.PersistentFlags().StringVar(&graphFile, "graph", "", "write the machine object graph (graphviz) to file")

	runCmd.Flags().IntVar(&termPort, "term", -1, "serial port to attach the host terminal to")
	runCmd.Flags().BoolVar(&stats, "stats", false, "launch the runtime stats server")

	rootCmd.AddCommand(variantsCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
