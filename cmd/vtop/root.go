package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hwkit/vtop/internal/config"
	"github.com/hwkit/vtop/internal/project"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"

	// projectFile is the generated .v/.sv file that doubles as the
	// saved project
	projectFile string
	// topName overrides the top-module name derived from the project
	// file name
	topName string
	// cfgFile is an explicit config file path
	cfgFile string
	verbose bool

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})

	appCfg = config.DefaultConfig()

	rootCmd = &cobra.Command{
		Use:   "vtop",
		Short: "Assemble a top-level Verilog module from parsed module headers",
		Long: `vtop parses Verilog/SystemVerilog module headers into a library,
instantiates them, wires instance ports to top-level signals, and
generates the resulting top module.

The generated file carries the whole project state in an embedded
snapshot line, so it is also the project file: every command operates
on the file given with --project and rewrites it after a change.

Typical flow:
  vtop -p top.v add alu.v regfile.v     Parse modules into the library
  vtop -p top.v instantiate alu u_alu   Create an instance
  vtop -p top.v connect u_alu a input data_in
  vtop -p top.v generate                Print the generated top module
  vtop -p top.v check                   Run the design-rule checks`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectFile, "project", "p", "", "project file (generated .v/.sv with embedded snapshot)")
	rootCmd.PersistentFlags().StringVar(&topName, "top", "", "top-module name (default: project file base name)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./vtop.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(deleteModuleCmd)
	rootCmd.AddCommand(instantiateCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(deleteInstanceCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(setParamCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(factsCmd)
}

func execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	var err error
	if cfgFile != "" {
		appCfg, err = config.LoadFile(cfgFile)
	} else {
		appCfg, err = config.Load(".")
	}
	if err != nil {
		logger.Warn("could not load config, using defaults", "err", err)
		appCfg = config.DefaultConfig()
	}
	return appCfg
}

// openSession loads the project file into a fresh session. A missing
// file starts an empty project; a file without a snapshot line is an
// error, since overwriting it would lose someone else's Verilog.
func openSession() (*project.Session, error) {
	if projectFile == "" {
		return nil, fmt.Errorf("no project file given (use --project)")
	}
	s, err := project.NewSession()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(projectFile); statErr != nil {
		logger.Debug("starting new project", "file", projectFile)
		return s, nil
	}
	if err := s.LoadFile(projectFile); err != nil {
		if errors.Is(err, project.ErrNoProjectData) {
			return nil, fmt.Errorf("%s exists but has no project data line; refusing to overwrite", projectFile)
		}
		return nil, err
	}
	return s, nil
}

// saveSession rewrites the project file with regenerated text and a
// fresh snapshot. The top-module name comes from the --top flag, then
// the config, then the project file's base name.
func saveSession(s *project.Session) error {
	name := topName
	if name == "" {
		name = appCfg.TopModule
	}
	return s.SaveFile(projectFile, name)
}
