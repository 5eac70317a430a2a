package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hwkit/vtop/internal/facts"
)

var addCmd = &cobra.Command{
	Use:   "add <source.v>...",
	Short: "Parse module headers into the project library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()
		s, err := openSession()
		if err != nil {
			return err
		}
		for _, path := range args {
			m, err := s.ParseModule(path)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", path, err)
			}
			logger.Info("parsed module", "name", m.Name, "ports", len(m.Ports), "parameters", len(m.Params))
			for _, port := range m.Ports {
				logger.Debug("port", "name", port.Name, "direction", port.Direction, "width", port.Width)
			}
		}
		return saveSession(s)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh <module>",
	Short: "Re-parse a module's source file, keeping its instances",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()
		s, err := openSession()
		if err != nil {
			return err
		}
		before := facts.FromProject(s.Project())
		if _, err := s.RefreshModule(args[0]); err != nil {
			return err
		}
		delta := facts.ComputeDelta(before, facts.FromProject(s.Project()))
		if delta.Empty() {
			logger.Info("refreshed module, no changes", "name", args[0])
		} else {
			logger.Info("refreshed module", "name", args[0])
			for _, row := range delta.Added.Ports {
				logger.Info("port added", "name", row.Name, "direction", row.Direction)
			}
			for _, row := range delta.Removed.Ports {
				logger.Info("port removed", "name", row.Name, "direction", row.Direction)
			}
			for _, row := range delta.Added.Parameters {
				logger.Info("parameter added", "name", row.Name, "default", row.Default)
			}
			for _, row := range delta.Removed.Parameters {
				logger.Info("parameter removed", "name", row.Name)
			}
		}
		return saveSession(s)
	},
}

var deleteModuleCmd = &cobra.Command{
	Use:   "delete-module <module>",
	Short: "Remove a module that has no instances",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()
		s, err := openSession()
		if err != nil {
			return err
		}
		if err := s.DeleteModule(args[0]); err != nil {
			return err
		}
		logger.Info("deleted module", "name", args[0])
		return saveSession(s)
	},
}

var showCmd = &cobra.Command{
	Use:   "show [module]",
	Short: "List the library and instances, or the details of one module",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()
		s, err := openSession()
		if err != nil {
			return err
		}
		proj := s.Project()
		if len(args) == 1 {
			return showModule(proj, args[0])
		}
		fmt.Println("Modules:")
		for _, m := range proj.Modules() {
			stale := ""
			if m.Stale {
				stale = " (stale)"
			}
			fmt.Printf("  %s (%s)%s\n", m.Name, m.Source, stale)
		}
		fmt.Println("Instances:")
		for _, inst := range proj.Instances() {
			fmt.Printf("  %s : %s\n", inst.Name, inst.Module)
		}
		return nil
	},
}

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Dump the project as relational fact tables (JSON)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()
		s, err := openSession()
		if err != nil {
			return err
		}
		return writeFactsJSON(os.Stdout, facts.FromProject(s.Project()))
	},
}
