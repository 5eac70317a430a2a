package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hwkit/vtop/internal/config"
	"github.com/hwkit/vtop/internal/facts"
	"github.com/hwkit/vtop/internal/policy"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print the generated top-level module",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()
		s, err := openSession()
		if err != nil {
			return err
		}
		text, err := s.GenerateText()
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Regenerate the project file (use --top to rename the top module)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()
		s, err := openSession()
		if err != nil {
			return err
		}
		if err := saveSession(s); err != nil {
			return err
		}
		logger.Info("saved project", "file", projectFile)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the design-rule checks against the project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s, err := openSession()
		if err != nil {
			return err
		}
		result, err := runChecks(cmd, cfg, facts.FromProject(s.Project()))
		if err != nil {
			return err
		}
		for _, v := range result.Violations {
			switch v.Severity {
			case "error":
				logger.Error(v.Message, "rule", v.Rule)
			case "warning":
				logger.Warn(v.Message, "rule", v.Rule)
			default:
				logger.Info(v.Message, "rule", v.Rule)
			}
		}
		logger.Info("check finished",
			"violations", result.Summary.TotalViolations,
			"errors", result.Summary.Errors,
			"warnings", result.Summary.Warnings)
		if result.Summary.Errors > 0 {
			os.Exit(1)
		}
		return nil
	},
}

func runChecks(cmd *cobra.Command, cfg *config.Config, t facts.Tables) (*policy.Result, error) {
	engine, err := policy.New(cfg.Check.Rules)
	if err != nil {
		return nil, err
	}
	return engine.Evaluate(cmd.Context(), t)
}

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a vtop.json configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := "vtop.json"
		if _, err := os.Stat(configPath); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
		if err := config.DefaultConfig().Save(configPath); err != nil {
			return err
		}
		logger.Info("created config", "path", configPath)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}
