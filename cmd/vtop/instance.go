package main

import (
	"github.com/spf13/cobra"
)

var instantiateCmd = &cobra.Command{
	Use:   "instantiate <module> <instance>",
	Short: "Create a named instance of a library module",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()
		s, err := openSession()
		if err != nil {
			return err
		}
		if _, err := s.Instantiate(args[0], args[1]); err != nil {
			return err
		}
		logger.Info("instantiated module", "module", args[0], "instance", args[1])
		return saveSession(s)
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <instance> <new-name>",
	Short: "Rename an instance, keeping its connections and overrides",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()
		s, err := openSession()
		if err != nil {
			return err
		}
		if err := s.RenameInstance(args[0], args[1]); err != nil {
			return err
		}
		logger.Info("renamed instance", "from", args[0], "to", args[1])
		return saveSession(s)
	},
}

var deleteInstanceCmd = &cobra.Command{
	Use:   "delete-instance <instance>",
	Short: "Remove an instance and all of its connections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()
		s, err := openSession()
		if err != nil {
			return err
		}
		if err := s.DeleteInstance(args[0]); err != nil {
			return err
		}
		logger.Info("deleted instance", "name", args[0])
		return saveSession(s)
	},
}

var connectCmd = &cobra.Command{
	Use:   "connect <instance> <port> <input|output|wire> <signal>",
	Short: "Bind an instance port to a top-level signal",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()
		s, err := openSession()
		if err != nil {
			return err
		}
		if err := s.SetConnection(args[0], args[1], args[2], args[3]); err != nil {
			return err
		}
		logger.Info("connected port", "instance", args[0], "port", args[1], "kind", args[2], "signal", args[3])
		return saveSession(s)
	},
}

var setParamCmd = &cobra.Command{
	Use:   "set-param <instance> <parameter> <value>",
	Short: "Override a parameter on an instance",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()
		s, err := openSession()
		if err != nil {
			return err
		}
		if err := s.SetParameterOverride(args[0], args[1], args[2]); err != nil {
			return err
		}
		logger.Info("set parameter", "instance", args[0], "parameter", args[1], "value", args[2])
		return saveSession(s)
	},
}
