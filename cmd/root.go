/*
Copyright © 2023 wetrycode

*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/wetrycode/freshserve"
)

var logger = freshserve.GetLogger("command")

// flagKeys settings keys bound to command line flags
var flagKeys = map[string]string{
	"host":                "server.host",
	"port":                "server.port",
	"root":                "server.root",
	"listing":             "server.listing",
	"h2c":                 "server.h2c",
	"read-header-timeout": "server.read_header_timeout",
	"log-level":           "log.level",
}

func bindFlags(config *freshserve.Configuration, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := config.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s error: %w", name, err)
		}
	}
	return nil
}

// NewRootCmd the freshserve command, flags are bound to config
// and override the settings file
func NewRootCmd(config *freshserve.Configuration) *cobra.Command {
	var configDir string
	rootCmd := &cobra.Command{
		Use:          "freshserve [port]",
		Short:        "freshserve serves a directory over http and tells clients never to cache it",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configDir != "" {
				if err := config.LoadFrom(configDir); err != nil {
					return err
				}
			}
			if len(args) == 1 {
				port, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid port %q", args[0])
				}
				config.Set("server.port", port)
			}
			opts, err := config.Options()
			if err != nil {
				return err
			}
			if err := freshserve.SetLogLevel(opts.Log.Level); err != nil {
				return err
			}
			if opts.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			server := freshserve.NewServer(opts.Server, freshserve.ServerWithOutput(cmd.OutOrStdout()))
			if err := server.Start(ctx); err != nil {
				logger.Errorf("start server error:%s", err.Error())
				return err
			}
			return nil
		},
	}
	flags := rootCmd.Flags()
	flags.StringVarP(&configDir, "config", "c", "", "directory holding settings.yaml")
	flags.String("host", "", "interface to listen on, all interfaces when empty")
	flags.IntP("port", "p", freshserve.DefaultPort, "port to listen on")
	flags.StringP("root", "r", ".", "directory to serve")
	flags.Bool("listing", true, "list directories without an index file")
	flags.Bool("h2c", false, "accept cleartext HTTP/2")
	flags.Duration("read-header-timeout", 10*time.Second, "time allowed to read request headers")
	flags.String("log-level", "info", "log level")
	if err := bindFlags(config, flags); err != nil {
		panic(err.Error())
	}
	return rootCmd
}

// Execute runs the root command with the process wide configuration.
// It returns the process exit code.
func Execute() int {
	err := NewRootCmd(freshserve.Config).Execute()
	if err != nil {
		return 1
	}
	return 0
}
