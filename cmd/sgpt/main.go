package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts completeOptions

	root := &cobra.Command{
		Use:           "sgpt [prompt...]",
		Short:         "Send a prompt to a hosted chat completion model and print the answer",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComplete(cmd, args, opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath(), "path to config file (.sgptrc or .yaml)")
	root.Flags().StringVarP(&opts.model, "model", "m", "", "model or Azure deployment name (default from config)")
	root.Flags().Float64VarP(&opts.temperature, "temperature", "t", 1, "sampling temperature, 0.0 - 2.0")
	root.Flags().Float64VarP(&opts.topProbability, "top-probability", "p", 1, "nucleus sampling probability, 0.0 - 1.0")
	root.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the response cache for this request")
	root.Flags().StringVarP(&opts.system, "system", "s", "", "optional system message sent before the prompt")

	root.AddCommand(newCacheCmd(&opts.configPath))
	return root
}
