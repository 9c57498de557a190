package main

import (
	"github.com/spf13/cobra"

	"github.com/yanqian/tone-changer/internal/interface/form"
)

type rootOptions struct {
	envFile  string
	endpoint string
	secret   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "tonectl",
		Short:         "Rewrite text into a different tone through the tone changer relay",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dotenv file to read TONE_API_URL and TONE_API_SECRET from (default ./.env)")
	cmd.PersistentFlags().StringVar(&opts.endpoint, "endpoint", "", "relay endpoint, overrides TONE_API_URL")
	cmd.PersistentFlags().StringVar(&opts.secret, "secret", "", "shared secret, overrides TONE_API_SECRET")

	cmd.AddCommand(newRewriteCmd(opts), newTonesCmd(opts))
	return cmd
}

func (o *rootOptions) config() (form.Config, error) {
	var files []string
	if o.envFile != "" {
		files = append(files, o.envFile)
	}
	cfg, err := form.LoadConfig(files...)
	if err != nil {
		return form.Config{}, err
	}
	if o.endpoint != "" {
		cfg.Endpoint = o.endpoint
	}
	if o.secret != "" {
		cfg.Secret = o.secret
	}
	return cfg, nil
}
