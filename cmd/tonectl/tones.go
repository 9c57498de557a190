package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yanqian/tone-changer/internal/interface/form"
)

func newTonesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tones",
		Short: "List the most requested tones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("%w: %v", form.ErrFormDisabled, err)
			}
			tones, err := form.NewAPIClient(cfg).Trending(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TONE\tREQUESTS")
			for _, t := range tones {
				fmt.Fprintf(w, "%s\t%d\n", t.Tone, t.Count)
			}
			return w.Flush()
		},
	}
}
