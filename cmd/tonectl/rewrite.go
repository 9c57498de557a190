package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/tone-changer/internal/interface/form"
)

func newRewriteCmd(root *rootOptions) *cobra.Command {
	var (
		tone  string
		other string
	)
	cmd := &cobra.Command{
		Use:   "rewrite [text]",
		Short: "Rewrite text into the given tone; reads stdin when no text is given",
		Example: `  tonectl rewrite --tone cheerful "The meeting is cancelled."
  echo "Your invoice is overdue." | tonectl rewrite --tone Other --other "gentle pirate"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}
			text, err := readText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			view := newTerminalView(cmd.OutOrStdout(), cmd.ErrOrStderr())
			ctrl := form.NewController(cfg, form.NewAPIClient(cfg), view)
			if ctrl.Disabled() {
				if cfgErr := cfg.Validate(); cfgErr != nil {
					return fmt.Errorf("%w: %v", form.ErrFormDisabled, cfgErr)
				}
				return form.ErrFormDisabled
			}
			if other != "" && tone == "" {
				tone = form.OtherTone
			}
			ctrl.SelectTone(tone)
			if err := ctrl.Submit(cmd.Context(), form.Form{Text: text, Tone: tone, OtherTone: other}); err != nil {
				return reportedError{err}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&tone, "tone", "t", "", `tone preset, or "Other" together with --other`)
	cmd.Flags().StringVar(&other, "other", "", "free-text tone used when --tone is Other")
	return cmd
}

func readText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(io.LimitReader(stdin, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("no text given; pass it as an argument or on stdin")
	}
	return string(data), nil
}
