package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Beastly713/sharesplit/pkg/config"
	"github.com/Beastly713/sharesplit/pkg/dealer"
	"github.com/Beastly713/sharesplit/pkg/format"
	"github.com/spf13/cobra"
)

func newCombineCmd(a *app) *cobra.Command {
	var sheetPath string

	combineCmd := &cobra.Command{
		Use:   "combine [share...]",
		Short: "Recover a secret from its shares",
		Long: `Combine recovers the secret from shares given as arguments, read from a
share sheet (--file), or pasted on stdin one per line.

Every share supplied is used. Give at least as many shares as the
threshold the secret was split with: too few shares are NOT detected
and produce a wrong result or a "not valid UTF-8" error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens := args
			if len(tokens) == 0 {
				var (
					src io.Reader = cmd.InOrStdin()
					err error
				)
				if sheetPath != "" {
					f, err := a.fs.Open(sheetPath)
					if err != nil {
						return fmt.Errorf("failed to open share sheet: %w", err)
					}
					defer f.Close()
					src = f
				}

				var sheet *format.Reader
				sheet, err = format.NewReader(src)
				if err != nil {
					return err
				}
				tokens = sheet.Tokens
				if sheet.Header != nil && len(tokens) < sheet.Header.Threshold {
					a.logger.Warn("fewer shares than the threshold printed on the sheet, the result will be wrong",
						"shares", len(tokens),
						"threshold", sheet.Header.Threshold)
				}
			}

			resp, err := a.dealer.Combine(&dealer.CombineRequest{Shares: tokens})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.cfg.Output == config.OutputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			_, err = fmt.Fprintln(out, resp.Secret)
			return err
		},
	}

	combineCmd.Flags().StringVarP(&sheetPath, "file", "f", "", "Read shares from a share sheet file")
	combineCmd.Flags().StringP(config.KeyOutput, "o", config.OutputText, "Output format (text, json)")

	return combineCmd
}

func readTokens(r io.Reader) ([]string, error) {
	sheet, err := format.NewReader(r)
	if err != nil {
		return nil, err
	}
	return sheet.Tokens, nil
}
