package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Beastly713/sharesplit/pkg/config"
	"github.com/Beastly713/sharesplit/pkg/dealer"
	"github.com/Beastly713/sharesplit/pkg/format"
	"github.com/spf13/cobra"
)

func newSplitCmd(a *app) *cobra.Command {
	var outPath string

	splitCmd := &cobra.Command{
		Use:   "split [secret]",
		Short: "Split a secret into shares",
		Long: `Split a text secret into N shares. Any T of them recover it.
The secret is read from stdin when no argument is given.

Example:
  sharesplit split "correct horse battery staple" -n 5 -t 3

  This prints 5 shares. Any 3 are needed to recover the secret.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// 1. Read the secret
			var secret string
			if len(args) > 0 {
				secret = args[0]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read secret from stdin: %w", err)
				}
				secret = strings.TrimRight(string(data), "\r\n")
			}

			// 2. Split
			resp, err := a.dealer.Split(&dealer.SplitRequest{
				Secret:    secret,
				Shares:    a.cfg.Shares,
				Threshold: a.cfg.Threshold,
			})
			if err != nil {
				return err
			}

			// 3. Write the shares
			if outPath == "" {
				if err := writeShares(cmd.OutOrStdout(), resp, a.cfg); err != nil {
					return err
				}
			} else {
				f, err := a.fs.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
				if err != nil {
					return fmt.Errorf("failed to create output file %s: %w", outPath, err)
				}
				if err := writeShares(f, resp, a.cfg); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("failed to close output file %s: %w", outPath, err)
				}
			}

			a.logger.Info("secret split", "shares", len(resp.Shares), "threshold", resp.Threshold)
			return nil
		},
	}

	splitCmd.Flags().IntP(config.KeyShares, "n", 5, "Total number of shares to make")
	splitCmd.Flags().IntP(config.KeyThreshold, "t", 3, "Number of shares required to recover (at least 3)")
	splitCmd.Flags().Bool(config.KeyHeaderless, false, "Print bare tokens without the explanatory banner")
	splitCmd.Flags().StringP(config.KeyOutput, "o", config.OutputText, "Output format (text, json)")
	splitCmd.Flags().StringVar(&outPath, "out", "", "Write the share sheet to this file instead of stdout")

	return splitCmd
}

func writeShares(w io.Writer, resp *dealer.SplitResponse, cfg *config.Config) error {
	if cfg.Output == config.OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to encode shares: %w", err)
		}
		return nil
	}

	header := &format.Header{
		Total:     len(resp.Shares),
		Threshold: resp.Threshold,
		Timestamp: time.Now().Unix(),
	}
	if err := format.NewWriter(w).Write(header, resp.Shares, cfg.Headerless); err != nil {
		return fmt.Errorf("failed to write shares: %w", err)
	}
	return nil
}
