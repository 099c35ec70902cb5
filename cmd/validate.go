package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"easyapp_server/internal/appeasy"
)

var errInvalidAppTree = errors.New("app.easy has errors")

var validateAdID string

var validateCmd = &cobra.Command{
	Use:   "validate <app.easy>",
	Short: "Check a tree/app.easy document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return runValidate(string(raw), validateAdID, cmd.OutOrStdout())
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateAdID, "ad-id", "", "AdMob app ID the document must carry")
}

func runValidate(raw, adID string, stdout io.Writer) error {
	report, err := appeasy.Check(raw, adID)
	if err != nil {
		return err
	}
	for _, issue := range report.Issues {
		fmt.Fprintf(stdout, "%-7s %s: %s\n", issue.Severity, issue.Field, issue.Message)
	}
	if !report.Valid() {
		return errInvalidAppTree
	}
	fmt.Fprintln(stdout, "ok")
	return nil
}
