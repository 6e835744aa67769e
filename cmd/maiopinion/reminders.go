package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func remindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Follow-up reminder dispatch",
	}

	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Send every follow-up reminder that is due",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, _ := cmd.Flags().GetBool("view")
			noSend, _ := cmd.Flags().GetBool("no-send")
			out := cmd.OutOrStdout()

			a, err := loadApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			if !noSend {
				fmt.Fprintf(out, "%s\nMaiOpinion - Follow-Up Email Scheduler\n%s\n", rule, rule)
				fmt.Fprintf(out, "Current Date: %s\n\nChecking for patients due for follow-up...\n%s\n",
					time.Now().Format("2006-01-02 15:04:05"), thinRule)

				lock, err := a.ScanLock(ctx)
				if err != nil {
					return err
				}
				release, ok, err := lock.Acquire(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("another reminder scan is running")
				}
				n, scanErr := a.Scanner.Scan(ctx)
				_ = release(ctx)
				if scanErr != nil {
					return scanErr
				}
				fmt.Fprintln(out, thinRule)
				if n > 0 {
					fmt.Fprintf(out, "\nSuccessfully sent %d follow-up email(s)!\n", n)
				} else {
					fmt.Fprintln(out, "\nNo follow-up emails due at this time.")
				}
			}

			if view || noSend {
				rows, err := a.Store.All(ctx)
				if err != nil {
					return err
				}
				printRegistered(out, rows)
			}
			return nil
		},
	}
	sendCmd.Flags().Bool("view", false, "List registered patients after sending")
	sendCmd.Flags().Bool("no-send", false, "Only list registered patients")
	cmd.AddCommand(sendCmd)

	return cmd
}
