package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/domain/patient"
	"github.com/yungbote/maiopinion/internal/store"
)

const wideRule = "========================================================================================================================"

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Inspect and manage the patient database",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every registered patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()
			rows, err := a.Store.All(cmd.Context())
			if err != nil {
				return err
			}
			printPatientTable(cmd.OutOrStdout(), rows)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show follow-up statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()
			rows, err := a.Store.All(cmd.Context())
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), rows, time.Now())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "view <patient-id>",
		Short: "Show one patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()
			p, err := a.Store.Get(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("patient ID '%s' not found", args[0])
			}
			if err != nil {
				return err
			}
			printPatient(cmd.OutOrStdout(), p)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Export the patient database as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := store.Export(cmd.Context(), a.Store, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database exported to: %s\n", args[0])
			return nil
		},
	})

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every patient record",
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			out := cmd.OutOrStdout()
			if !yes && !confirmDelete(cmd.InOrStdin(), out) {
				fmt.Fprintln(out, "Operation cancelled.")
				return nil
			}
			a, err := loadApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.Store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, "Patient database deleted.")
			return nil
		},
	}
	clearCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	cmd.AddCommand(clearCmd)

	return cmd
}

func confirmDelete(in io.Reader, out io.Writer) bool {
	fmt.Fprintln(out, "WARNING: This will delete ALL patient data!")
	fmt.Fprint(out, "Type 'DELETE' to confirm: ")
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(line) == "DELETE"
}

func printPatientTable(out io.Writer, rows []domain.Patient) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No patients registered yet.")
		return
	}
	fmt.Fprintf(out, "\n%s\nPATIENT DATABASE - %d Patient(s) Registered\n%s\n", wideRule, len(rows), wideRule)
	fmt.Fprintf(out, "\n%-4s %-20s %-30s %-25s %-12s %-6s\n", "#", "Patient ID", "Email", "Condition", "Follow-Up", "Sent")
	fmt.Fprintln(out, strings.Repeat("-", len(wideRule)))
	for i, p := range rows {
		fmt.Fprintf(out, "%-4d %-20s %-30s %-25s %-12s %-6s\n",
			i+1, p.ID, p.Email, shortCondition(p.Condition), p.FollowUpDate, p.EmailSent)
	}
	fmt.Fprintln(out, strings.Repeat("-", len(wideRule)))
}

func shortCondition(s string) string {
	r := []rune(s)
	if len(r) > 25 {
		return string(r[:22]) + "..."
	}
	return s
}

func printStats(out io.Writer, rows []domain.Patient, today time.Time) {
	st := patient.Summarize(rows, today)
	fmt.Fprintf(out, "\n%s\nDATABASE STATISTICS\n%s\n", rule[:60], rule[:60])
	fmt.Fprintf(out, "\nTotal Patients:        %d\n", st.Total)
	fmt.Fprintf(out, "Emails Sent:           %d\n", st.Sent)
	fmt.Fprintf(out, "Pending Emails:        %d\n", st.Pending)
	fmt.Fprintf(out, "\nOverdue Follow-ups:    %d\n", st.Overdue)
	fmt.Fprintf(out, "Upcoming Follow-ups:   %d\n", st.Upcoming)
	fmt.Fprintf(out, "\n%s\n", rule[:60])
}

func printPatient(out io.Writer, p domain.Patient) {
	sent := "No"
	if p.Sent() {
		sent = "Yes"
	}
	fmt.Fprintf(out, "\n%s\nPATIENT DETAILS: %s\n%s\n", rule, p.ID, rule)
	fmt.Fprintf(out, "\nEmail:            %s\n", p.Email)
	fmt.Fprintf(out, "Registered:       %s\n", p.CreatedAt)
	fmt.Fprintf(out, "Condition:        %s\n", p.Condition)
	fmt.Fprintf(out, "Diagnosis:        %s\n", p.Diagnosis)
	fmt.Fprintf(out, "\nTreatment Plan:\n   %s\n", p.Treatment)
	fmt.Fprintf(out, "\nFollow-Up:\n")
	fmt.Fprintf(out, "   Timeline:         %s\n", p.FollowUpTimeline)
	fmt.Fprintf(out, "   Scheduled Date:   %s\n", p.FollowUpDate)
	fmt.Fprintf(out, "   Email Sent:       %s\n", sent)
	fmt.Fprintf(out, "\n%s\n", rule)
}

func printRegistered(out io.Writer, rows []domain.Patient) {
	fmt.Fprintf(out, "\n%s\nREGISTERED PATIENTS\n%s\n\n", rule, rule)
	if len(rows) == 0 {
		fmt.Fprintln(out, "No patients registered yet.")
		return
	}
	for i, p := range rows {
		fmt.Fprintf(out, "Patient #%d\n", i+1)
		fmt.Fprintf(out, "  ID: %s\n", p.ID)
		fmt.Fprintf(out, "  Email: %s\n", p.Email)
		fmt.Fprintf(out, "  Condition: %s\n", p.Condition)
		fmt.Fprintf(out, "  Diagnosis: %s\n", p.Diagnosis)
		fmt.Fprintf(out, "  Follow-up Date: %s\n", p.FollowUpDate)
		fmt.Fprintf(out, "  Email Sent: %s\n", p.EmailSent)
		fmt.Fprintf(out, "  Registered: %s\n\n", p.CreatedAt)
	}
}
