package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/pipeline"
)

const rule = "================================================================================"
const thinRule = "--------------------------------------------------------------------------------"

func diagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Run the full diagnostic pipeline on one image",
		RunE: func(cmd *cobra.Command, args []string) error {
			imagePath, _ := cmd.Flags().GetString("image")
			condition, _ := cmd.Flags().GetString("condition")
			email, _ := cmd.Flags().GetString("email")
			noPrompt, _ := cmd.Flags().GetBool("no-prompt")
			save, _ := cmd.Flags().GetBool("save")
			output, _ := cmd.Flags().GetString("output")

			out := cmd.OutOrStdout()
			if _, err := os.Stat(imagePath); err != nil {
				return fmt.Errorf("image file not found: %s", imagePath)
			}
			if email == "" && !noPrompt {
				email = promptEmail(cmd.InOrStdin(), out)
			}

			a, err := loadApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(out, rule)
			fmt.Fprintln(out, "MaiOpinion - Multi-Agent Healthcare Diagnostic Assistant")
			fmt.Fprintln(out, rule)

			report, err := a.Orchestrator.Run(ctx, pipeline.Request{
				ImagePath: imagePath,
				ImageName: filepath.Base(imagePath),
				Condition: condition,
				Email:     email,
			}, progressPrinter(out))
			if err != nil {
				return fmt.Errorf("pipeline failed: %w", err)
			}

			printReport(out, report)
			if save || output != "" {
				path := output
				if path == "" {
					path = defaultReportName(time.Now())
				}
				if err := saveReport(path, report); err != nil {
					return err
				}
				fmt.Fprintf(out, "Report saved to: %s\n", path)
			}
			return printSummary(out, report)
		},
	}
	cmd.Flags().StringP("image", "i", "", "Path to the medical image")
	cmd.Flags().StringP("condition", "c", "", "Patient condition description")
	cmd.Flags().StringP("email", "e", "", "Email address for follow-up reminders")
	cmd.Flags().Bool("no-prompt", false, "Do not ask for an email address")
	cmd.Flags().BoolP("save", "s", false, "Save the report as JSON")
	cmd.Flags().StringP("output", "o", "", "Path of the saved JSON report")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("condition")
	return cmd
}

// promptEmail returns the address typed by the user, or "" when the input
// is empty or has no "@".
func promptEmail(in io.Reader, out io.Writer) string {
	fmt.Fprintln(out, thinRule)
	fmt.Fprintln(out, "FOLLOW-UP EMAIL REGISTRATION")
	fmt.Fprintln(out, thinRule)
	fmt.Fprintln(out, "Would you like to receive automated follow-up reminders via email?")
	fmt.Fprint(out, "Enter your email address (or press Enter to skip): ")

	line, _ := bufio.NewReader(in).ReadString('\n')
	line = strings.TrimSpace(line)
	if line != "" && strings.Contains(line, "@") {
		fmt.Fprintf(out, "You will receive follow-up reminders at: %s\n", line)
		return line
	}
	fmt.Fprintln(out, "Skipping email registration")
	return ""
}

func progressPrinter(out io.Writer) pipeline.Notifier {
	return pipeline.NotifierFunc(func(e pipeline.Event) {
		switch e.Type {
		case pipeline.EventStepStart:
			fmt.Fprintf(out, "\n[STEP %d/5] %s\n%s\n", e.Step, e.Message, thinRule)
		case pipeline.EventStepComplete:
			fmt.Fprintf(out, "  %s\n", e.Message)
			if e.Result != "" {
				fmt.Fprintf(out, "  %s\n", e.Result)
			}
		case pipeline.EventComplete:
			fmt.Fprintf(out, "\n%s\nPipeline Completed Successfully!\n%s\n", rule, rule)
		case pipeline.EventError:
			fmt.Fprintf(out, "\nERROR: %s\n", e.Message)
		}
	})
}

func printReport(out io.Writer, r domain.Report) {
	section := func(title string) {
		fmt.Fprintf(out, "\n%s\n%s\n%s\n", thinRule, title, thinRule)
	}

	fmt.Fprintf(out, "\n%s\nFINAL DIAGNOSTIC REPORT\n%s\n", rule, rule)
	fmt.Fprintf(out, "\nTimestamp: %s\n", r.Timestamp)
	fmt.Fprintf(out, "Patient Condition: %s\n", r.PatientCondition)
	fmt.Fprintf(out, "Image Analyzed: %s\n", r.ImageAnalyzed)

	fmt.Fprintf(out, "\n%s\nIMAGE DETECTION\n%s\n", rule, rule)
	fmt.Fprintf(out, "   Image Type: %s\n", orNA(string(r.ImageType)))
	fmt.Fprintf(out, "   Body Part: %s\n", orNA(r.BodyPart))
	fmt.Fprintf(out, "   Imaging Modality: %s\n", orNA(r.ImagingModality))
	fmt.Fprintf(out, "   Detection Confidence: %s\n", strings.ToUpper(orNA(string(r.DetectionConfidence))))

	section("FINDINGS")
	fmt.Fprintf(out, "   %s\n", r.Finding)

	section("DIAGNOSIS")
	fmt.Fprintf(out, "   %s\n", r.Diagnosis)
	fmt.Fprintf(out, "   Confidence: %s\n", strings.ToUpper(string(r.Confidence)))

	section("TREATMENT PLAN")
	fmt.Fprintf(out, "   %s\n", r.Treatment)
	if len(r.Precautions) > 0 {
		fmt.Fprintln(out, "\n   Precautions:")
		for i, p := range r.Precautions {
			fmt.Fprintf(out, "   %d. %s\n", i+1, p)
		}
	}

	section("FOLLOW-UP CARE")
	fmt.Fprintf(out, "   Timeline: %s\n", r.Timeline)
	fmt.Fprintf(out, "   %s\n", r.FollowUp)
	fmt.Fprintln(out, "\n   Patient Instructions:")
	fmt.Fprintf(out, "   %s\n", r.PatientInstructions)
	if r.EmailRegistered {
		fmt.Fprintf(out, "\n   Registered for reminders as %s\n", r.PatientID)
	}
	fmt.Fprintf(out, "\n%s\n\n", rule)
}

type summary struct {
	Finding   string `json:"finding"`
	Diagnosis string `json:"diagnosis"`
	Treatment string `json:"treatment"`
	FollowUp  string `json:"follow_up"`
}

func printSummary(out io.Writer, r domain.Report) error {
	fmt.Fprintf(out, "\n%s\nJSON OUTPUT\n%s\n", rule, rule)
	b, err := json.MarshalIndent(summary{
		Finding:   r.Finding,
		Diagnosis: r.Diagnosis,
		Treatment: r.Treatment,
		FollowUp:  r.FollowUp,
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n\n", b)
	return nil
}

func defaultReportName(now time.Time) string {
	return "diagnostic_report_" + now.Format("20060102_150405") + ".json"
}

func saveReport(path string, r domain.Report) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
