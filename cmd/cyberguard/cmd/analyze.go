package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/good-yellow-bee/cyberguard/internal/models"
	"github.com/good-yellow-bee/cyberguard/internal/scanner"
)

var analyzeTimeout time.Duration

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a security tool from the command line",
	Long: `Analyze a URL, password, filename or file hash, or look up an email
address or phone number in the simulated leak database.

Examples:
  cyberguard analyze url https://example.com/login
  cyberguard analyze password
  cyberguard analyze file invoice.pdf.exe -o json
  cyberguard analyze hash 44d88612fea8a8f36de82e1278abb02f
  cyberguard analyze leak user@example.com`,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.PersistentFlags().DurationVar(&analyzeTimeout, "timeout", time.Minute, "overall timeout")

	analyzeCmd.AddCommand(&cobra.Command{
		Use:   "url <url>",
		Short: "Assess a URL for phishing and malware risk",
		Args:  cobra.ExactArgs(1),
		RunE: withScanner(func(ctx context.Context, sc *scanner.Scanner, w io.Writer, args []string) error {
			result, err := sc.CheckURL(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(w, result, func(tw *tabwriter.Writer) {
				writeAnalysis(tw, result)
			})
		}),
	})

	analyzeCmd.AddCommand(&cobra.Command{
		Use:   "password [password]",
		Short: "Score password strength (prompts without echo when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withScanner(func(ctx context.Context, sc *scanner.Scanner, w io.Writer, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				var err error
				if password, err = readPassword(w); err != nil {
					return fmt.Errorf("read password: %w", err)
				}
			}
			result, err := sc.CheckPassword(ctx, password)
			if err != nil {
				return err
			}
			return printResult(w, result, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "Score:\t%d/100 (%s)\n", result.Score, result.Strength())
				fmt.Fprintf(tw, "Explanation:\t%s\n", result.Explanation)
				for _, s := range result.Suggestions {
					fmt.Fprintf(tw, "Suggestion:\t%s\n", s)
				}
			})
		}),
	})

	analyzeCmd.AddCommand(&cobra.Command{
		Use:   "file <filename>",
		Short: "Assess a filename and trigger an automated response when high risk",
		Args:  cobra.ExactArgs(1),
		RunE: withScanner(func(ctx context.Context, sc *scanner.Scanner, w io.Writer, args []string) error {
			report, err := sc.ScanFile(ctx, args[0])
			if err != nil {
				return err
			}
			return printReport(w, report)
		}),
	})

	analyzeCmd.AddCommand(&cobra.Command{
		Use:   "hash <md5|sha1|sha256>",
		Short: "Check a file hash against threat intelligence",
		Args:  cobra.ExactArgs(1),
		RunE: withScanner(func(ctx context.Context, sc *scanner.Scanner, w io.Writer, args []string) error {
			report, err := sc.ScanHash(ctx, args[0])
			if err != nil {
				return err
			}
			return printReport(w, report)
		}),
	})

	analyzeCmd.AddCommand(&cobra.Command{
		Use:   "leak <email|phone>",
		Short: "Look up an email address or phone number in the simulated leak database",
		Args:  cobra.ExactArgs(1),
		RunE: withScanner(func(ctx context.Context, sc *scanner.Scanner, w io.Writer, args []string) error {
			report, err := sc.CheckLeak(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(w, report, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "Query:\t%s\n", report.Query)
				fmt.Fprintf(tw, "Found:\t%t\n", report.Found)
				fmt.Fprintf(tw, "Result:\t%s\n", report.Message)
			})
		}),
	})
}

type toolFunc func(ctx context.Context, sc *scanner.Scanner, w io.Writer, args []string) error

// withScanner builds the analyzer and a scanner and runs fn with a
// cancellable context.
func withScanner(fn toolFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		analyzer, err := newAnalyzer(cfg, log)
		if err != nil {
			return err
		}
		sc := scanner.New(analyzer, scanner.Config{
			ActionCapacity: cfg.Simulation.ActionCapacity,
			LeakDelay:      cfg.Simulation.LeakDelay.Duration,
		}, nil, nil, nil, log.Named("scanner"))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, analyzeTimeout)
		defer cancel()

		return fn(ctx, sc, cmd.OutOrStdout(), args)
	}
}

// readPassword prompts on the terminal without echo, falling back to a line
// from stdin when it is not a terminal.
func readPassword(w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(w, "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printResult(w io.Writer, v any, table func(tw *tabwriter.Writer)) error {
	if output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}

func writeAnalysis(tw *tabwriter.Writer, r models.AnalysisResult) {
	fmt.Fprintf(tw, "Risk:\t%s\n", r.RiskLevel)
	fmt.Fprintf(tw, "Summary:\t%s\n", r.Summary)
	if r.Recommendations != "" {
		fmt.Fprintf(tw, "Recommendations:\t%s\n", r.Recommendations)
	}
}

func printReport(w io.Writer, report scanner.ScanReport) error {
	return printResult(w, report, func(tw *tabwriter.Writer) {
		writeAnalysis(tw, report.Result)
		if report.Alert != nil {
			fmt.Fprintf(tw, "Alert:\t%s\n", report.Alert.Message)
		}
		if report.Action != nil {
			fmt.Fprintf(tw, "Action:\t%s [%s, %s]\n", report.Action.Action, report.Action.Trigger, report.Action.Status)
		}
	})
}
