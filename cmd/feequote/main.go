// Command feequote prints GreekPay fee breakdowns using the configured schedule.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"greekpay/internal/config"
	"greekpay/internal/services/fees"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	config.LoadEnv()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "feequote",
		Short:         "Quote GreekPay processing and platform fees",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(quoteCmd())
	root.AddCommand(scheduleCmd())
	return root
}

func loadCalculator() (*fees.Calculator, error) {
	cfg, err := config.LoadFeeConfig()
	if err != nil {
		return nil, err
	}
	return fees.NewCalculator(fees.ScheduleFromConfig(cfg))
}

// parseMethodFlag accepts the short alias "ach" next to the processor names.
func parseMethodFlag(s string) (fees.Method, error) {
	if strings.EqualFold(s, "ach") {
		return fees.MethodACH, nil
	}
	return fees.ParseMethod(strings.ToLower(s))
}

func quoteCmd() *cobra.Command {
	var (
		amount  float64
		method  string
		asJSON  bool
		compare bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Show what a payer is charged and what the chapter receives",
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := loadCalculator()
			if err != nil {
				return err
			}

			methods := []fees.Method{fees.MethodCard, fees.MethodACH}
			if !compare {
				m, err := parseMethodFlag(method)
				if err != nil {
					return err
				}
				methods = []fees.Method{m}
			}

			breakdowns := make([]*fees.Breakdown, 0, len(methods))
			for _, m := range methods {
				b, err := calc.Breakdown(amount, m)
				if err != nil {
					return err
				}
				breakdowns = append(breakdowns, b)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), breakdowns)
			}
			for _, b := range breakdowns {
				printBreakdown(cmd.OutOrStdout(), b)
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Dues amount in USD")
	cmd.Flags().StringVarP(&method, "method", "m", string(fees.MethodCard), "Payment method (card, ach)")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")
	cmd.Flags().BoolVar(&compare, "compare", false, "Quote every payment method")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func scheduleCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the fee schedule in effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := loadCalculator()
			if err != nil {
				return err
			}
			s := calc.Schedule()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), s)
			}

			hundred := s.CardPercentage.Shift(2)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Card:       %s%% + $%s\n", hundred.String(), s.CardFixed.StringFixed(2))
			fmt.Fprintf(out, "ACH:        %s%% (max $%s)\n", s.ACHPercentage.Shift(2).String(), s.ACHCap.StringFixed(2))
			fmt.Fprintf(out, "Platform:   %s%%\n", s.PlatformPercentage.Shift(2).String())
			fmt.Fprintf(out, "Min charge: $%s\n", s.MinCharge.StringFixed(2))
			fmt.Fprintf(out, "Max amount: $%s\n", s.MaxAmount.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")
	return cmd
}

func printBreakdown(w io.Writer, b *fees.Breakdown) {
	fmt.Fprintf(w, "%s\n", fees.FormatPaymentMethod(b.Method.Code(), ""))
	fmt.Fprintln(w, strings.Repeat("-", 32))
	fmt.Fprintf(w, "  Dues:             $%10.2f\n", b.Amount)
	fmt.Fprintf(w, "  Processor fee:    $%10.2f\n", b.ProcessorFee)
	fmt.Fprintf(w, "  Platform fee:     $%10.2f\n", b.PlatformFee)
	fmt.Fprintf(w, "  Payer charged:    $%10.2f\n", b.TotalCharge)
	fmt.Fprintf(w, "  Chapter receives: $%10.2f\n", b.ChapterReceives)
	fmt.Fprintln(w)
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
