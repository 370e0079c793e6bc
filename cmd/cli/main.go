package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "loanctl",
		Short: "Loan engine CLI tool",
		Long:  `A command line interface for interacting with the loan engine API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the loan engine API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(loansCmd())
	rootCmd.AddCommand(payCmd())
	rootCmd.AddCommand(portfolioCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Loan operations",
	}

	var (
		customerID string
		principal  string
		rate       string
		tenure     int
		frequency  string
		anchorDay  int
		startDate  string
	)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a loan with its amortization schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"customer_id":         customerID,
				"principal":           principal,
				"annual_rate_percent": rate,
				"tenure_periods":      tenure,
				"frequency":           frequency,
				"anchor_day":          anchorDay,
			}
			if startDate != "" {
				payload["start_date"] = startDate
			}
			return doRequest(http.MethodPost, "/api/v1/loans/", payload)
		},
	}
	createCmd.Flags().StringVar(&customerID, "customer", "", "Customer ID")
	createCmd.Flags().StringVar(&principal, "principal", "", "Loan principal")
	createCmd.Flags().StringVar(&rate, "rate", "0", "Annual interest rate percent")
	createCmd.Flags().IntVar(&tenure, "tenure", 0, "Number of installments")
	createCmd.Flags().StringVar(&frequency, "frequency", "monthly", "Repayment frequency (monthly, weekly, daily)")
	createCmd.Flags().IntVar(&anchorDay, "anchor-day", 1, "Day anchor: day of month, weekday, or day interval")
	createCmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, default today)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List loans",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/loans/", nil)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <loan-id>",
		Short: "Show one loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/loans/"+args[0], nil)
		},
	}

	scheduleCmd := &cobra.Command{
		Use:   "schedule <loan-id>",
		Short: "Show a loan's amortization schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/loans/"+args[0]+"/schedule", nil)
		},
	}

	closeCmd := &cobra.Command{
		Use:   "close <loan-id>",
		Short: "Close a fully repaid loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodPost, "/api/v1/loans/"+args[0]+"/close", nil)
		},
	}

	reopenCmd := &cobra.Command{
		Use:   "reopen <loan-id>",
		Short: "Reopen a closed loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodPost, "/api/v1/loans/"+args[0]+"/reopen", nil)
		},
	}

	cmd.AddCommand(createCmd, listCmd, getCmd, scheduleCmd, closeCmd, reopenCmd)
	return cmd
}

func payCmd() *cobra.Command {
	var (
		amount    string
		mode      string
		date      string
		reference string
	)

	cmd := &cobra.Command{
		Use:   "pay <loan-id>",
		Short: "Record a payment against a loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"amount": amount,
				"mode":   mode,
			}
			if date != "" {
				payload["date"] = date
			}
			if reference != "" {
				payload["reference"] = reference
			}
			return doRequest(http.MethodPost, "/api/v1/loans/"+args[0]+"/payments", payload)
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "Payment amount")
	cmd.Flags().StringVar(&mode, "mode", "cash", "Payment mode (cash, upi, bank, cheque)")
	cmd.Flags().StringVar(&date, "date", "", "Payment date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&reference, "reference", "", "External reference")

	return cmd
}

func portfolioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Show the portfolio summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/portfolio/summary", nil)
		},
	}
}

func doRequest(method, path string, payload any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, raw)
	}

	if len(raw) == 0 {
		fmt.Printf("OK (status %d)\n", resp.StatusCode)
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	printJSON(parsed)

	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(out))
}
