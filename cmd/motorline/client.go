package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	motorlinesdk "motorline/sdk/go"
)

func clientFor(url string) *motorlinesdk.Client {
	return motorlinesdk.New(url)
}

func analyzeCmd() *cobra.Command {
	var url, review string
	var year int
	var mileage float64
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Combined valuation and sentiment via the gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := clientFor(url).Analyze(cmd.Context(), year, mileage, review)
			if err != nil {
				return err
			}
			if err := printJSON(res.Results); err != nil {
				return err
			}
			for _, w := range res.Warnings {
				fmt.Fprintln(os.Stderr, "warning:", w)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://127.0.0.1:8080", "gateway base URL")
	cmd.Flags().IntVar(&year, "year", 0, "model year")
	cmd.Flags().Float64Var(&mileage, "mileage", 0, "odometer miles")
	cmd.Flags().StringVar(&review, "review", "", "review text")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("mileage")
	_ = cmd.MarkFlagRequired("review")
	return cmd
}

func tradeCmd() *cobra.Command {
	trade := &cobra.Command{Use: "trade", Short: "Valuation service client"}
	trade.AddCommand(tradeEstimateCmd())
	trade.AddCommand(tradeHistoryCmd())
	return trade
}

func tradeEstimateCmd() *cobra.Command {
	var url string
	var year int
	var mileage float64
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate a trade-in value",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := clientFor(url).TradeIn(cmd.Context(), year, mileage)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://127.0.0.1:5001", "valuation base URL")
	cmd.Flags().IntVar(&year, "year", 0, "model year")
	cmd.Flags().Float64Var(&mileage, "mileage", 0, "odometer miles")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("mileage")
	return cmd
}

func tradeHistoryCmd() *cobra.Command {
	var url string
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Recent trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			trades, err := clientFor(url).TradeHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(trades)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"ID", "Year", "Mileage", "Value", "Created"})
			for _, t := range trades {
				tw.AppendRow(table.Row{t.ID, t.Year, t.Mileage, t.Value, t.CreatedAt})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://127.0.0.1:5001", "valuation base URL")
	cmd.Flags().IntVar(&limit, "limit", 25, "max rows")
	return cmd
}

func reviewCmd() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "review <text>",
		Short: "Score a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := clientFor(url).Review(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://127.0.0.1:5002", "sentiment base URL")
	return cmd
}

func financeCmd() *cobra.Command {
	fin := &cobra.Command{Use: "finance", Short: "Finance service client"}
	fin.AddCommand(financeCalculateCmd())
	fin.AddCommand(financeApproveCmd())
	return fin
}

func financeCalculateCmd() *cobra.Command {
	var url string
	var price, down, rate float64
	var years int
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Amortize a loan",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := clientFor(url).Calculate(cmd.Context(), price, down, years, rate)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://127.0.0.1:6100", "finance base URL")
	cmd.Flags().Float64Var(&price, "price", 0, "vehicle price")
	cmd.Flags().Float64Var(&down, "down-payment", 0, "down payment")
	cmd.Flags().IntVar(&years, "loan-years", 0, "loan term in years")
	cmd.Flags().Float64Var(&rate, "interest-rate", 0, "annual rate in percent")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("loan-years")
	return cmd
}

func financeApproveCmd() *cobra.Command {
	var url string
	var score int
	cmd := &cobra.Command{
		Use:   "approve",
		Short: "Check credit approval",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := clientFor(url).Approve(cmd.Context(), score)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://127.0.0.1:6100", "finance base URL")
	cmd.Flags().IntVar(&score, "credit-score", 0, "credit score")
	_ = cmd.MarkFlagRequired("credit-score")
	return cmd
}

func billingCmd() *cobra.Command {
	bill := &cobra.Command{Use: "billing", Short: "Billing service client"}
	bill.AddCommand(billingPayCmd())
	bill.AddCommand(billingHistoryCmd())
	return bill
}

func billingPayCmd() *cobra.Command {
	var url, card string
	var amount float64
	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Charge a card",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := clientFor(url).Pay(cmd.Context(), amount, card)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://127.0.0.1:6200", "billing base URL")
	cmd.Flags().Float64Var(&amount, "amount", 0, "charge amount")
	cmd.Flags().StringVar(&card, "card-number", "", "card number")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("card-number")
	return cmd
}

func billingHistoryCmd() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List payments",
		RunE: func(cmd *cobra.Command, args []string) error {
			txns, err := clientFor(url).Payments(cmd.Context())
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(txns)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"ID", "Amount", "Card", "Status", "Timestamp"})
			for _, t := range txns {
				tw.AppendRow(table.Row{t.ID, t.Amount, "****" + t.CardLast4, t.Status, t.Timestamp})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://127.0.0.1:6200", "billing base URL")
	return cmd
}
