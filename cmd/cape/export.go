package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cape-app/cape/internal/api"
	"github.com/cape-app/cape/internal/cli"
	"github.com/cape-app/cape/internal/common"
	"github.com/cape-app/cape/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions to CSV",
		Long: `Walk every page of the transaction list and write the records to a
CSV file. Transient backend errors are retried with backoff.`,
		RunE: runExport,
	}

	cmd.Flags().String("output", "transactions.csv", "output file path")
	cmd.Flags().String("month", "", "restrict to a month (2025-01)")
	cmd.Flags().String("from", "", "start date (2006-01-02)")
	cmd.Flags().String("to", "", "end date (2006-01-02)")
	cmd.Flags().Int("page-size", 100, "records fetched per request")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	client, guard, err := initGuard()
	if err != nil {
		return err
	}
	if err := requireSignIn(cmd.Context(), guard); err != nil {
		return err
	}

	interrupts := cli.NewInterruptHandler(os.Stdout)
	ctx := interrupts.HandleInterrupts(cmd.Context(), true)

	output, _ := cmd.Flags().GetString("output")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	if pageSize <= 0 {
		pageSize = 100
	}

	params := model.ListParams{
		SortBy:    model.SortByDate,
		SortOrder: model.SortAsc,
		Limit:     pageSize,
	}
	params.Month, _ = cmd.Flags().GetString("month")
	params.StartDate, _ = cmd.Flags().GetString("from")
	params.EndDate, _ = cmd.Flags().GetString("to")

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"id", "date", "description", "category", "type", "amount", "ai_generated", "created_at"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  4,
		InitialDelay: 500 * time.Millisecond,
	}

	var bar *progressbar.ProgressBar
	exported := 0

	for {
		var pageItems []model.Transaction
		var pagination *api.Pagination

		fetch := func() error {
			var fetchErr error
			pageItems, pagination, fetchErr = client.ListTransactions(ctx, params)
			if fetchErr != nil && common.IsRetryable(fetchErr) {
				return &common.RetryableError{Err: fetchErr, Retryable: true}
			}
			return fetchErr
		}
		if err := common.WithRetry(ctx, fetch, retryOpts); err != nil {
			return fmt.Errorf("failed to fetch page at offset %d: %w", params.Offset, err)
		}

		if bar == nil {
			total := len(pageItems)
			if pagination != nil {
				total = pagination.Total
			}
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Exporting transactions"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(30),
			)
		}

		for i := range pageItems {
			if err := writer.Write(csvRecord(&pageItems[i])); err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
			exported++
			_ = bar.Add(1)
		}

		if pagination == nil || params.Offset+len(pageItems) >= pagination.Total || len(pageItems) == 0 {
			break
		}
		params = params.WithOffset(params.Offset + params.Limit)
	}

	fmt.Println()
	if interrupts.WasInterrupted() {
		return fmt.Errorf("export interrupted after %d records", exported)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d transaksi diekspor ke %s", exported, output)))
	return nil
}

func csvRecord(txn *model.Transaction) []string {
	category, kind := "", "EXPENSE"
	if txn.Category != nil {
		category = txn.Category.Name
		kind = string(txn.Category.Type)
	}

	return []string{
		txn.ID,
		txn.Date,
		txn.Description,
		category,
		kind,
		txn.Amount,
		strconv.FormatBool(txn.IsAiGenerated),
		txn.CreatedAt,
	}
}
