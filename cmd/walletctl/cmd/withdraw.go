package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ignatzorin/wallet-gateway/internal/domain/wallet"
	"github.com/ignatzorin/wallet-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/wallet-gateway/internal/usecase/withdrawal"
)

type withdrawOptions struct {
	method string
	amount string
	fields []string
	dryRun bool
}

func newWithdrawCmd(current func() *env) *cobra.Command {
	opts := &withdrawOptions{}

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Создать заявку на вывод",
		Long: `Проверяет форму так же, как страница вывода, и отправляет заявку.
С --dry-run только показывает ошибки и расчёт комиссии.`,
		Example: `  walletctl withdraw --method bank --amount 100 --field account_number=12345678
  walletctl withdraw --method upi --amount 840 --currency INR --field upi_id=me@bank --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(opts.fields)
			if err != nil {
				return err
			}
			e := current()
			if opts.dryRun {
				return runQuote(cmd, e, opts, fields)
			}
			return runSubmit(cmd, e, opts, fields)
		},
	}
	cmd.Flags().StringVar(&opts.method, "method", "", "код способа вывода")
	cmd.Flags().StringVar(&opts.amount, "amount", "", "сумма в валюте отображения")
	cmd.Flags().StringArrayVar(&opts.fields, "field", nil, "реквизит в виде name=value, можно повторять")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "только проверить форму и посчитать комиссию")
	_ = cmd.MarkFlagRequired("method")
	return cmd
}

// parseFields разбирает name=value. Значение может содержать '='.
func parseFields(raw []string) (map[string]string, error) {
	fields := make(map[string]string, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("--field %q: ожидается name=value", kv)
		}
		fields[name] = value
	}
	return fields, nil
}

func runQuote(cmd *cobra.Command, e *env, opts *withdrawOptions, fields map[string]string) error {
	quote, err := withdrawal.NewQuoteUseCase(e.app.API, e.app.API).Execute(cmd.Context(), withdrawal.QuoteInput{
		MethodCode: opts.method,
		Amount:     opts.amount,
		Fields:     fields,
		Currency:   e.currency(),
	})
	if err != nil {
		return err
	}

	return e.render(cmd.OutOrStdout(), quote, func(out io.Writer) error {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "Method\t%s\n", quote.Method)
		fmt.Fprintf(tw, "Available balance\t%s\n", quote.AvailableBalance)
		if quote.Summary != nil {
			writeSummary(tw, *quote.Summary)
		}
		for _, field := range quote.Errors.Fields() {
			fmt.Fprintf(tw, "Error: %s\t%s\n", field, quote.Errors[field])
		}
		fmt.Fprintf(tw, "Ready to submit\t%s\n", yesNo(quote.CanSubmit))
		return tw.Flush()
	})
}

func runSubmit(cmd *cobra.Command, e *env, opts *withdrawOptions, fields map[string]string) error {
	out, err := withdrawal.NewSubmitWithdrawalUseCase(e.app.API, e.app.API, e.app.API, nil, nil, "").Execute(cmd.Context(), withdrawal.SubmitWithdrawalInput{
		UserID:     uuid.Nil,
		MethodCode: opts.method,
		Amount:     opts.amount,
		Fields:     fields,
		Currency:   e.currency(),
	})
	if err != nil {
		return describe(cmd.ErrOrStderr(), err)
	}

	return e.render(cmd.OutOrStdout(), out, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "Withdrawal\t#%d\n", out.Withdrawal.ID)
		fmt.Fprintf(tw, "Status\t%s\n", out.Withdrawal.Status)
		writeSummary(tw, out.Summary)
		return tw.Flush()
	})
}

func writeSummary(tw *tabwriter.Writer, s wallet.FeeSummary) {
	fmt.Fprintf(tw, "Amount\t%s\n", s.Amount)
	fmt.Fprintf(tw, "Fee\t%s\n", s.Fee)
	fmt.Fprintf(tw, "You will receive\t%s\n", s.Total)
	fmt.Fprintf(tw, "Processing time\t%dh\n", s.ProcessingTime)
}

// describe печатает ошибки по полям и подсказку перехода, затем возвращает ошибку как есть.
func describe(w io.Writer, err error) error {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return err
	}
	fields := make([]string, 0, len(appErr.Fields))
	for field := range appErr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(w, "  %s: %s\n", field, strings.Join(appErr.Fields[field], ", "))
	}
	if appErr.Redirect != "" {
		fmt.Fprintf(w, "  see: %s\n", appErr.Redirect)
	}
	return err
}
