package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/wallet-gateway/internal/domain/wallet"
	walletuc "github.com/ignatzorin/wallet-gateway/internal/usecase/wallet"
)

func newHistoryCmd(current func() *env) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Показать историю транзакций",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := current()
			items, err := walletuc.NewGetHistoryUseCase(e.app.API).Execute(cmd.Context(), walletuc.GetHistoryInput{
				Status:   status,
				Currency: e.currency(),
			})
			if err != nil {
				return err
			}

			return e.render(cmd.OutOrStdout(), items, func(out io.Writer) error {
				if len(items) == 0 {
					_, err := fmt.Fprintln(out, "No transactions")
					return err
				}
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "DATE\tTITLE\tSTATUS\tAMOUNT\tDISPUTE")
				for _, item := range items {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						item.CreatedAt.Format("2006-01-02"),
						item.Title,
						item.Status,
						amountCell(item),
						disputeCell(item),
					)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "фильтр: all, completed, pending, failed")
	return cmd
}

// amountCell помечает зачёркнутые суммы тильдами, как markdown.
func amountCell(item wallet.HistoryItem) string {
	if item.Style.Strikethrough {
		return "~~" + item.DisplayAmount + "~~"
	}
	return item.DisplayAmount
}

func disputeCell(item wallet.HistoryItem) string {
	if item.CanRaiseDispute {
		return "available"
	}
	return ""
}
