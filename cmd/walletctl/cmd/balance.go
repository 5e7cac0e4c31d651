package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	walletuc "github.com/ignatzorin/wallet-gateway/internal/usecase/wallet"
)

func newBalanceCmd(current func() *env) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Показать баланс и заработок",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := current()
			overview, err := walletuc.NewGetOverviewUseCase(e.app.API, e.app.API).Execute(cmd.Context(), e.currency())
			if err != nil {
				return err
			}

			s := overview.Summary
			return e.render(cmd.OutOrStdout(), s, func(out io.Writer) error {
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "Available balance\t%s\n", s.AvailableBalance)
				fmt.Fprintf(tw, "Pending earnings\t%s\n", s.PendingEarnings)
				fmt.Fprintf(tw, "Total earnings\t%s\n", s.TotalEarnings)
				fmt.Fprintf(tw, "Total withdrawn\t%s\n", s.TotalWithdrawn)
				fmt.Fprintf(tw, "Referral earnings\t%s\n", s.ReferralEarnings)
				if s.ReferralCode != "" {
					fmt.Fprintf(tw, "Referral code\t%s\n", s.ReferralCode)
				}
				fmt.Fprintf(tw, "Verified\t%s\n", yesNo(s.Verified))
				fmt.Fprintf(tw, "Can withdraw\t%s\n", yesNo(s.CanWithdraw && s.Verified))
				return tw.Flush()
			})
		},
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
