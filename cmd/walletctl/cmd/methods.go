package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/wallet-gateway/internal/models"
)

func newMethodsCmd(current func() *env) *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "Показать способы вывода",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := current()
			methods, err := e.app.API.ListMethods(cmd.Context())
			if err != nil {
				return err
			}

			cur := e.currency()
			return e.render(cmd.OutOrStdout(), methods, func(out io.Writer) error {
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "CODE\tNAME\tMIN\tMAX\tFEE\tPROCESSING\tFIELDS")
				for _, m := range methods {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%dh\t%s\n",
						m.Code,
						m.Name,
						cur.Format(m.MinAmount),
						maxCell(m, cur),
						feeCell(m),
						m.ProcessingTime,
						fieldsCell(m.RequiredFields),
					)
				}
				return tw.Flush()
			})
		},
	}
}

func maxCell(m models.PaymentMethod, cur valueobject.Currency) string {
	if !m.MaxAmount.Valid {
		return "-"
	}
	return cur.Format(m.MaxAmount.Decimal)
}

// feeCell показывает комиссию так же, как она считается: фиксированная часть плюс процент от суммы.
func feeCell(m models.PaymentMethod) string {
	switch {
	case m.FeeFixed.IsZero() && m.FeePercentage.IsZero():
		return "free"
	case m.FeePercentage.IsZero():
		return m.FeeFixed.StringFixed(2)
	case m.FeeFixed.IsZero():
		return m.FeePercentage.String() + "%"
	}
	return m.FeeFixed.StringFixed(2) + " + " + m.FeePercentage.String() + "%"
}

func fieldsCell(fields []string) string {
	if len(fields) == 0 {
		return "-"
	}
	return strings.Join(fields, ",")
}
