package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/wallet-gateway/internal/config"
	"github.com/ignatzorin/wallet-gateway/internal/domain/repository"
	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/wallet-gateway/internal/infrastructure/walletapi"
	"github.com/ignatzorin/wallet-gateway/internal/logger"
)

// Backend — операции backend кошелька, которые использует CLI.
type Backend interface {
	repository.MethodCatalog
	repository.WithdrawalGateway
	repository.ProfileReader
	repository.TransactionReader
}

// App — зависимости команд.
type App struct {
	API        Backend
	Currencies valueobject.CurrencySet
	Token      string
}

// LoadApp собирает App из окружения (WALLET_API_URL, WALLET_TOKEN, WALLET_CURRENCY, INR_PER_USD).
func LoadApp() (*App, error) {
	cfg, err := config.LoadCLI()
	if err != nil {
		return nil, err
	}
	if cfg.Token == "" {
		return nil, errors.New("WALLET_TOKEN не задан")
	}
	return &App{
		API:        walletapi.NewClient(cfg.WalletAPIURL, cfg.Timeout, nil),
		Currencies: cfg.Currencies(),
		Token:      cfg.Token,
	}, nil
}

type rootOptions struct {
	currency string
	json     bool
	verbose  bool
}

// NewRootCmd строит дерево команд. load вызывается один раз перед первой командой.
func NewRootCmd(load func() (*App, error)) *cobra.Command {
	opts := &rootOptions{}
	var app *App

	root := &cobra.Command{
		Use:           "walletctl",
		Short:         "Кошелёк из командной строки",
		Long:          `Баланс, история транзакций, способы вывода и заявки на вывод через backend кошелька.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "error"
			if opts.verbose {
				level = "debug"
			}
			logger.Init(level, false)
			logger.Get().SetOutput(cmd.ErrOrStderr())

			loaded, err := load()
			if err != nil {
				return err
			}
			app = loaded
			cmd.SetContext(walletapi.WithToken(contextOf(cmd), app.Token))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.currency, "currency", "", "валюта отображения: USD или INR")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "вывод в JSON")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "подробные логи")

	current := func() *env { return &env{app: app, opts: opts} }
	root.AddCommand(
		newBalanceCmd(current),
		newHistoryCmd(current),
		newMethodsCmd(current),
		newWithdrawCmd(current),
	)

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\n\n%s", err, cmd.UsageString())
	})
	return root
}

// env — то, что нужно команде во время выполнения.
type env struct {
	app  *App
	opts *rootOptions
}

func (e *env) currency() valueobject.Currency {
	if e.opts.currency != "" {
		return e.app.Currencies.Resolve(e.opts.currency)
	}
	return e.app.Currencies.Default()
}

// render пишет v как JSON при --json, иначе вызывает table.
func (e *env) render(out io.Writer, v any, table func(io.Writer) error) error {
	if e.opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return table(out)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
