// till is a terminal point-of-sale client: a cashier screen built around a
// keyboard-wedge barcode scanner, a customer-facing price kiosk, and a
// back-office screen, all against the same REST backend.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"till/cmd/till/admin"
	"till/cmd/till/kiosk"
	"till/cmd/till/pos"
	"till/internal/api"
	"till/internal/catalog"
	"till/internal/config"
	"till/internal/importer"
	"till/internal/logging"
	"till/internal/session"
)

// Set by the release build.
var version = "dev"

var (
	cfgPath string
	verbose bool

	cfg      *config.Config
	logger   *zap.Logger
	sessions *session.Store
)

var rootCmd = &cobra.Command{
	Use:   "till",
	Short: "till - terminal point of sale",
	Long: `till is a point-of-sale terminal for the barcode era.

Run without arguments to open the cashier screen: scan items with a
keyboard-wedge scanner, search by name, take cash or card, submit the sale.

Subcommands cover login, the customer price kiosk, the back office, and
bulk product import.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = logging.New(logging.ResolvePath(cfg.Logging.File), cfg.Logging.Level, verbose)
		if err != nil {
			return err
		}
		sessions = session.NewStore(session.DefaultPath())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCashier()
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in and save the session",
	Long: `Authenticates against the backend and stores the bearer token for the
other commands. With --pin, uses the quick PIN login instead of a password.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

var loginPIN string

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sessions.Clear(); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	},
}

var kioskCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "Run the customer-facing price checker",
	Long: `Full-screen price checker for a customer kiosk. Uses the public
price-check endpoint, so no login is needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := api.New(cfg.Server.BaseURL,
			api.WithTimeout(cfg.ServerTimeout()),
			api.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		m := kiosk.New(client, cfg, logger)
		defer m.Close()
		_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Open the back-office screen",
	Long: `Product and stock management, the sales ledger with voiding, the daily
report, and operator accounts. Requires an admin or manager login.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, user, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}
		if user.Role != "admin" && user.Role != "manager" {
			return fmt.Errorf("user %s is a %s; admin or manager required", user.Username, user.Role)
		}
		m := admin.New(client, cfg, *user, logger)
		_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	},
}

var (
	importWatch bool

	importCmd = &cobra.Command{
		Use:   "import [file-or-directory]",
		Short: "Bulk-import products from CSV",
		Long: `Imports products from a CSV file with a header row. Required columns:
barcode, name, price. Optional: cost, stock, min_stock, sell_by_weight,
description.

With --watch, the argument is a directory: every CSV dropped into it is
imported automatically.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("till %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	loginCmd.Flags().StringVar(&loginPIN, "pin", "", "log in with a PIN instead of a password")
	importCmd.Flags().BoolVar(&importWatch, "watch", false, "watch a directory for CSV files")

	rootCmd.AddCommand(loginCmd, logoutCmd, kioskCmd, adminCmd, importCmd, versionCmd)
}

// authedClient builds an API client from the saved session and verifies the
// token is still accepted.
func authedClient(ctx context.Context) (*api.Client, *catalog.User, error) {
	sess, err := sessions.Load()
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, fmt.Errorf("not logged in; run `till login` first")
	}

	client, err := api.New(cfg.Server.BaseURL,
		api.WithTimeout(cfg.ServerTimeout()),
		api.WithTokenSource(sessions),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ServerTimeout())
	defer cancel()
	user, err := client.Me(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("session check failed (token expired?): %w", err)
	}
	return client, user, nil
}

func runCashier() error {
	client, user, err := authedClient(context.Background())
	if err != nil {
		return err
	}
	logger.Info("cashier screen starting",
		zap.String("user", user.Username),
		zap.String("server", cfg.Server.BaseURL))

	m := pos.New(client, cfg, *user, logger)
	defer m.Close()
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, err := api.New(cfg.Server.BaseURL,
		api.WithTimeout(cfg.ServerTimeout()),
		api.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var tok *catalog.Token
	if loginPIN != "" {
		tok, err = client.LoginPIN(ctx, loginPIN)
	} else {
		username := ""
		if len(args) > 0 {
			username = args[0]
		} else {
			fmt.Print("username: ")
			r := bufio.NewReader(os.Stdin)
			line, rerr := r.ReadString('\n')
			if rerr != nil {
				return rerr
			}
			username = strings.TrimSpace(line)
		}
		fmt.Print("password: ")
		pw, perr := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if perr != nil {
			return perr
		}
		tok, err = client.Login(ctx, username, string(pw))
	}
	if err != nil {
		return err
	}

	if err := sessions.Save(session.Session{
		Token:   tok.AccessToken,
		User:    tok.User,
		SavedAt: time.Now(),
	}); err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", tok.User.Username, tok.User.Role)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	client, user, err := authedClient(cmd.Context())
	if err != nil {
		return err
	}
	logger.Info("import starting", zap.String("user", user.Username), zap.String("path", args[0]))

	im := importer.New(client, logger)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if importWatch {
		w := importer.NewWatcher(im, logger)
		w.OnImport = func(path string, rep importer.Report, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				return
			}
			fmt.Printf("%s: %s\n", path, rep)
		}
		fmt.Printf("watching %s (ctrl+c to stop)\n", args[0])
		return w.Watch(ctx, args[0])
	}

	rep, err := im.ImportFile(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(rep)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
