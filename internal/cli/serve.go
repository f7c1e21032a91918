package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"mcquiz/internal/history"
	"mcquiz/internal/web"
)

// serveWeb is a test seam for running the quiz server.
var serveWeb = web.Serve

// runServe builds the handler for the serve command.
func runServe(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to .mcquiz.yml (default: search upward)")
		addr := fs.String("addr", "", "Address to listen on (overrides server.addr)")
		secure := fs.Bool("secure-cookie", false, "Mark the session cookie Secure")
		if code, ok := parseFlags(cmd, fs, args, stdout, stderr); !ok {
			return code
		}
		if fs.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Config error:\n%v\n", err)
			return ExitError
		}
		if strings.TrimSpace(*addr) != "" {
			cfg.Server.Addr = strings.TrimSpace(*addr)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := newLogger(stderr)
		app, err := openGame(ctx, cfg, history.SourceWeb, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Startup failed: %v\n", err)
			return ExitError
		}
		defer func() {
			if err := app.Close(); err != nil {
				logger.Printf("close: %v", err)
			}
		}()

		webCfg := web.Config{
			Addr:           cfg.Server.Addr,
			Game:           app.service,
			CookieName:     cfg.Session.CookieName,
			CookieTTL:      cfg.SessionTTL(),
			SecureCookie:   *secure,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Logger:         logger,
		}
		fmt.Fprintf(stdout, "Serving quiz at http://%s\n", webCfg.Addr)
		if err := serveWeb(ctx, webCfg); err != nil {
			fmt.Fprintf(stderr, "Server error: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
