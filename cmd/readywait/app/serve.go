package app

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/readywait/internal/httpapi"
	"github.com/hamed0406/readywait/internal/logging"
	"github.com/hamed0406/readywait/internal/notify"
	"github.com/hamed0406/readywait/internal/readiness"
	"github.com/hamed0406/readywait/internal/repo/memory"
)

// ServeOptions holds options for the serve command
type ServeOptions struct {
	*GlobalOptions

	// Addr overrides the bind address; empty means "use config".
	Addr string
}

// NewServeCommand creates the serve command, which exposes wait sessions
// over a small HTTP API.
func NewServeCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &ServeOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the readiness-wait HTTP API",
		Long: `Run an HTTP API that accepts wait sessions.

POST /api/waits runs one session synchronously and answers with the report
(200 on ready, 504 on timeout, 400 on bad options). GET /api/waits lists
recently completed reports; nothing is persisted across restarts.

Set API_KEYS (or api_keys in the config file) to require a key on /api
routes; without keys the API is open, which is fine on a loopback address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "",
		"bind address (default 127.0.0.1:8421, or ADDR/config)")

	return cmd
}

// runServe executes the serve command logic
func runServe(opts *ServeOptions) error {
	cfg, err := loadConfig(opts.GlobalOptions)
	if err != nil {
		return err
	}
	addr := opts.Addr
	if addr == "" {
		addr = cfg.Addr
	}

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var notifier notify.Notifier
	if wh := notify.NewWebhook(cfg.WebhookURL); wh != nil {
		notifier = wh
	}

	store := memory.New()
	awaiter := readiness.New(logger)
	srv := httpapi.NewServer(logger, store, awaiter, notifier)

	logger.Info("api_listen", zap.String("addr", addr))
	return http.ListenAndServe(addr, srv.Router(cfg.APIKeys, cfg.MaxInflight))
}
