package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/readywait/internal/logging"
	"github.com/hamed0406/readywait/internal/notify"
	"github.com/hamed0406/readywait/internal/probe"
	"github.com/hamed0406/readywait/internal/readiness"
)

// WaitOptions holds options for the wait command
type WaitOptions struct {
	*GlobalOptions

	// Timeout is the total deadline; zero means "use config".
	Timeout time.Duration

	// Interval is the poll cadence; zero means "use config".
	Interval time.Duration

	// ProbeTimeout bounds each GET; zero means "use config".
	ProbeTimeout time.Duration

	// Expect is the content signature; empty means "use config".
	Expect string

	// Webhook receives a ready/timeout notification; empty means "use config".
	Webhook string

	// Quiet suppresses the success line (exit code still reports the verdict)
	Quiet bool
}

// NewWaitCommand creates the wait command, the main operation of the tool.
//
// Usage:
//
//	readywait wait URL [URL...]
//
// URLs are candidate endpoints in priority order. They may also come from
// CANDIDATES or a config file, in which case the positional arguments are
// optional.
func NewWaitCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &WaitOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "wait URL [URL...]",
		Short: "Poll candidate URLs until one is ready or the deadline passes",
		Long: `Poll the candidate URLs until one answers 2xx or the deadline elapses.

Candidates are probed sequentially in the order given, once per polling
round; the first 2xx ends the wait. With --expect, the winning body is also
checked for the given substring (case-insensitive). A missing signature is
reported but never turns a reachable endpoint into a failure.

Exit status is 0 when an endpoint became ready and 1 otherwise; a timeout
prints every candidate tried and the total time waited.

Examples:
  # Wait up to two minutes for a web UI on either of two ports
  readywait wait http://127.0.0.1:3000/ http://127.0.0.1:8080/

  # Expect the page to actually be the chat UI
  readywait wait http://127.0.0.1:3000/ --expect "open webui" --timeout 90s

  # Candidates from a config file, ping a webhook on the verdict
  readywait wait --config readywait.yaml --webhook https://hooks.example.com/T123`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWait(opts, args)
		},
	}

	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0,
		"total deadline (default 2m, or WAIT_TIMEOUT_MS/config)")
	cmd.Flags().DurationVar(&opts.Interval, "interval", 0,
		"polling cadence (default 1s)")
	cmd.Flags().DurationVar(&opts.ProbeTimeout, "probe-timeout", 0,
		"per-request timeout (default 3s, capped below the interval)")
	cmd.Flags().StringVar(&opts.Expect, "expect", "",
		"substring expected in the response body (advisory)")
	cmd.Flags().StringVar(&opts.Webhook, "webhook", "",
		"URL notified of the verdict")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false,
		"suppress the success line")

	return cmd
}

// runWait executes the wait command logic
func runWait(opts *WaitOptions, args []string) error {
	cfg, err := loadConfig(opts.GlobalOptions)
	if err != nil {
		return err
	}

	candidates := args
	if len(candidates) == 0 {
		candidates = cfg.Candidates
	}
	if opts.Timeout == 0 {
		opts.Timeout = cfg.Timeout
	}
	if opts.Interval == 0 {
		opts.Interval = cfg.PollInterval
	}
	if opts.ProbeTimeout == 0 {
		opts.ProbeTimeout = cfg.ProbeTimeout
	}
	if opts.Expect == "" {
		opts.Expect = cfg.Signature
	}
	if opts.Webhook == "" {
		opts.Webhook = cfg.WebhookURL
	}

	logger := logging.NewConsole(opts.Verbose)
	defer logger.Sync()

	// Ctrl+C cancels the wait; probes are short enough that this lands fast.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awaiter := readiness.New(logger)
	rep, err := awaiter.Await(ctx, readiness.Options{
		Candidates:   candidates,
		Timeout:      opts.Timeout,
		PollInterval: opts.Interval,
		ProbeTimeout: opts.ProbeTimeout,
		Signature:    opts.Expect,
	})

	if err != nil {
		announce(opts.Webhook, "service not ready", err.Error())

		var te *readiness.TimeoutError
		if errors.As(err, &te) {
			fmt.Fprintf(os.Stderr, "✖ no endpoint became ready after %s (%d rounds)\n",
				te.Elapsed.Round(time.Millisecond), te.Rounds)
			for _, c := range te.Candidates {
				fmt.Fprintf(os.Stderr, "  tried %s\n", c)
			}
			fmt.Fprintln(os.Stderr, "  the service may still be starting; check its logs")
			return errors.New("wait timed out")
		}
		return err
	}

	if !opts.Quiet {
		mark := "✔"
		note := ""
		if opts.Expect != "" && rep.Outcome != probe.OutcomeVerified {
			mark = "⚠"
			note = fmt.Sprintf(" (up, but body lacks %q)", opts.Expect)
		}
		fmt.Printf("%s ready: %s after %s (%d rounds)%s\n",
			mark, rep.URL, rep.Elapsed.Round(time.Millisecond), rep.Rounds, note)
	}
	announce(opts.Webhook, "service ready", rep.URL)
	return nil
}

// announce fires the optional webhook; failures never change the verdict.
func announce(url, title, text string) {
	wh := notify.NewWebhook(url)
	if wh == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := wh.Send(ctx, title, text); err != nil {
		fmt.Fprintf(os.Stderr, "warning: webhook failed: %v\n", err)
	}
}
