// Command swapctl drives a swap coordinator over its HTTP API.
//
// Usage:
//
//	swapctl [-url URL] [-o json|yaml] <command> [flags] [offer-id]
//
// Commands: create, accept, lock, claim, refund, expire, get, list, secret.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainsafe/swap-coordinator/pkg/offer"
	"github.com/chainsafe/swap-coordinator/pkg/swapclient"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitUnavailable = 20
)

// exitCodes maps rejection reasons to process exit codes.
var exitCodes = map[string]int{
	"InvalidTerms":      10,
	"NotFound":          11,
	"AlreadyTaken":      12,
	"InvalidTransition": 13,
	"HashMismatch":      14,
	"ExpiryViolation":   15,
	"StaleEvent":        16,
	"Conflict":          17,
}

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("swapctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	baseURL := global.String("url", envOr("SWAPCTL_URL", "http://localhost:8080"), "Coordinator base URL")
	output := global.String("o", "json", "Output format: json or yaml")
	token := global.String("token", os.Getenv("SWAPCTL_TOKEN"), "Bearer token for chain event submissions")
	timeout := global.Duration("timeout", 30*time.Second, "Request timeout")
	global.Usage = func() {
		fmt.Fprintln(stderr, "usage: swapctl [flags] <create|accept|lock|claim|refund|expire|get|list|secret> [command flags] [offer-id]")
		global.PrintDefaults()
	}
	if err := global.Parse(args); err != nil {
		return exitUsage
	}
	if global.NArg() == 0 {
		global.Usage()
		return exitUsage
	}

	format, err := parseFormat(*output)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	var opts []swapclient.Option
	if *token != "" {
		opts = append(opts, swapclient.WithBearerToken(*token))
	}
	client, err := swapclient.New(*baseURL, opts...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	cmd := &command{client: client, out: stdout, errOut: stderr, format: format}
	err = cmd.dispatch(ctx, global.Arg(0), global.Args()[1:])
	if err != nil && !errors.Is(err, errUsage) {
		fmt.Fprintln(stderr, "error:", err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, errUsage) {
		return exitUsage
	}
	var apiErr *swapclient.APIError
	if errors.As(err, &apiErr) {
		if code, ok := exitCodes[apiErr.Reason]; ok {
			return code
		}
	}
	if reason := offer.Reason(err); reason != "" {
		return exitCodes[reason]
	}
	if errors.Is(err, swapclient.ErrUnavailable) {
		return exitUnavailable
	}
	return exitFailure
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
