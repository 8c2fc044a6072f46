// Package cli implements the skopos command-line interface.
//
// # Commands
//
// snapshot - Capture one status snapshot of every configured system:
//
//	skopos snapshot --config fleet.yaml [--output FILE|oci://REF] [--format json|yaml|table]
//
// Runs a single collection cycle across the fleet and writes the
// resulting snapshots to stdout, a file, or an OCI registry.
//
// daemon - Run scheduled collection cycles:
//
//	skopos daemon --config fleet.yaml
//
// Collects on the configured cron schedule, persists snapshots to the
// store, serves /healthz, /readyz and /metrics, and integrates with
// systemd readiness and watchdog notification.
//
// # Environment Variables
//
//	LOG_LEVEL  Set logging verbosity (debug, info, warn, error)
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/hpc-stack/skopos/pkg/cli.version=1.0.0'"
package cli
