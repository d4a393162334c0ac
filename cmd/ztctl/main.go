// ztctl is a CLI for managing the members of a ZeroTier network through the
// Central REST API.
//
// Usage:
//
//	ztctl status
//	ztctl network show --network-id <nwid>
//	ztctl network member ls --network-id <nwid> [--authorized|--deauthorized] [--online|--offline] [--name S] [--description S] [--sort KEY]
//	ztctl network member get --network-id <nwid> --member-id <id>
//	ztctl network member authorize --network-id <nwid> --member-id <id> [--name S] [--description S]
//	ztctl network member deauthorize --network-id <nwid> --member-id <id>
//	ztctl network member modify --network-id <nwid> --member-id <id> [--authorized|--deauthorized] [--name S] [--description S]
//
// Every id and the API token can also come from NSF_ZEROTIER_* environment
// variables, a .env file or ~/.config/ztctl/config.ini. Missing values are
// prompted for on a terminal.
package main

import (
	"fmt"
	"os"

	"sigs.k8s.io/controller-runtime/pkg/manager/signals"
)

var version = "dev"

func main() {
	ctx := signals.SetupSignalHandler()

	rootCmd := newRootCmd(newApp())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
