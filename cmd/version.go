// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version, GitCommit and BuildDate are overridden at link time via
// -ldflags "-X github.com/myriadcoin/electrum-headerchain/cmd.Version=...".
var (
	Version   = "v0.0.0-dev"
	GitCommit = ""
	BuildDate = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display headersyncd version",
	Long:  `Display headersyncd version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("headersyncd version", Version)
	},
}
