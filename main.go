// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package main

import "github.com/myriadcoin/electrum-headerchain/cmd"

func main() {
	cmd.Execute()
}
