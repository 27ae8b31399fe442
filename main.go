package main

import "airdrop-ledger/cmd"

func main() {
	cmd.Execute()
}
