package main

import "github.com/oulink/goulink/cmd/openulink-cli/cmd"

func main() {
	cmd.Execute()
}
