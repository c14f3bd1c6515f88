package main

import "hyserve/internal/cli/cmd"

func main() {
	cmd.Execute()
}
