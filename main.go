package main

import "github.com/AlphsX/synx-agent-preview-sub000/cmd"

func main() {
	cmd.Execute()
}
