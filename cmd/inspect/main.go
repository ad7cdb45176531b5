package main

import (
	"fmt"
	"os"

	"github.com/yungbote/inspect-backend/cmd/inspect/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
