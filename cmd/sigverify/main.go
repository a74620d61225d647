package main

import (
	"os"

	"github.com/kernel-auth/sigverify/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
