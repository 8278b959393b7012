package main

import (
	"fmt"
	"os"

	jerrors "github.com/viant/jarhc/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if jerrors.IsFatal(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
