// Package main is the entry point of the formrules CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"goyave.dev/formrules/cmd/formrules/internal"
	"goyave.dev/formrules/util/errors"
)

func main() {
	if err := internal.Run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, internal.ErrInvalidSubmission) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
