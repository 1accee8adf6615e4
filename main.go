package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/tmpl/cli"
	"github.com/ardnew/tmpl/log"
)

// diagnostic is implemented by errors that render their own report.
type diagnostic interface {
	error
	Diagnostic() string
}

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err == nil {
		return
	}

	var d diagnostic
	if errors.As(err, &d) && d.Diagnostic() != "" {
		fmt.Fprintln(os.Stderr, strings.TrimRight(d.Diagnostic(), "\n"))
	} else {
		log.Error("run failed", slog.Any("error", err))
	}

	os.Exit(1)
}
