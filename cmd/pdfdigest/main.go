// Command pdfdigest runs the PDF digest pipeline from the command line.
//
// Usage:
//
//	pdfdigest summarize <file.pdf> [--output text|json] [--max-chunk N]
//	pdfdigest extract <file.pdf> [--output text|json] [--max-chunk N]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
