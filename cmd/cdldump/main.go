// Command cdldump prints NetCDF classic files and YAML dataset descriptions
// as CDL, like ncdump.
//
// Usage:
//
//	cdldump [-h] [-v var1[,var2...]] [-l len] [-f c|f] [-p fdig[,ddig]] [-n name] FILE
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bjaus/cdl"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Report EPIPE from writes instead of dying on SIGPIPE when the reader
	// of stdout (less, head) exits early.
	signal.Ignore(syscall.SIGPIPE)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := newCommand(os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		if cdl.IsGraceful(err) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
