// Command clay is spec.md §6's CLI contract: `clay <file>` loads a single
// source file as the program's main module, resolves its main/0, and
// prints the result -- a deliberately narrow surface compared to the
// teacher's pkg/cli, which additionally bundles, self-contains, and
// ext-hosts; spec.md's Non-goals exclude all of that (see DESIGN.md).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/clayscript/clay/internal/config"
	"github.com/clayscript/clay/internal/diag"
	"github.com/clayscript/clay/internal/driver"
	"github.com/clayscript/clay/internal/introspect"
)

func main() {
	introspectAddr := flag.String("introspect", "", "start the optional read-only introspection service on this address (e.g. :9090)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [--introspect=:PORT] <file.clay>\n", os.Args[0])
		os.Exit(2)
	}
	os.Exit(run(flag.Arg(0), *introspectAddr))
}

func run(path, introspectAddr string) int {
	cfg, err := config.Load("clay.yaml", path, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if introspectAddr != "" {
		cfg.Introspect = introspectAddr
	}

	color := cfg.ColorEnabled(diag.ColorForStream(os.Stderr.Fd()))
	loader := driver.NewLoader(cfg.SearchPath)

	var srv *introspect.Server
	if cfg.Introspect != "" {
		srv, err = introspect.NewServer(loader.Objects)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: introspect: %v\n", err)
			return 1
		}
		if err := srv.Start(cfg.Introspect); err != nil {
			fmt.Fprintf(os.Stderr, "error: introspect: %v\n", err)
			return 1
		}
		defer srv.Stop()
	}

	prog, err := loader.LoadProgram(path)
	if err != nil {
		report(err, color)
		return 1
	}

	v, err := prog.Run()
	if err != nil {
		report(err, color)
		return 1
	}

	if srv != nil {
		srv.RegisterModule(prog.Module)
	}

	fmt.Println(driver.FormatValue(v))
	return 0
}

func report(err error, color bool) {
	if d, ok := err.(*diag.Diagnostic); ok {
		d.Render(os.Stderr, color)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}
