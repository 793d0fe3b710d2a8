package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/herohde/quax/pkg/datagen"
	"github.com/herohde/quax/pkg/engine"
	"github.com/herohde/quax/pkg/engine/uai"
	"github.com/herohde/quax/pkg/search"
	"github.com/seekerror/logw"
)

var (
	hash = flag.Int("hash", search.DefaultHashMB, "Transposition table size in MB")
	net  = flag.String("net", "", "NNUE network file (default: built-in)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: quax [options] [bench [depth] | datagen [dir]]

QUAX is a UAI Ataxx engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	e, err := engine.New(ctx, "quax", "herohde", engine.WithHash(*hash), engine.WithNet(*net))
	if err != nil {
		logw.Exitf(ctx, "Failed to create engine: %v", err)
	}

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "bench":
			depth := engine.DefaultBenchDepth
			if len(args) > 1 {
				if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
					depth = n
				}
			}
			result, err := e.Bench(ctx, depth)
			if err != nil {
				logw.Exitf(ctx, "Bench failed: %v", err)
			}
			fmt.Printf("bench depth %v nodes %v nps %v time %v\n",
				result.Depth, result.Nodes, result.NPS(), result.Time.Milliseconds())
			return

		case "datagen":
			opt := datagen.Options{}
			if len(args) > 1 {
				opt.Dir = args[1]
			}
			if err := datagen.Run(ctx, e.Params(), e.Net(), opt); err != nil {
				logw.Exitf(ctx, "Datagen failed: %v", err)
			}
			return

		default:
			flag.Usage()
			logw.Exitf(ctx, "Unknown mode: %v", args[0])
		}
	}

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uai.ProtocolName:
		// Use UAI protocol.

		driver, out := uai.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
