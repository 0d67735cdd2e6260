package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/joltdev/jolt"
)

const (
	widthsKey = "widths"
	depthsKey = "depths"
	itersKey  = "iters"
)

func main() {
	cmd := &cli.Command{
		Name:  "joltbench",
		Usage: "Benchmark the jolt reactive graph",
		Commands: []*cli.Command{
			{
				Name:  "propagate",
				Usage: "Propagation latency across w*h signal/computed grids",
				Flags: []cli.Flag{
					&cli.IntSliceFlag{
						Name:  widthsKey,
						Usage: "Grid widths (parallel computed chains per source)",
						Value: []int64{1, 10, 100, 1_000},
					},
					&cli.IntSliceFlag{
						Name:  depthsKey,
						Usage: "Grid depths (computed chain length)",
						Value: []int64{1, 10, 100, 1_000},
					},
					&cli.IntFlag{
						Name:  itersKey,
						Usage: "Writes sampled per grid",
						Value: 100,
					},
				},
				Action: benchmarkPropagate,
			},
			{
				Name:   "ops",
				Usage:  "Micro-op throughput (set, read, batch, effect churn)",
				Action: benchmarkOps,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func benchmarkPropagate(ctx context.Context, cmd *cli.Command) error {
	widths := cmd.IntSlice(widthsKey)
	depths := cmd.IntSlice(depthsKey)
	iters := int(cmd.Int(itersKey))

	tbl := table.NewWriter()
	tbl.SetTitle("Jolt Signals")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	checksum := xxhash.New()
	var writes int64

	for _, w := range widths {
		for _, h := range depths {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			sys := jolt.New()
			src := jolt.NewSignal(sys, 1)
			for i := int64(0); i < w; i++ {
				var last jolt.Readable[int] = src
				for j := int64(0); j < h; j++ {
					prev := last
					last = jolt.NewComputed(sys, func() int {
						return prev.Value() + 1
					})
				}
				tail := last
				jolt.NewEffect(sys, func() {
					var buf [8]byte
					binary.LittleEndian.PutUint64(buf[:], uint64(tail.Value()))
					checksum.Write(buf[:])
				})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.SetValue(src.Peek() + 1)
				tach.AddTime(time.Since(start))
				writes++
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	tbl.Render()
	log.Printf("%s writes sampled, effect checksum %016x",
		humanize.Comma(writes), checksum.Sum64())
	return nil
}

func benchmarkOps(ctx context.Context, cmd *cli.Command) error {
	const n = 1_000_000

	out := tablewriter.NewWriter(os.Stdout)
	out.SetHeader([]string{"op", "runs", "total", "per op"})

	row := func(name string, runs int, elapsed time.Duration) {
		out.Append([]string{
			name,
			humanize.Comma(int64(runs)),
			elapsed.String(),
			(elapsed / time.Duration(runs)).String(),
		})
	}

	{
		sys := jolt.New()
		s := jolt.NewSignal(sys, 0)
		start := time.Now()
		for i := 0; i < n; i++ {
			s.SetValue(i)
		}
		row("signal set (no subscribers)", n, time.Since(start))
	}

	{
		sys := jolt.New()
		s := jolt.NewSignal(sys, 1)
		c := jolt.NewComputed(sys, func() int { return s.Value() * 2 })
		start := time.Now()
		for i := 0; i < n; i++ {
			_ = c.Value()
		}
		row("computed read (cached)", n, time.Since(start))
	}

	{
		sys := jolt.New()
		a := jolt.NewSignal(sys, 0)
		b := jolt.NewSignal(sys, 0)
		jolt.NewEffect(sys, func() {
			_ = a.Value() + b.Value()
		})
		start := time.Now()
		for i := 0; i < n; i++ {
			sys.Batch(func() {
				a.SetValue(i)
				b.SetValue(-i)
			})
		}
		row("batched double write + effect", n, time.Since(start))
	}

	{
		const churn = 100_000
		sys := jolt.New()
		s := jolt.NewSignal(sys, 0)
		start := time.Now()
		for i := 0; i < churn; i++ {
			e := jolt.NewEffect(sys, func() { _ = s.Value() })
			e.Dispose()
		}
		row("effect create + dispose", churn, time.Since(start))
	}

	out.Render()
	return nil
}
