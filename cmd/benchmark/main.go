package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/delaneyj/reactiveparty/data"
	"github.com/delaneyj/reactiveparty/observe"
	"github.com/delaneyj/reactiveparty/proxy"
)

var (
	iters      = flag.Int("iters", 100, "writes timed per configuration")
	cpuprofile = flag.String("cpuprofile", "", "write a cpu profile to this file")

	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 4, 16, 64}
)

func main() {
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")
	benchmarkEager(false)
	benchmarkLazy(false)

	benchmarkEager(true)
	benchmarkLazy(true)
}

// nested builds {l0: {l1: ... {v: 0}}} with depth levels and returns the
// root and the dotted path to v.
func nested(depth int) (*data.Object, string) {
	root := data.NewObject()
	cur := root
	segs := make([]string, 0, depth+1)
	for i := 0; i < depth; i++ {
		key := fmt.Sprintf("l%d", i)
		next := data.NewObject()
		cur.Set(key, next)
		cur = next
		segs = append(segs, key)
	}
	cur.Set("v", 0)
	segs = append(segs, "v")
	return root, strings.Join(segs, ".")
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "runs", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendRow(tbl table.Writer, w, h int, runs int64, calc *tachymeter.Metrics) {
	tbl.AppendRow(table.Row{
		fmt.Sprintf("propagate: %d * %d", w, h),
		humanize.Comma(runs),
		calc.Time.Avg,
		calc.Time.Min,
		calc.Time.P75,
		calc.Time.P99,
		calc.Time.Max,
	})
}

func benchmarkEager(shouldRender bool) {
	tbl := newTable("Eager (observe)")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: *iters})

			rt := observe.NewRuntime(func(_ *observe.Watcher, err error) {
				log.Panic(err)
			})
			doc, path := nested(h)
			m := observe.NewModel(rt, observe.Options{Data: doc})

			var runs int64
			for i := 0; i < w; i++ {
				if _, err := m.Watch(path, func(any) { runs++ }); err != nil {
					log.Fatal(err)
				}
			}

			parent, key, err := data.ResolveParent(m, path)
			if err != nil {
				log.Fatal(err)
			}
			for i := 0; i < *iters; i++ {
				start := time.Now()
				parent.Set(key, i+1)
				tach.AddTime(time.Since(start))
			}

			appendRow(tbl, w, h, runs, tach.Calc())
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkLazy(shouldRender bool) {
	tbl := newTable("Lazy (proxy)")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: *iters})

			rt := proxy.NewRuntime(func(_ *proxy.EffectRunner, err error) {
				log.Panic(err)
			})
			doc, path := nested(h)
			root := proxy.Wrap(rt, doc)

			var runs int64
			for i := 0; i < w; i++ {
				proxy.Effect(rt, func() error {
					_, err := data.Resolve(root, path)
					runs++
					return err
				})
			}

			parent, key, err := data.ResolveParent(root, path)
			if err != nil {
				log.Fatal(err)
			}
			for i := 0; i < *iters; i++ {
				start := time.Now()
				parent.Set(key, i+1)
				tach.AddTime(time.Since(start))
			}

			appendRow(tbl, w, h, runs, tach.Calc())
		}
	}

	if shouldRender {
		tbl.Render()
	}
}
