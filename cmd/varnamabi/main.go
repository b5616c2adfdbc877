package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/varnam-abi/engine"
	"github.com/wippyai/varnam-abi/fixture"
	"github.com/wippyai/varnam-abi/result"
	"github.com/wippyai/varnam-abi/runtime"
	"github.com/wippyai/varnam-abi/transcoder"
)

type options struct {
	fixture     string
	word        string
	layout      string
	wasm        bool
	list        bool
	interactive bool
	verbose     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.fixture, "fixture", "", "Path to YAML fixture")
	flag.StringVar(&opts.word, "word", "", "Word to transliterate")
	flag.StringVar(&opts.layout, "layout", "", "Record layout: wasm32 or lp64 (default from VARNAM_LAYOUT)")
	flag.BoolVar(&opts.wasm, "wasm", false, "Encode the result into linear memory and report allocations")
	flag.BoolVar(&opts.list, "list", false, "List schemes, symbols and record layouts and exit")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.Parse()

	if opts.fixture == "" || (opts.word == "" && !opts.list && !opts.interactive) {
		fmt.Fprintln(os.Stderr, "Usage: varnamabi -fixture <file.yaml> -word <word> [-layout wasm32|lp64] [-wasm] [-v]")
		fmt.Fprintln(os.Stderr, "       varnamabi -fixture <file.yaml> -list")
		fmt.Fprintln(os.Stderr, "       varnamabi -fixture <file.yaml> -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	ctx := context.Background()

	if opts.verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer func() { _ = log.Sync() }()
		runtime.SetLogger(log.Named("runtime"))
		engine.SetLogger(log.Named("engine"))
	}

	cfg, err := runtime.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.layout != "" {
		cfg.Layout = opts.layout
	}

	producer, err := fixture.Load(opts.fixture)
	if err != nil {
		return err
	}

	rt, err := runtime.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close(ctx)

	id, err := rt.Open(producer)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	if opts.interactive {
		return runInteractive(rt, id, opts.fixture, opts.wasm)
	}

	st := newStyles(styled)
	if opts.list {
		return list(ctx, rt, id, st)
	}

	res, err := rt.Transliterate(ctx, id, opts.word)
	if err != nil {
		return fmt.Errorf("transliterate %q: %w", opts.word, err)
	}
	fmt.Print(st.renderResult(opts.word, res))

	if !opts.wasm {
		res.Destroy()
		return nil
	}
	report, err := exportReport(rt, res)
	if err != nil {
		return err
	}
	fmt.Print(st.renderReport(report))
	return nil
}

// memoryReport describes one encode/release cycle through linear memory.
type memoryReport struct {
	target       transcoder.Target
	addr         uint32
	size         uint32
	before       engine.HeapStats
	exported     engine.HeapStats
	after        engine.HeapStats
	decodedWords int
}

// exportReport encodes res into the runtime's memory, decodes it back and
// destroys the handle. res is owned by the runtime afterwards.
func exportReport(rt *runtime.Runtime, res *result.TransliterationResult) (memoryReport, error) {
	heap := rt.Engine().Heap()
	rep := memoryReport{
		target: rt.Encoder().Layouts().Target(),
		before: heap.Stats(),
	}

	h, addr, err := rt.ExportToMemory(nil, res)
	if err != nil {
		return rep, fmt.Errorf("export: %w", err)
	}
	rep.addr = addr
	rep.exported = heap.Stats()
	if info, ok := rt.Encoder().Layouts().Record(result.KindTransliterationResult); ok {
		rep.size = info.Size
	}

	decoded, err := transcoder.NewDecoder(rep.target).DecodeResult(addr, rt.Engine().Memory())
	if err != nil {
		rt.Destroy(h)
		return rep, fmt.Errorf("decode: %w", err)
	}
	rep.decodedWords = decoded.Count()
	decoded.Destroy()

	if err := rt.Destroy(h).Err(fmt.Sprintf("destroy handle %d", h)); err != nil {
		return rep, err
	}
	rep.after = heap.Stats()
	return rep, nil
}

func list(ctx context.Context, rt *runtime.Runtime, id runtime.SessionID, st styles) error {
	schemes, err := rt.Schemes(id)
	if err != nil {
		return fmt.Errorf("list schemes: %w", err)
	}
	defer schemes.Destroy()

	symbols, err := rt.SearchSymbols(ctx, id, nil)
	if err != nil {
		return fmt.Errorf("search symbols: %w", err)
	}
	defer symbols.Destroy()

	fmt.Print(st.renderSchemes(schemes))
	fmt.Print(st.renderSymbols(symbols))
	fmt.Print(st.renderLayouts(rt.Encoder().Layouts()))
	return nil
}
