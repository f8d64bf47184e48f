package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dnsdb/pdnsq/pkg/asinfo"
	"github.com/dnsdb/pdnsq/pkg/backend"
	"github.com/dnsdb/pdnsq/pkg/config"
	"github.com/dnsdb/pdnsq/pkg/engine"
	"github.com/dnsdb/pdnsq/pkg/log"
	"github.com/dnsdb/pdnsq/pkg/query"
	"github.com/dnsdb/pdnsq/pkg/types"
	"github.com/dnsdb/pdnsq/pkg/writer"
)

// setup resolves configuration and constructs the provider shared by the
// query and info paths.
func setup(configPath, system string) (config.Config, backend.Provider, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, nil, err
	}
	if system == "" {
		system = cfg.System
	}
	p, err := backend.New(system, backend.Config{
		Server:    cfg.Server,
		APIKey:    cfg.APIKey,
		CirclUser: cfg.CirclUser,
		CirclPass: cfg.CirclPassword,
		Version:   Version,
	})
	if err != nil {
		return cfg, nil, err
	}
	return cfg, p, nil
}

func run(opts *options) error {
	cfg, p, err := setup(opts.config, opts.system)
	if err != nil {
		return err
	}

	after, err := parseTimeFlag(opts.after)
	if err != nil {
		return fmt.Errorf("bad --after value: %w", err)
	}
	before, err := parseTimeFlag(opts.before)
	if err != nil {
		return fmt.Errorf("bad --before value: %w", err)
	}

	presenter, err := writer.ForFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.annotate {
		tp, ok := presenter.(*writer.TextPresenter)
		if !ok {
			return types.UsageErrorf("--annotate only applies to the text format")
		}
		ann, err := asinfo.New("")
		if err != nil {
			return err
		}
		tp.Annotate = ann
	}

	common := query.Spec{
		RRTypeList: opts.rrtypes,
		Bailiwick:  opts.bailiwick,
		Verb:       backend.VerbLookup,
		After:      after,
		Before:     before,
		Complete:   opts.complete,
	}
	if opts.summarize {
		common.Verb = backend.VerbSummarize
	}
	if opts.limit > 0 {
		common.Limit = types.OptInt{Value: opts.limit, Set: true}
	}
	if opts.offset > 0 {
		common.Offset = types.OptInt{Value: opts.offset, Set: true}
	}

	wOpts := writer.Options{
		Limit:     -1,
		Presenter: presenter,
		Sort:      opts.sort,
		Mode:      writer.ModeSingle,
	}
	if opts.limit > 0 {
		wOpts.Limit = opts.limit
	}

	if opts.batchFile != "" {
		return runBatch(opts, cfg, p, common, wOpts)
	}

	common.Mode = opts.mode
	common.Thing = opts.thing
	q, err := query.New(common)
	if err != nil {
		return err
	}

	w, err := writer.New(os.Stdout, wOpts)
	if err != nil {
		return err
	}
	eng := engine.New(cfg.Timeout())
	if err := q.Launch(eng, p, w); err != nil {
		return err
	}
	if err := eng.Drain(0); err != nil {
		return err
	}
	return finish(eng, w)
}

func runBatch(opts *options, cfg config.Config, p backend.Provider, common query.Spec, wOpts writer.Options) error {
	in := os.Stdin
	if opts.batchFile != "-" {
		f, err := os.Open(opts.batchFile)
		if err != nil {
			return fmt.Errorf("failed to open batch file: %w", err)
		}
		defer f.Close()
		in = f
	}
	specs, err := parseBatch(in, common)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		return types.UsageErrorf("batch file has no queries")
	}

	eng := engine.New(cfg.Timeout())
	if opts.merge {
		wOpts.Mode = writer.ModeMerge
		return runMerged(eng, p, specs, os.Stdout, wOpts)
	}
	wOpts.Mode = writer.ModeSerial
	return runSerial(eng, p, specs, os.Stdout, wOpts)
}

// runSerial executes batch entries one at a time, each with its own
// writer so the output limit, first-wins status, and sorted output all
// scope to the entry. A logical failure on one entry is reported and the
// batch continues; only transport failures reach the exit code.
func runSerial(eng *engine.Engine, p backend.Provider, specs []query.Spec, out io.Writer, wOpts writer.Options) error {
	logger := log.WithComponent("batch")
	for i, spec := range specs {
		q, err := query.New(spec)
		if err != nil {
			return fmt.Errorf("batch entry %d: %w", i+1, err)
		}
		w, err := writer.New(out, wOpts)
		if err != nil {
			return err
		}
		if err := q.Launch(eng, p, w); err != nil {
			return fmt.Errorf("batch entry %d: %w", i+1, err)
		}
		if err := eng.Drain(0); err != nil {
			return err
		}
		if err := w.Drain(); err != nil {
			return err
		}
		reportStatus(w)
		logger.Debug().Int("entry", i+1).Int64("emitted", w.Emitted()).Msg("batch entry complete")
	}
	if eng.Failed() {
		return fmt.Errorf("one or more transfers failed")
	}
	return nil
}

// runMerged launches every batch entry against one shared writer, letting
// transfers overlap while keeping the backlog bounded.
func runMerged(eng *engine.Engine, p backend.Provider, specs []query.Spec, out io.Writer, wOpts writer.Options) error {
	w, err := writer.New(out, wOpts)
	if err != nil {
		return err
	}
	for i, spec := range specs {
		q, err := query.New(spec)
		if err != nil {
			return fmt.Errorf("batch entry %d: %w", i+1, err)
		}
		if err := q.Launch(eng, p, w); err != nil {
			return fmt.Errorf("batch entry %d: %w", i+1, err)
		}
		if eng.Outstanding() >= engine.MaxFetches {
			if err := eng.Drain(engine.MaxFetches / 2); err != nil {
				return err
			}
		}
	}
	if err := eng.Drain(0); err != nil {
		return err
	}
	if err := w.Drain(); err != nil {
		return err
	}
	reportStatus(w)
	if eng.Failed() {
		return fmt.Errorf("one or more transfers failed")
	}
	return nil
}

// reportStatus surfaces a stream's captured logical failure on stderr
// without escalating the exit code.
func reportStatus(w *writer.Writer) {
	status, message := w.Status()
	if status == "" {
		return
	}
	if message != "" {
		fmt.Fprintf(os.Stderr, ";; query status: %s (%s)\n", status, message)
		return
	}
	fmt.Fprintf(os.Stderr, ";; query status: %s\n", status)
}

// finish flushes the writer and folds transfer and stream outcomes into
// the process exit status.
func finish(eng *engine.Engine, w *writer.Writer) error {
	if err := w.Drain(); err != nil {
		return err
	}
	if status, message := w.Status(); status != "" {
		if message != "" {
			return fmt.Errorf("%s: %s", status, message)
		}
		return fmt.Errorf("%s", status)
	}
	if eng.Failed() {
		return fmt.Errorf("one or more transfers failed")
	}
	return nil
}

func runInfo(configPath, system, format string) error {
	cfg, p, err := setup(configPath, system)
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: cfg.Timeout()}
	info, err := backend.FetchInfo(p, client)
	if err != nil {
		return err
	}
	if format == "json" {
		return writer.PresentRateJSON(os.Stdout, info)
	}
	return writer.PresentRateText(os.Stdout, info)
}
