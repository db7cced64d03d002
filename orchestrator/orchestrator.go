// Package orchestrator drives the four-phase pipeline of spec.md §4.9/§5:
// parse-and-extract fan-out, single-threaded module-graph construction,
// hook-analysis fan-out consulting other files' summaries read-only, and
// assembly of the final result.
//
// Generalizes analyzer/package.go's AnalyzeDir/analyzePackages/
// AnalyzeSourceCode/AnalyzeAll shape (discover -> per-unit analyze -> merge)
// from a single-threaded directory walk into a two-phase bounded fan-out
// over golang.org/x/sync/errgroup, replacing the teacher's unbounded `for`
// loop over packages with an explicit concurrency cap per spec.md §5.
package orchestrator

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/assemble"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/config"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/inspector"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/modgraph"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/propagate"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/rules"
)

// Options parameterizes one Run call: the root to discover files under,
// include/exclude globs on top of config.Ignore, and the alias/manifest
// tables an external project-config collaborator (tsconfig.json,
// package.json readers) has already resolved — the core itself never reads
// either file, per config.Config's doc comment.
type Options struct {
	Root          string
	Include       []string
	Exclude       []string
	Aliases       modgraph.AliasTable
	ManifestMains map[string]string
	// Oracle is the optional strict-mode type-checker bridge (§4.9); nil
	// disables it regardless of Config.StrictMode.
	Oracle rules.TypeOracle
}

// Orchestrator owns the parser driver and the resolved configuration for a
// run. It is safe to reuse across multiple Run calls; Run itself creates no
// durable state beyond what it returns.
type Orchestrator struct {
	Driver *inspector.Driver
	Config config.Config
	Logger *zap.Logger
}

// New builds an Orchestrator. A nil logger falls back to zap.NewNop(),
// matching inspector.New's convention.
func New(driver *inspector.Driver, cfg config.Config, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{Driver: driver, Config: cfg, Logger: logger}
}

func (o *Orchestrator) parallelism() int {
	if o.Config.MaxParallelism > 0 {
		return o.Config.MaxParallelism
	}
	if n := runtime.NumCPU() - 1; n > 0 {
		return n
	}
	return 1
}

// Run executes all four phases and returns the assembled result. It returns
// an error only on a genuine cooperative-cancellation signal (ctx) or an
// unrecoverable discovery failure (§7's "configuration error" /
// "I/O error" on the root itself); per-file parse and rule failures are
// recorded in the summary and never abort the run.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (model.RunResult, error) {
	paths, err := o.Driver.Discover(ctx, opts.Root, opts.Include, append(append([]string{}, opts.Exclude...), o.Config.Ignore...))
	if err != nil {
		return model.RunResult{}, err
	}

	files, skipped, err := o.parsePhase(ctx, paths)
	if err != nil {
		return model.RunResult{}, err
	}

	graph := o.buildModuleGraph(files, opts)
	cycleDiags := append(append(graph.FindImportCycles(), graph.FindCrossFileCycles()...), graph.FindAdvisoryCycles()...)

	resolver := modgraph.NewResolver(fileSetOf(files), opts.Aliases, opts.ManifestMains)
	hookDiags, hooksAnalyzed, err := o.analyzePhase(ctx, files, resolver, opts.Oracle)
	if err != nil {
		return model.RunResult{}, err
	}

	return assemble.Run(assemble.Result{
		HookDiagnostics:  hookDiags,
		CycleDiagnostics: cycleDiags,
		FilesAnalyzed:    len(files),
		HooksAnalyzed:    hooksAnalyzed,
		FilesSkipped:     skipped,
	}, o.Config), nil
}

// parsePhase is Phase 1: bounded fan-out parse + semantic extraction (the
// extraction itself runs inside Driver.Parse). A parse failure is logged and
// counted, never aborts the phase; only ctx cancellation does.
func (o *Orchestrator) parsePhase(ctx context.Context, paths []string) (map[string]*model.ParsedFile, int, error) {
	files := make(map[string]*model.ParsedFile, len(paths))
	var mu sync.Mutex
	var skipped int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism())

	for _, p := range paths {
		path := p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file, err := o.Driver.Parse(gctx, path)
			if err != nil {
				o.Logger.Warn("skipping file: parse failed", zap.String("path", path), zap.Error(err))
				atomic.AddInt32(&skipped, 1)
				return nil
			}
			mu.Lock()
			files[path] = file
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return files, int(skipped), nil
}

// buildModuleGraph is Phase 2, single-threaded per §5. namedBindings records,
// per file, every name worth treating as "carries a context or function
// binding" for FindAdvisoryCycles: createContext()'d names and top-level
// exported function-shaped components.
func (o *Orchestrator) buildModuleGraph(files map[string]*model.ParsedFile, opts Options) *modgraph.Graph {
	resolver := modgraph.NewResolver(fileSetOf(files), opts.Aliases, opts.ManifestMains)
	namedBindings := make(map[string]map[string]bool, len(files))
	for p, f := range files {
		b := map[string]bool{}
		for _, c := range f.CreatedContexts {
			b[c] = true
		}
		functionComponents := map[string]bool{}
		for _, comp := range f.Components {
			if comp.Kind == model.NamedFunction {
				functionComponents[comp.Name] = true
			}
		}
		for _, ex := range f.Exports {
			if functionComponents[ex.LocalName] {
				b[ex.LocalName] = true
			}
		}
		namedBindings[p] = b
	}
	return modgraph.Build(files, resolver, namedBindings)
}

// analyzePhase is Phase 3: bounded fan-out hook analysis. Each file's rules
// run against its own summary plus the read-only propagate.Index shared by
// every goroutine (built once from the full file set, per §5's "the module
// graph is built once, then read-only in Phase 3").
func (o *Orchestrator) analyzePhase(ctx context.Context, files map[string]*model.ParsedFile, resolver *modgraph.Resolver, oracle rules.TypeOracle) ([]model.Diagnostic, int, error) {
	cross := propagate.NewIndex(files, resolver)
	engine := rules.New(o.Config, cross)
	engine.Oracle = oracle

	var mu sync.Mutex
	var diags []model.Diagnostic
	var hooksAnalyzed int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism())

	for path, f := range files {
		file := f
		p := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fileDiags := o.analyzeFileSafely(file, p, engine)
			atomic.AddInt32(&hooksAnalyzed, int32(len(file.Hooks)))
			mu.Lock()
			diags = append(diags, fileDiags...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return diags, int(hooksAnalyzed), nil
}

// analyzeFileSafely recovers from a panic inside one file's rule analysis
// (§7: "individual rule internal errors are suppressed ... to prevent one
// malformed construct from hiding all other findings"), logging it only in
// debug mode rather than letting it take down the whole fan-out.
func (o *Orchestrator) analyzeFileSafely(file *model.ParsedFile, path string, engine *rules.Engine) (diags []model.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			if o.Config.DebugMode {
				o.Logger.Error("rule analysis panicked, dropping file's diagnostics", zap.String("path", path), zap.Any("panic", r))
			}
			diags = nil
		}
	}()
	return engine.Analyze(file)
}

func fileSetOf(files map[string]*model.ParsedFile) []string {
	out := make([]string, 0, len(files))
	for p := range files {
		out = append(out, p)
	}
	return out
}
