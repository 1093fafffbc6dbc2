// Package driver compiles the component manifests of a project. Each
// component is an independent job; jobs run in parallel against one shared
// metadata registry and never share a constant pool.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"ngc-ir/packages/compiler/src/config"
	"ngc-ir/packages/compiler/src/diagnostics"
	constant "ngc-ir/packages/compiler/src/pool"
	"ngc-ir/packages/compiler/src/render3/view"
	pipeline "ngc-ir/packages/compiler/src/template/pipeline/src"
	"ngc-ir/packages/compiler/src/template/pipeline/src/ingest"
	"ngc-ir/packages/compiler/src/template_parser"
	"ngc-ir/packages/compiler/src/util"
)

// Options controls one Compile call
type Options struct {
	// Emit writes compiled modules to the output directory.
	Emit bool
	// Cache short-circuits components whose inputs did not change. May be nil.
	Cache *DiskCache
}

// Result is the outcome of compiling one component
type Result struct {
	Manifest string
	Name     string
	// OutputPath is where the module was (or would be) written.
	OutputPath string
	// Output is the emitted module; empty when the component has errors.
	Output      string
	Diagnostics []diagnostics.Diagnostic
	Cached      bool
	// Err is set when the job failed outright; Output is then discarded.
	Err error
}

// Report collects the results of a compilation session in manifest order
type Report struct {
	Session uuid.UUID
	Results []Result
}

// Diagnostics returns every diagnostic of the session, sorted
func (r *Report) Diagnostics() *diagnostics.Bag {
	bag := diagnostics.NewBag()
	for _, res := range r.Results {
		for _, d := range res.Diagnostics {
			bag.Add(d)
		}
	}
	bag.Sort()
	return bag
}

// Err aggregates job failures and error diagnostics, or returns nil
func (r *Report) Err() error {
	var result *multierror.Error
	for _, res := range r.Results {
		if res.Err != nil {
			result = multierror.Append(result, res.Err)
		}
	}
	if err := r.Diagnostics().Err(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

type compiler struct {
	cfg      *config.CompilerConfig
	opts     Options
	registry *view.MetadataRegistry
	logger   zerolog.Logger

	// Digest of the configuration and every manifest. Any change to them
	// can change how a template resolves, so it is part of every cache key.
	project Digest
	modules map[string]bool
}

// Compile discovers the manifests of cfg and compiles them. Configuration
// and manifest errors abort the session; per-component failures are
// reported in the Report.
func Compile(ctx context.Context, cfg *config.CompilerConfig, opts Options) (*Report, error) {
	session, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to create session id: %w", err)
	}
	logger := log.With().Str("session", session.String()).Logger()

	paths, err := Discover(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to discover manifests: %w", err)
	}
	report := &Report{Session: session}
	if len(paths) == 0 {
		logger.Warn().Str("root", cfg.Root).Msg("no component manifests found")
		return report, nil
	}

	locals, project, err := loadManifests(cfg, paths)
	if err != nil {
		return nil, err
	}

	registry := view.NewSession()
	defer registry.Release()
	if err := seedRegistry(registry, cfg, locals); err != nil {
		return nil, fmt.Errorf("failed to register declarations: %w", err)
	}

	c := &compiler{
		cfg:      cfg,
		opts:     opts,
		registry: registry,
		logger:   logger,
		project:  project,
		modules:  make(map[string]bool, len(locals)),
	}
	for _, local := range locals {
		c.modules[local.module] = true
	}

	jobs := cfg.Compiler.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	logger.Debug().Int("components", len(locals)).Int("jobs", jobs).Msg("compiling")

	// indices are unique per goroutine, no locking needed
	report.Results = make([]Result, len(locals))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(locals)))
	for i, local := range locals {
		i, local := i, local
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			registry.Acquire()
			defer registry.Release()
			report.Results[i] = c.run(gctx, local)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func loadManifests(cfg *config.CompilerConfig, paths []string) ([]*localComponent, Digest, error) {
	var errs *multierror.Error
	var locals []*localComponent
	project := &Hasher{}
	if cfg.Path != "" {
		data, err := os.ReadFile(cfg.Path)
		if err != nil {
			return nil, Digest{}, fmt.Errorf("failed to read config: %w", err)
		}
		project.Add(string(data))
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		project.Add(path).Add(string(data))

		m, err := config.LoadManifest(path)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		rel, err := filepath.Rel(cfg.Root, filepath.Join(m.Dir(), m.OutputName()))
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		module := filepath.ToSlash(rel)
		locals = append(locals, &localComponent{manifest: m, module: module[:len(module)-len(".js")]})
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, Digest{}, err
	}
	return locals, project.Sum(), nil
}

// run compiles one component. A panic inside the pipeline is an internal
// error of this component only; its output is discarded.
func (c *compiler) run(ctx context.Context, local *localComponent) (res Result) {
	m := local.manifest
	res = Result{
		Manifest:   m.Path,
		Name:       m.Name,
		OutputPath: filepath.Join(c.cfg.OutputDir(), filepath.FromSlash(local.module)+".js"),
	}
	logger := c.logger.With().Str("component", m.Name).Logger()

	defer func() {
		if r := recover(); r != nil {
			res.Output = ""
			res.Err = fmt.Errorf("component %s: %w", m.Name, panicError(r))
			logger.Error().Err(res.Err).Msg("compilation aborted")
		}
	}()

	if err := c.compile(ctx, local, &res, logger); err != nil {
		res.Output = ""
		res.Err = fmt.Errorf("component %s: %w", m.Name, err)
		logger.Error().Err(err).Msg("compilation failed")
		return res
	}
	if c.opts.Emit && res.Output != "" {
		if err := writeOutput(res.OutputPath, res.Output); err != nil {
			res.Err = err
			return res
		}
	}
	logger.Info().
		Bool("cached", res.Cached).
		Int("diagnostics", len(res.Diagnostics)).
		Msg("compiled")
	return res
}

func (c *compiler) compile(ctx context.Context, local *localComponent, res *Result, logger zerolog.Logger) error {
	m := local.manifest
	source, url, err := m.ReadTemplate()
	if err != nil {
		return err
	}
	styles, err := m.ReadStyles()
	if err != nil {
		return err
	}

	hasher := (&Hasher{}).
		Add(strconv.Itoa(int(cacheSchemaVersion))).
		Add(c.project.String()).
		Add(m.Path).
		Add(source)
	for _, style := range styles {
		hasher.Add(style)
	}
	key := hasher.Sum()

	if payload, ok, err := c.opts.Cache.Get(key); err != nil {
		logger.Warn().Err(err).Msg("ignoring cache entry")
	} else if ok {
		res.Output = payload.Output
		res.Diagnostics = decodeDiagnostics(payload.Diagnostics, util.NewParseSourceFile(source, url))
		res.Cached = true
		return nil
	}

	parsed, err := template_parser.Parse(ctx, source, url, template_parser.Options{
		PreserveWhitespaces: config.PreserveWhitespacesDefault(m.PreserveWhitespaces, c.cfg.Compiler.PreserveWhitespaces),
	})
	if err != nil {
		return err
	}
	bag := diagnostics.NewBag()
	for _, parseErr := range parsed.Errors {
		bag.Add(diagnostics.FromParseError(parseErr))
	}

	if !bag.HasErrors() {
		deps, err := c.registry.Resolve(m.Imports)
		if err != nil {
			return err
		}
		meta, err := componentMetadata(m, c.cfg, parsed, styles, relativeTo(deps, local.module, c.modules))
		if err != nil {
			return err
		}
		def, err := pipeline.CompileComponent(meta, constant.NewConstantPool(), ingest.Options{
			File:    parsed.File,
			Lenient: !meta.IsStandalone,
		})
		if err != nil {
			return err
		}
		for _, d := range def.Diagnostics {
			bag.Add(d)
		}
		if !bag.HasErrors() {
			res.Output = pipeline.EmitModule([]*pipeline.ComponentDefinition{def})
		}
	}
	res.Diagnostics = bag.Items()

	cached, err := encodeDiagnostics(res.Diagnostics)
	if err == nil {
		err = c.opts.Cache.Put(key, &CachePayload{Name: m.Name, Output: res.Output, Diagnostics: cached})
	}
	if err != nil {
		logger.Warn().Err(err).Msg("failed to update cache")
	}
	return nil
}

func writeOutput(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func panicError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
