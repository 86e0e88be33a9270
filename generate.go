package queryxml

import (
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/protoforge/queryxml/errors"
	"github.com/protoforge/queryxml/internal/errattach"
	"github.com/protoforge/queryxml/internal/serializergen"
	"github.com/protoforge/queryxml/model"
)

// Option adjusts a generation run.
type Option func(*settings)

type settings struct {
	logger      *zap.Logger
	parallelism int
}

// WithLogger enables structured progress logging. Logging is never required
// for correctness.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithParallelism fans operation generation out over n goroutines. The
// generation cache's idempotent-insert contract makes concurrent operations
// converge on one procedure per shape; output remains deterministic because
// assembly orders procedures by shape identity, not completion order.
func WithParallelism(n int) Option {
	return func(s *settings) {
		if n > 1 {
			s.parallelism = n
		}
	}
}

// Generate runs the whole pipeline over the model. Any generation defect
// aborts the run; no partial output is returned.
func Generate(m *model.Model, cfg Config, opts ...Option) (*Result, error) {
	st := settings{logger: zap.NewNop(), parallelism: 1}
	for _, opt := range opts {
		opt(&st)
	}
	if cfg.Service.IsZero() {
		return nil, errors.New(errors.ErrMalformedModel, "no target service configured")
	}

	allow := cfg.AllowList
	if len(allow) == 0 {
		allow = errattach.KnownServices
	}
	transformed, err := errattach.Attach(m, errattach.AllowList(allow...))
	if err != nil {
		return nil, err
	}
	transformed, err = errattach.Attach(transformed, errattach.Flag(cfg.Service, cfg.AddValidationError))
	if err != nil {
		return nil, err
	}
	st.logger.Debug("validation contracts attached",
		zap.String("service", string(cfg.Service)),
		zap.Bool("flag", cfg.AddValidationError))

	ops, err := transformed.ServiceOperations(cfg.Service)
	if err != nil {
		return nil, err
	}

	gen := serializergen.New(transformed, serializergen.Options{
		Service:        cfg.Service,
		IgnoreDefaults: cfg.IgnoreDefaults,
		TypesImport:    cfg.TypesImport,
	})

	generated := make([]bool, len(ops))
	if st.parallelism > 1 {
		var eg errgroup.Group
		eg.SetLimit(st.parallelism)
		for i, op := range ops {
			i, op := i, op
			eg.Go(func() error {
				_, ok, err := gen.OperationOutput(op.ID)
				if err != nil {
					return err
				}
				generated[i] = ok
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, op := range ops {
			_, ok, err := gen.OperationOutput(op.ID)
			if err != nil {
				return nil, err
			}
			generated[i] = ok
		}
	}

	var skipped []model.ShapeID
	for i, op := range ops {
		if !generated[i] {
			skipped = append(skipped, op.ID)
			st.logger.Debug("operation has no body to serialize", zap.String("operation", string(op.ID)))
		}
	}

	pkg := cfg.Package
	if pkg == "" {
		pkg = "serializers"
	}
	src, err := gen.Source(pkg)
	if err != nil {
		return nil, err
	}
	st.logger.Debug("serializers generated",
		zap.Int("operations", len(ops)),
		zap.Int("skipped", len(skipped)))

	return &Result{
		Model:   transformed,
		Files:   []File{{Name: pkg + ".go", Content: src}},
		Skipped: skipped,
	}, nil
}
