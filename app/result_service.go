package app

import (
	"context"
	"fmt"

	"resframe/domain/frame"
	"resframe/domain/network"
	"resframe/domain/run"
	"resframe/domain/timeseries"
	"resframe/internal/aggregate"
	"resframe/internal/derived"
	"resframe/internal/logging"
	"resframe/internal/profile"
	"resframe/ports"

	"golang.org/x/sync/errgroup"
)

// ResultSet couples one loaded result frame with its network and source.
type ResultSet struct {
	Source  string
	Frame   *frame.Frame
	Network *network.Network
}

// ResultService orchestrates the result pipeline: load sources, apply
// derived quantities, aggregate, persist and export.
type ResultService struct {
	registry *derived.Registry
	repo     ports.RunRepository
	exporter ports.RunExporter
	log      *logging.Logger
}

// NewResultService wires the service. repo and exporter may be nil; the
// corresponding steps then become no-ops.
func NewResultService(registry *derived.Registry, repo ports.RunRepository, exporter ports.RunExporter, log *logging.Logger) *ResultService {
	if registry == nil {
		registry = derived.NewRegistry()
	}
	if log == nil {
		log = logging.NewFromEnv()
	}
	return &ResultService{registry: registry, repo: repo, exporter: exporter, log: log}
}

// Load reads every source concurrently and applies the derived-quantity
// registry to each. Results keep the reader order.
func (s *ResultService) Load(ctx context.Context, readers ...ports.ResultReader) ([]*ResultSet, error) {
	sets := make([]*ResultSet, len(readers))
	g, ctx := errgroup.WithContext(ctx)
	for i, reader := range readers {
		i, reader := i, reader // go 1.21: loop vars are per-loop, not per-iteration
		g.Go(func() error {
			f, net, err := reader.Read(ctx)
			if err != nil {
				return fmt.Errorf("loading %s: %w", reader.Source(), err)
			}
			f, err = s.registry.Apply(f, net)
			if err != nil {
				return fmt.Errorf("deriving for %s: %w", reader.Source(), err)
			}
			sets[i] = &ResultSet{Source: reader.Source(), Frame: f, Network: net}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, set := range sets {
		s.log.Info("loaded %s: %d steps, %d series", set.Source, set.Frame.Len(), set.Frame.NumColumns())
	}
	return sets, nil
}

// Aggregate reduces one entity group of a result set and records the run.
// The run is persisted when a repository is configured.
func (s *ResultService) Aggregate(ctx context.Context, set *ResultSet, group timeseries.Group, agg *aggregate.FrameAggregator) (*run.Run, error) {
	selected, err := set.Frame.SelectLevel(timeseries.LevelGroup, string(group))
	if err != nil {
		return nil, err
	}
	if selected.NumColumns() == 0 {
		return nil, fmt.Errorf("%s has no %s series", set.Source, group)
	}

	table, err := agg.Aggregate(selected)
	if err != nil {
		return nil, err
	}

	entities := table.Entities()
	values := make([][]float64, len(entities))
	for i, entity := range entities {
		values[i] = table.Row(entity)
	}
	rec := run.New(set.Source, agg.Name(), entities, table.Columns(), values)

	if s.repo != nil {
		if err := s.repo.Save(ctx, rec); err != nil {
			return nil, err
		}
		s.log.Info("saved run %s (%s over %s)", rec.ID, rec.Strategy, group)
	}
	return rec, nil
}

// Export writes a run record through the configured exporter.
func (s *ResultService) Export(rec *run.Run, path string) error {
	if s.exporter == nil {
		return fmt.Errorf("no exporter configured")
	}
	if err := s.exporter.Export(rec, path); err != nil {
		return err
	}
	s.log.Info("exported run %s to %s", rec.ID, path)
	return nil
}

// Series resolves a query against a loaded result set and returns the
// matching columns as a frame.
func (s *ResultService) Series(set *ResultSet, q timeseries.Query) (*frame.Frame, error) {
	selected, err := timeseries.SelectQuery(set.Frame, q)
	if err != nil {
		return nil, err
	}
	if selected.NumColumns() == 0 {
		return nil, fmt.Errorf("%s: no series match %s", set.Source, q)
	}
	return selected, nil
}

// Profile summarizes every series of a result set.
func (s *ResultService) Profile(set *ResultSet) ([]profile.SeriesProfile, error) {
	return profile.Frame(set.Frame)
}
