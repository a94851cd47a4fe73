package aggregate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"resframe/domain/core"
	"resframe/domain/frame"
	"resframe/domain/timeseries"
)

// FrameAggregator reduces a wide time-indexed frame to one row per entity,
// applying per-level strategies along duplicate, then chainage, then time.
// It is a pure configuration object; Aggregate keeps no state between calls.
type FrameAggregator struct {
	strategies map[string]Strategy
	name       string
}

type config struct {
	perLevel map[string]interface{}
	name     string
}

// Option overrides part of the aggregator configuration.
type Option func(*config)

// WithDuplicateStrategy overrides the strategy for the duplicate level.
func WithDuplicateStrategy(spec interface{}) Option {
	return func(c *config) { c.perLevel[timeseries.LevelDuplicate] = spec }
}

// WithChainageStrategy overrides the strategy for the chainage level.
func WithChainageStrategy(spec interface{}) Option {
	return func(c *config) { c.perLevel[timeseries.LevelChainage] = spec }
}

// WithTimeStrategy overrides the strategy for the time axis.
func WithTimeStrategy(spec interface{}) Option {
	return func(c *config) { c.perLevel[timeseries.LevelTime] = spec }
}

// WithName overrides the aggregation name joined into output column labels.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// New builds an aggregator around a default strategy specification applied
// to every aggregatable level unless overridden. All validation happens
// here: a missing or malformed strategy never survives construction.
func New(defaultStrategy interface{}, opts ...Option) (*FrameAggregator, error) {
	c := &config{perLevel: make(map[string]interface{})}
	for _, opt := range opts {
		opt(c)
	}

	if err := validateLevelSets(); err != nil {
		return nil, err
	}

	strategies := make(map[string]Strategy, len(timeseries.AggregatableLevels))
	for _, level := range timeseries.AggregatableLevels {
		spec, ok := c.perLevel[level]
		if !ok {
			spec = defaultStrategy
		}
		if spec == nil {
			if level == timeseries.LevelTime {
				return nil, core.ErrNoTimeStrategy
			}
			return nil, fmt.Errorf("%w: no strategy for level %q and no default given", core.ErrInvalidStrategy, level)
		}
		strat, err := Resolve(spec)
		if err != nil {
			return nil, fmt.Errorf("level %q: %w", level, err)
		}
		strategies[level] = strat
	}

	name := c.name
	if name == "" {
		name = strategies[timeseries.LevelTime].Name
	}
	return &FrameAggregator{strategies: strategies, name: name}, nil
}

// validateLevelSets asserts that the entity levels and the aggregatable
// levels (minus time) partition the full set of key fields with no overlap
// and no gaps.
func validateLevelSets() error {
	seen := make(map[string]int)
	for _, level := range timeseries.EntityLevels {
		seen[level]++
	}
	last := timeseries.AggregatableLevels[len(timeseries.AggregatableLevels)-1]
	if last != timeseries.LevelTime {
		return fmt.Errorf("%w: aggregatable levels must end with time", core.ErrLevelSetMismatch)
	}
	for _, level := range timeseries.AggregatableLevels {
		if level == timeseries.LevelTime {
			continue
		}
		seen[level]++
	}
	if len(seen) != len(timeseries.Levels) {
		return fmt.Errorf("%w: covered %d of %d fields", core.ErrLevelSetMismatch, len(seen), len(timeseries.Levels))
	}
	for _, level := range timeseries.Levels {
		if seen[level] != 1 {
			return fmt.Errorf("%w: level %q assigned %d times", core.ErrLevelSetMismatch, level, seen[level])
		}
	}
	return nil
}

// Name returns the aggregation name used in output column labels.
func (a *FrameAggregator) Name() string {
	return a.name
}

// Aggregate reduces the frame to one row per entity and one column per
// quantity: duplicate and chainage are reduced across columns, then the
// time axis is reduced to a scalar per remaining column.
func (a *FrameAggregator) Aggregate(f *frame.Frame) (*EntityTable, error) {
	if f == nil || f.Index() == nil {
		return nil, core.ErrNoColumnIndex
	}
	for _, level := range []string{timeseries.LevelQuantity, timeseries.LevelName} {
		if !f.Index().HasLevel(level) {
			return nil, core.NewMissingLevelError(level)
		}
	}

	f, err := a.dropGroupLevel(f)
	if err != nil {
		return nil, err
	}

	for _, level := range []string{timeseries.LevelDuplicate, timeseries.LevelChainage} {
		if !f.Index().HasLevel(level) {
			continue
		}
		f, err = reduceLevel(f, level, a.strategies[level])
		if err != nil {
			return nil, fmt.Errorf("reducing %s: %w", level, err)
		}
	}

	return a.reduceTime(f)
}

// dropGroupLevel removes the group level when every column shares one
// group. Mixing entity groups in one aggregation is an input error.
func (a *FrameAggregator) dropGroupLevel(f *frame.Frame) (*frame.Frame, error) {
	ix := f.Index()
	if !ix.HasLevel(timeseries.LevelGroup) {
		return f, nil
	}
	values, err := ix.Values(timeseries.LevelGroup)
	if err != nil {
		return nil, err
	}
	distinct := make([]string, 0, 1)
	for _, v := range values {
		s := fmt.Sprintf("%v", v)
		found := false
		for _, d := range distinct {
			if d == s {
				found = true
				break
			}
		}
		if !found {
			distinct = append(distinct, s)
		}
	}
	if len(distinct) > 1 {
		return nil, core.NewMixedGroupsError(distinct)
	}
	dropped, err := ix.DropLevel(timeseries.LevelGroup)
	if err != nil {
		return nil, err
	}
	return f.WithIndex(dropped)
}

// reduceLevel groups columns by every level except the target and reduces
// the target level row-wise with the given strategy.
func reduceLevel(f *frame.Frame, level string, strat Strategy) (*frame.Frame, error) {
	dropped, err := f.Index().DropLevel(level)
	if err != nil {
		return nil, err
	}

	// Group columns in first-seen order by their reduced label.
	order := make([]int, 0)
	members := make(map[string][]int)
	keys := make([]string, 0, f.NumColumns())
	for i := 0; i < dropped.Len(); i++ {
		key := labelKey(dropped.Label(i))
		if _, ok := members[key]; !ok {
			order = append(order, i)
			keys = append(keys, key)
		}
		members[key] = append(members[key], i)
	}

	labels := make([]frame.Label, len(order))
	data := make([][]float64, len(order))
	rows := f.Len()
	for g, firstCol := range order {
		cols := members[keys[g]]
		labels[g] = dropped.Label(firstCol)
		out := make([]float64, rows)
		samples := make([]float64, len(cols))
		for r := 0; r < rows; r++ {
			for k, c := range cols {
				samples[k] = f.Column(c)[r]
			}
			v, err := strat.Fn(samples)
			if err != nil {
				return nil, fmt.Errorf("strategy %q: %w", strat.Name, err)
			}
			out[r] = v
		}
		data[g] = out
	}

	index, err := frame.NewColumnIndex(dropped.Levels(), labels)
	if err != nil {
		return nil, err
	}
	return frame.New(f.Times(), index, data)
}

// reduceTime collapses each remaining column to a scalar and reshapes into
// entity rows by "{name}_{quantity}" columns.
func (a *FrameAggregator) reduceTime(f *frame.Frame) (*EntityTable, error) {
	strat := a.strategies[timeseries.LevelTime]
	ix := f.Index()

	table := NewEntityTable()
	for i := 0; i < ix.Len(); i++ {
		v, err := strat.Fn(f.Column(i))
		if err != nil {
			return nil, fmt.Errorf("strategy %q: %w", strat.Name, err)
		}
		quantity, _ := ix.Value(i, timeseries.LevelQuantity)
		table.Set(entityLabel(ix, i), fmt.Sprintf("%s_%v", a.name, quantity), v)
	}
	return table, nil
}

// entityLabel renders the row key for one column: the entity name, with the
// tag appended when present and a marker for derived series.
func entityLabel(ix *frame.ColumnIndex, i int) string {
	name, _ := ix.Value(i, timeseries.LevelName)
	label := fmt.Sprintf("%v", name)
	if tag, ok := ix.Value(i, timeseries.LevelTag); ok {
		if s := fmt.Sprintf("%v", tag); s != "" {
			label += " (" + s + ")"
		}
	}
	if derived, ok := ix.Value(i, timeseries.LevelDerived); ok {
		if b, isBool := derived.(bool); isBool && b {
			label += " [derived]"
		}
	}
	return label
}

// labelKey renders a label as a collision-safe map key. Type names are
// included so int 0 and string "0" never collide; all NaNs render alike.
func labelKey(label frame.Label) string {
	var b strings.Builder
	for _, v := range label {
		switch t := v.(type) {
		case float64:
			b.WriteString("f:")
			b.WriteString(strconv.FormatUint(floatBits(t), 16))
		default:
			fmt.Fprintf(&b, "%T:%v", v, v)
		}
		b.WriteByte('\x1f')
	}
	return b.String()
}

// floatBits folds every NaN payload to one bit pattern so all NaN
// chainages group together.
func floatBits(f float64) uint64 {
	if math.IsNaN(f) {
		return math.Float64bits(math.NaN())
	}
	return math.Float64bits(f)
}
