package resolve

import (
	stderrors "errors"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/floorstack/pkg/errors"
	"github.com/matzehuels/floorstack/pkg/survey"
)

// floorResult is one resolved floor and the diagnostics raised on it.
type floorResult struct {
	floor       Floor
	diagnostics []Diagnostic
}

// Resolve converts a survey into a resolved building.
//
// Local failures (broken references, unparseable numbers, duplicate ids) are
// attached to the result as diagnostics and the affected records are skipped.
// Resolve returns an error only when the building has no floors, when no room
// could be resolved and diagnostics explain why, or in strict mode when any
// diagnostic was produced.
//
// The result depends only on b and the policy options: resolving the same
// survey twice, sequentially or concurrently, yields equal buildings.
func Resolve(b *survey.Building, opts Options) (*Building, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if b == nil || len(b.Floors) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "building has no floors")
	}

	var (
		results []floorResult
		err     error
	)
	if opts.Concurrency > 1 && len(b.Floors) > 1 {
		results, err = resolveConcurrent(b, &opts)
	} else {
		results = resolveSequential(b, &opts)
	}
	if err != nil {
		return nil, err
	}

	out := &Building{
		Name:   b.Name,
		Floors: make([]Floor, 0, len(results)),
	}
	for _, r := range results {
		out.Floors = append(out.Floors, r.floor)
		out.Diagnostics = append(out.Diagnostics, r.diagnostics...)
	}

	for _, d := range out.Diagnostics {
		opts.Logger.Warn("diagnostic", "code", d.Code, "floor", d.Floor, d.Entity, d.EntityID, "msg", d.Message)
	}

	if err := checkOutcome(out, opts.Strict); err != nil {
		return nil, err
	}

	c := out.Count()
	opts.Logger.Info("resolved building", "name", out.Name, "floors", c.Floors, "rooms", c.Rooms,
		"doors", c.Doors, "windows", c.Windows, "openings", c.Openings, "diagnostics", len(out.Diagnostics))
	return out, nil
}

// resolveSequential folds the floors in input order, carrying the level.
func resolveSequential(b *survey.Building, opts *Options) []floorResult {
	results := make([]floorResult, len(b.Floors))
	level := 0.0
	for i := range b.Floors {
		rooms, diags := resolveFloor(&b.Floors[i], opts)
		results[i].diagnostics = diags
		level, results[i].floor = stackFloor(level, b.Floors[i].Name, rooms)
		opts.Logger.Debug("stacked floor", "floor", results[i].floor.Name, "level", results[i].floor.Level)
	}
	return results
}

// resolveConcurrent resolves floors in parallel. Floors are independent
// until stacking, which then places them from a prefix sum of heights.
func resolveConcurrent(b *survey.Building, opts *Options) ([]floorResult, error) {
	results := make([]floorResult, len(b.Floors))

	var g errgroup.Group
	g.SetLimit(opts.Concurrency)
	for i := range b.Floors {
		g.Go(func() error {
			rooms, diags := resolveFloor(&b.Floors[i], opts)
			results[i] = floorResult{
				floor:       Floor{Name: b.Floors[i].Name, Height: FloorHeight(rooms), Rooms: rooms},
				diagnostics: diags,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "resolve floors")
	}

	heights := make([]float64, len(results))
	for i := range results {
		heights[i] = results[i].floor.Height
	}
	for i, level := range FloorLevels(heights) {
		results[i].floor.Level = level
	}
	return results, nil
}

// resolveFloor resolves every design on a floor and concatenates the rooms.
func resolveFloor(f *survey.Floor, opts *Options) ([]Room, []Diagnostic) {
	rooms := []Room{}
	var diags []Diagnostic
	for i := range f.Designs {
		diag := &diagnostics{floor: f.Name, design: i}
		rooms = append(rooms, resolveDesign(&f.Designs[i], opts, diag)...)
		diags = append(diags, diag.list...)
	}
	return rooms, diags
}

// checkOutcome applies the overall failure rules to a resolved building.
func checkOutcome(b *Building, strict bool) error {
	if len(b.Diagnostics) == 0 {
		return nil
	}

	if strict {
		errs := make([]error, len(b.Diagnostics))
		for i, d := range b.Diagnostics {
			errs[i] = d.Err()
		}
		return errors.Wrap(b.Diagnostics[0].Code, stderrors.Join(errs...),
			"strict mode: %d diagnostics", len(b.Diagnostics))
	}

	if b.Count().Rooms == 0 {
		return errors.Wrap(errors.ErrCodeResolveFailed, b.Diagnostics[0].Err(),
			"no room could be resolved (%d diagnostics)", len(b.Diagnostics))
	}
	return nil
}
