// Package export mirrors data pulled from the remote store into InfluxDB.
package export

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/justmara/ns-sync/internal/logging"
	"github.com/justmara/ns-sync/internal/nightscout"
)

// Source is the subset of the sync client the exporter reads from.
type Source interface {
	FetchGlucose(ctx context.Context, since *time.Time) ([]nightscout.BloodGlucose, error)
	FetchCarbs(ctx context.Context, since *time.Time) ([]nightscout.CarbsEntry, error)
	FetchTempTargets(ctx context.Context, since *time.Time) ([]nightscout.TempTarget, error)
}

// PointWriter is satisfied by influxdb2's api.WriteAPIBlocking.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

type Exporter struct {
	source Source
	writer PointWriter
	log    logging.Logger
}

func NewExporter(source Source, writer PointWriter, log logging.Logger) *Exporter {
	if log == nil {
		log = logging.Nop()
	}
	return &Exporter{source: source, writer: writer, log: log.With("category", "export")}
}

// ExportGlucose writes one glucose point per reading and returns how many
// were written.
func (e *Exporter) ExportGlucose(ctx context.Context, since *time.Time) (int, error) {
	readings, err := e.source.FetchGlucose(ctx, since)
	if err != nil {
		return 0, err
	}

	points := make([]*write.Point, 0, len(readings))
	for _, r := range readings {
		if r.Glucose == nil {
			continue
		}
		point := influxdb2.NewPointWithMeasurement("glucose").
			AddField("sgv", *r.Glucose).
			SetTime(readingTime(r))
		if r.Direction != "" {
			point.AddTag("direction", r.Direction)
		}
		points = append(points, point)
	}
	return e.write(ctx, "glucose", points)
}

// ExportTreatments writes carb entries and temp targets into the
// treatments measurement, tagged by type.
func (e *Exporter) ExportTreatments(ctx context.Context, since *time.Time) (int, error) {
	carbs, err := e.source.FetchCarbs(ctx, since)
	if err != nil {
		return 0, err
	}
	targets, err := e.source.FetchTempTargets(ctx, since)
	if err != nil {
		return 0, err
	}

	points := make([]*write.Point, 0, len(carbs)+len(targets))
	for _, c := range carbs {
		point := influxdb2.NewPointWithMeasurement("treatments").
			AddTag("type", "carbs").
			AddField("carbs", c.Carbs).
			SetTime(c.CreatedAt.Time)
		if c.Notes != "" {
			point.AddField("notes", c.Notes)
		}
		points = append(points, point)
	}
	for _, t := range targets {
		point := influxdb2.NewPointWithMeasurement("treatments").
			AddTag("type", "temptarget").
			AddField("duration", t.Duration).
			SetTime(t.CreatedAt.Time)
		if t.TargetTop != nil {
			point.AddField("target_top", *t.TargetTop)
		}
		if t.TargetBottom != nil {
			point.AddField("target_bottom", *t.TargetBottom)
		}
		points = append(points, point)
	}
	return e.write(ctx, "treatments", points)
}

func (e *Exporter) write(ctx context.Context, what string, points []*write.Point) (int, error) {
	if len(points) == 0 {
		e.log.Info(ctx, "nothing to export", "measurement", what)
		return 0, nil
	}
	if err := e.writer.WritePoint(ctx, points...); err != nil {
		return 0, fmt.Errorf("write %s points: %w", what, err)
	}
	e.log.Info(ctx, "exported", "measurement", what, "points", len(points))
	return len(points), nil
}

func readingTime(r nightscout.BloodGlucose) time.Time {
	if r.Date > 0 {
		return time.UnixMilli(r.Date).UTC()
	}
	return r.DateString.Time
}
