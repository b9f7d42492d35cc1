// Package telemetry mirrors weapon counters into OpenTelemetry instruments
package telemetry

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lixenwraith/ordnance/status"
)

const instrumentationName = "github.com/lixenwraith/ordnance/telemetry"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Instruments are the shared metric instruments of every weapon
type Instruments struct {
	shots    metric.Int64Counter
	rejected metric.Int64Counter
	reloads  metric.Int64Counter
	impacts  metric.Int64Counter
	kills    metric.Int64Counter
	damage   metric.Float64Counter
	flight   metric.Float64Histogram
	magazine metric.Int64ObservableGauge
}

// New creates instruments on m, or on the global provider when m is nil
// When reg is set, every "weapon.<name>.magazine" counter is observed as a gauge
func New(m metric.Meter, reg *status.Registry) (*Instruments, error) {
	if m == nil {
		m = meter()
	}
	ins := &Instruments{}

	var err error
	if ins.shots, err = m.Int64Counter("weapon.shots",
		metric.WithDescription("Projectiles discharged")); err != nil {
		return nil, fmt.Errorf("creating shots counter: %w", err)
	}
	if ins.rejected, err = m.Int64Counter("weapon.fire.rejected",
		metric.WithDescription("Fire requests rejected by state")); err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}
	if ins.reloads, err = m.Int64Counter("weapon.reloads",
		metric.WithDescription("Completed reloads")); err != nil {
		return nil, fmt.Errorf("creating reloads counter: %w", err)
	}
	if ins.impacts, err = m.Int64Counter("weapon.impacts",
		metric.WithDescription("Impacts and bounces reported")); err != nil {
		return nil, fmt.Errorf("creating impacts counter: %w", err)
	}
	if ins.kills, err = m.Int64Counter("weapon.kills",
		metric.WithDescription("Actors killed")); err != nil {
		return nil, fmt.Errorf("creating kills counter: %w", err)
	}
	if ins.damage, err = m.Float64Counter("weapon.damage",
		metric.WithDescription("Damage delivered")); err != nil {
		return nil, fmt.Errorf("creating damage counter: %w", err)
	}
	if ins.flight, err = m.Float64Histogram("weapon.flight.duration",
		metric.WithDescription("Planned projectile flight time"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating flight histogram: %w", err)
	}
	if ins.magazine, err = m.Int64ObservableGauge("weapon.magazine",
		metric.WithDescription("Rounds left in magazine")); err != nil {
		return nil, fmt.Errorf("creating magazine gauge: %w", err)
	}

	if reg != nil {
		_, err = m.RegisterCallback(
			func(ctx context.Context, o metric.Observer) error {
				reg.Ints.Range("weapon.", func(key string, v *atomic.Int64) {
					name, ok := strings.CutSuffix(strings.TrimPrefix(key, "weapon."), ".magazine")
					if !ok {
						return
					}
					o.ObserveInt64(ins.magazine, v.Load(),
						metric.WithAttributes(attribute.String("weapon", name)))
				})
				return nil
			},
			ins.magazine,
		)
		if err != nil {
			return nil, fmt.Errorf("registering magazine callback: %w", err)
		}
	}
	return ins, nil
}

// Recorder records for one weapon; a nil *Recorder discards
type Recorder struct {
	ins   *Instruments
	attrs metric.MeasurementOption
}

// Weapon returns a recorder tagging measurements with the weapon name and variant
func (ins *Instruments) Weapon(name, variant string) *Recorder {
	if ins == nil {
		return nil
	}
	return &Recorder{
		ins: ins,
		attrs: metric.WithAttributes(
			attribute.String("weapon", name),
			attribute.String("variant", variant),
		),
	}
}

func (r *Recorder) Shot(shell string) {
	if r == nil {
		return
	}
	r.ins.shots.Add(context.Background(), 1, r.attrs,
		metric.WithAttributes(attribute.String("shell", shell)))
}

func (r *Recorder) Rejected(reason string) {
	if r == nil {
		return
	}
	r.ins.rejected.Add(context.Background(), 1, r.attrs,
		metric.WithAttributes(attribute.String("reason", reason)))
}

func (r *Recorder) Reload() {
	if r == nil {
		return
	}
	r.ins.reloads.Add(context.Background(), 1, r.attrs)
}

func (r *Recorder) Impact(bounce bool) {
	if r == nil {
		return
	}
	r.ins.impacts.Add(context.Background(), 1, r.attrs,
		metric.WithAttributes(attribute.Bool("bounce", bounce)))
}

func (r *Recorder) Kill() {
	if r == nil {
		return
	}
	r.ins.kills.Add(context.Background(), 1, r.attrs)
}

func (r *Recorder) Damage(amount float64) {
	if r == nil || amount <= 0 {
		return
	}
	r.ins.damage.Add(context.Background(), amount, r.attrs)
}

func (r *Recorder) Flight(d time.Duration) {
	if r == nil {
		return
	}
	r.ins.flight.Record(context.Background(), d.Seconds(), r.attrs)
}
