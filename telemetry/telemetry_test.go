package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/lixenwraith/ordnance/status"
)

func TestRecorderOnNoopMeter(t *testing.T) {
	reg := status.NewRegistry()
	reg.Weapon("howitzer").Magazine.Store(4)

	ins, err := New(noop.NewMeterProvider().Meter("test"), reg)
	require.NoError(t, err)

	rec := ins.Weapon("howitzer", "arched")
	assert.NotPanics(t, func() {
		rec.Shot("HE")
		rec.Rejected("cooldown")
		rec.Reload()
		rec.Impact(true)
		rec.Kill()
		rec.Damage(42)
		rec.Flight(1500 * time.Millisecond)
	})
}

func TestGlobalMeterFallback(t *testing.T) {
	ins, err := New(nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, ins.Weapon("rifle", "direct"))
}

func TestNilRecorder(t *testing.T) {
	var ins *Instruments
	rec := ins.Weapon("x", "y")
	assert.Nil(t, rec)
	assert.NotPanics(t, func() {
		rec.Shot("AP")
		rec.Damage(1)
		rec.Flight(time.Second)
	})
}
