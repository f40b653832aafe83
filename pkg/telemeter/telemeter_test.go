/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package telemeter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/telemeter/pkg/clock"
	"github.com/carverauto/telemeter/pkg/logger"
	"github.com/carverauto/telemeter/pkg/sensor"
	"github.com/carverauto/telemeter/pkg/wire"
)

var epoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixSource(fix sensor.LocationData) sensor.Source[sensor.LocationData] {
	return sensor.SourceFunc[sensor.LocationData](func(h func(sensor.LocationData)) (func(), error) {
		h(fix)
		return func() {}, nil
	})
}

func newRegistry(clk clock.Clock, mutate func(*sensor.Deps)) *sensor.Registry {
	deps := sensor.Deps{Clock: clk, Logger: logger.NewTestLogger()}
	if mutate != nil {
		mutate(&deps)
	}

	return sensor.Default(deps)
}

func TestPackedBatteryAndTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	clk := clock.Fake(epoch)

	probe := sensor.NewMockBatteryProbe(ctrl)
	probe.EXPECT().ReadBattery(gomock.Any()).Return(sensor.BatteryData{ChargePercent: 72.5}, nil)

	reg := newRegistry(clk, func(d *sensor.Deps) { d.Battery = probe })

	live := New(reg)
	require.False(t, live.Remote())
	require.NoError(t, live.Enable(ctx, sensor.NameBattery))
	assert.Equal(t, []string{sensor.NameTime, sensor.NameBattery}, live.Sensors())

	blob := live.Packed(ctx)

	clk.Advance(1500 * time.Millisecond)

	remote, err := FromPacked(reg, blob)
	require.NoError(t, err)
	require.True(t, remote.Remote())
	assert.Equal(t, epoch, remote.SentAt())

	assert.Equal(t, &sensor.BatteryData{ChargePercent: 72.5, Charging: false}, remote.Read(ctx, sensor.NameBattery))

	tm, ok := remote.Read(ctx, sensor.NameTime).(*sensor.TimeData)
	require.True(t, ok)
	assert.WithinDuration(t, clk.Now(), tm.UTC, 2*time.Second)

	all := remote.ReadAll(ctx)
	assert.Len(t, all, 2)
}

func TestPackedAlwaysCarriesTime(t *testing.T) {
	clk := clock.Fake(epoch.Add(400 * time.Millisecond))
	live := New(newRegistry(clk, nil))

	live.Disable(sensor.NameTime)
	assert.Empty(t, live.Sensors())

	r := wire.NewReader(live.Packed(context.Background()))
	assert.Equal(t, int32(1), r.Int32())
	assert.Equal(t, int32(sensor.IDTime), r.Int32())
	assert.Equal(t, int32(8), r.Int32())
	assert.Equal(t, epoch.Unix(), r.Int64())
	assert.Zero(t, r.Remaining())
	require.NoError(t, r.Err())
}

func TestPackedRefreshesStalePullSensors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	clk := clock.Fake(epoch)

	probe := sensor.NewMockBatteryProbe(ctrl)
	gomock.InOrder(
		probe.EXPECT().ReadBattery(gomock.Any()).Return(sensor.BatteryData{ChargePercent: 90}, nil),
		probe.EXPECT().ReadBattery(gomock.Any()).Return(sensor.BatteryData{ChargePercent: 89}, nil),
	)

	reg := newRegistry(clk, func(d *sensor.Deps) { d.Battery = probe })

	live := New(reg)
	require.NoError(t, live.Enable(ctx, sensor.NameBattery))

	clk.Advance(10 * time.Second)

	remote, err := FromPacked(reg, live.Packed(ctx))
	require.NoError(t, err)

	got, ok := remote.Read(ctx, sensor.NameBattery).(*sensor.BatteryData)
	require.True(t, ok)
	assert.InDelta(t, 89.0, got.ChargePercent, 1e-9)
}

func TestFromPackedSkipsUnknownIDs(t *testing.T) {
	reg := newRegistry(clock.Fake(epoch), nil)

	info := sensor.NewInformation(reg.Deps())
	info.SetContents("hello")

	payload, ok := info.Pack()
	require.True(t, ok)

	w := wire.NewWriter(64)
	w.Int32(3)
	writeEntry(w, sensor.IDTime, sensor.EncodeTime(epoch))
	writeEntry(w, sensor.ID(0x7E), []byte{1, 2, 3, 4, 5})
	writeEntry(w, sensor.IDInformation, payload)

	remote, err := FromPacked(reg, w.Bytes())
	require.NoError(t, err)

	assert.Equal(t, []string{sensor.NameTime, sensor.NameInformation}, remote.Sensors())
	assert.Equal(t, &sensor.InformationData{Contents: "hello"}, remote.Read(context.Background(), sensor.NameInformation))
}

func TestFromPackedMalformed(t *testing.T) {
	reg := newRegistry(clock.Fake(epoch), nil)
	live := New(reg)
	blob := live.Packed(context.Background())

	badPayload := wire.NewWriter(16)
	badPayload.Int32(1)
	writeEntry(badPayload, sensor.IDBattery, []byte{1, 2})

	tests := []struct {
		name string
		blob []byte
	}{
		{name: "empty", blob: nil},
		{name: "truncated payload", blob: blob[:len(blob)-3]},
		{name: "truncated header", blob: blob[:6]},
		{name: "count past end", blob: append([]byte{0, 0, 0, 9}, blob[4:]...)},
		{name: "negative count", blob: []byte{0xff, 0xff, 0xff, 0xff}},
		{name: "bad payload", blob: badPayload.Bytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote, err := FromPacked(reg, tt.blob)
			require.ErrorIs(t, err, ErrMalformedWire)
			assert.Nil(t, remote)
		})
	}
}

func TestEnableRules(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(clock.Fake(epoch), nil)

	live := New(reg)
	require.ErrorIs(t, live.Enable(ctx, "sonar"), sensor.ErrUnknownSensor)

	require.NoError(t, live.Enable(ctx, sensor.NameInformation))
	require.NoError(t, live.Enable(ctx, sensor.NameInformation))

	remote, err := FromPacked(reg, live.Packed(ctx))
	require.NoError(t, err)
	require.ErrorIs(t, remote.Enable(ctx, sensor.NameBattery), ErrRemoteTelemeter)
}

func TestStopAllKeepsTime(t *testing.T) {
	ctx := context.Background()
	live := New(newRegistry(clock.Fake(epoch), nil))

	require.NoError(t, live.Enable(ctx, sensor.NameInformation))
	require.NoError(t, live.Enable(ctx, sensor.NameCustom))

	live.StopAll()

	assert.Equal(t, []string{sensor.NameTime}, live.Sensors())
	assert.NotNil(t, live.Read(ctx, sensor.NameTime))
}

func TestSynthesizeNeverStarts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no expectations: starting the sensor would fail the test
	probe := sensor.NewMockBatteryProbe(ctrl)
	reg := newRegistry(clock.Fake(epoch), func(d *sensor.Deps) { d.Battery = probe })

	live := New(reg)

	s, err := live.Synthesize(sensor.NameBattery)
	require.NoError(t, err)
	assert.True(t, s.Synthesized())
	assert.False(t, s.Active())

	require.NoError(t, live.Enable(context.Background(), sensor.NameBattery))
	assert.False(t, s.Active())
	assert.Nil(t, live.Read(context.Background(), sensor.NameBattery))

	_, err = live.Synthesize("sonar")
	require.ErrorIs(t, err, sensor.ErrUnknownSensor)
}

func TestRenderRelativeAndReceived(t *testing.T) {
	ctx := context.Background()
	clk := clock.Fake(epoch)

	losAngeles := sensor.LocationData{Latitude: 34.0522, Longitude: -118.2437}
	sanFrancisco := sensor.LocationData{Latitude: 37.7749, Longitude: -122.4194}

	sender := New(newRegistry(clk, func(d *sensor.Deps) { d.Hardware.Location = fixSource(losAngeles) }))
	require.NoError(t, sender.Enable(ctx, sensor.NameLocation))

	receiverReg := newRegistry(clk, func(d *sensor.Deps) { d.Hardware.Location = fixSource(sanFrancisco) })
	receiver := New(receiverReg)
	require.NoError(t, receiver.Enable(ctx, sensor.NameLocation))

	report, err := FromPacked(receiverReg, sender.Packed(ctx))
	require.NoError(t, err)

	rendered := receiver.Render(ctx, report)
	require.Len(t, rendered, 2)
	assert.Equal(t, sensor.NameTime, rendered[0].Name)
	assert.Equal(t, sensor.NameLocation, rendered[1].Name)
	assert.InDelta(t, 559_120.58, rendered[1].Relative["geodesic"], 1)

	local, ok := receiver.Read(ctx, sensor.NameLocation).(*sensor.LocationData)
	require.True(t, ok)
	require.NoError(t, report.MarkReceived("relay-7", "lora0", local))

	got, ok := report.Read(ctx, sensor.NameReceived).(*sensor.ReceivedData)
	require.True(t, ok)
	assert.Equal(t, "relay-7", got.By)
	require.NotNil(t, got.Geodesic)
	assert.InDelta(t, 559_120.58, *got.Geodesic, 0.01)

	s, ok := report.Sensor(sensor.NameReceived)
	require.True(t, ok)
	assert.True(t, s.Synthesized())

	rendered = report.Render(ctx, nil)
	require.Len(t, rendered, 3)
	assert.Equal(t, sensor.NameReceived, rendered[2].Name)
}

func TestPackedRAMRoundTripKeepsDerivedValues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	clk := clock.Fake(epoch)

	host := sensor.NewMockHostProbe(ctrl)
	host.EXPECT().Memory(gomock.Any()).Return(map[string]sensor.MemoryEntry{
		"node-A": {Capacity: 1000, Used: 400},
		"node-B": {Capacity: 2000, Used: 1800},
	}, nil)

	reg := newRegistry(clk, func(d *sensor.Deps) { d.Host = host })

	live := New(reg)
	require.NoError(t, live.Enable(ctx, sensor.NameRAM))

	before, ok := live.Read(ctx, sensor.NameRAM).(*sensor.Labeled[sensor.MemoryEntry])
	require.True(t, ok)

	remote, err := FromPacked(reg, live.Packed(ctx))
	require.NoError(t, err)

	after, ok := remote.Read(ctx, sensor.NameRAM).(*sensor.Labeled[sensor.MemoryEntry])
	require.True(t, ok)
	assert.Equal(t, []string{"node-A", "node-B"}, after.Labels())

	tests := []struct {
		label   string
		free    int64
		percent float64
	}{
		{"node-A", 600, 40},
		{"node-B", 200, 90},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			want, ok := before.Get(tt.label)
			require.True(t, ok)

			got, ok := after.Get(tt.label)
			require.True(t, ok)

			assert.Equal(t, want, got)
			assert.Equal(t, tt.free, got.Free())
			assert.Equal(t, want.Free(), got.Free())
			assert.InDelta(t, tt.percent, got.Percent(), 1e-9)
			assert.Equal(t, want.Percent(), got.Percent())
		})
	}
}

func TestTelemeterClockStampsSensors(t *testing.T) {
	ctx := context.Background()

	registryClock := clock.Fake(epoch)
	own := clock.Fake(epoch.Add(time.Hour))

	reg := newRegistry(registryClock, nil)

	remote, err := FromPacked(reg, New(reg).Packed(ctx), WithClock(own))
	require.NoError(t, err)
	require.NoError(t, remote.MarkReceived("relay-7", "lora0", nil))

	s, ok := remote.Sensor(sensor.NameReceived)
	require.True(t, ok)
	assert.Equal(t, own.Now(), s.LastUpdate())

	live := New(reg, WithClock(own))

	tm, ok := live.Read(ctx, sensor.NameTime).(*sensor.TimeData)
	require.True(t, ok)
	assert.Equal(t, own.Now().Truncate(time.Second), tm.UTC)
}
