package state

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/dynacore/pkg/framework/param"
)

func newRegistry(t *testing.T) *param.Registry {
	t.Helper()
	r := param.NewRegistry()
	require.NoError(t, r.Add(
		param.PercentParameter(0, "Gain", 0).Build(),
		param.SwitchParameter(2, "Bypass", false).Bypass().Build(),
		param.DecibelParameter(22, "Output Level", -24, 24, 0).Build(),
		param.MeterParameter(23, "Output Meter", -96, 24).Build(),
	))
	return r
}

func TestSaveLoadRoundTrip(t *testing.T) {
	src := newRegistry(t)
	src.Get(0).SetPlainValue(75)
	src.Get(2).SetValue(1)
	src.Get(22).SetPlainValue(-6)

	var buf bytes.Buffer
	require.NoError(t, NewManager(src).Save(&buf))
	assert.Equal(t, Magic, buf.String()[:6])

	dst := newRegistry(t)
	require.NoError(t, NewManager(dst).Load(&buf))

	for _, p := range src.All() {
		assert.Equal(t, p.GetValue(), dst.Get(p.ID).GetValue(), "parameter %d", p.ID)
	}
}

func TestLoadSkipsReadOnly(t *testing.T) {
	src := newRegistry(t)
	src.Get(23).SetPlainValue(-40)

	var buf bytes.Buffer
	require.NoError(t, NewManager(src).Save(&buf))

	dst := newRegistry(t)
	require.NoError(t, NewManager(dst).Load(&buf))

	assert.Equal(t, 0.0, dst.Get(23).GetPlainValue())
}

func TestLoadIgnoresUnknownIDs(t *testing.T) {
	src := newRegistry(t)
	require.NoError(t, src.Add(param.New(99, "Future").Build()))
	src.Get(99).SetValue(0.3)
	src.Get(0).SetValue(0.9)

	var buf bytes.Buffer
	require.NoError(t, NewManager(src).Save(&buf))

	dst := newRegistry(t)
	require.NoError(t, NewManager(dst).Load(&buf))
	assert.Equal(t, 0.9, dst.Get(0).GetValue())
	assert.Nil(t, dst.Get(99))
}

func TestCustomState(t *testing.T) {
	src := newRegistry(t)
	m := NewManager(src)
	m.SetCustomState(func(w io.Writer) error {
		_, err := io.WriteString(w, "custom")
		return err
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))

	var got []byte
	dst := NewManager(newRegistry(t))
	dst.SetCustomState(nil, func(r io.Reader) error {
		var err error
		got, err = io.ReadAll(r)
		return err
	})
	require.NoError(t, dst.Load(&buf))
	assert.Equal(t, "custom", string(got))
}

func TestCustomStateWithoutLoader(t *testing.T) {
	m := NewManager(newRegistry(t))
	m.SetCustomState(func(w io.Writer) error {
		_, err := w.Write([]byte{1, 2, 3})
		return err
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))
	assert.NoError(t, NewManager(newRegistry(t)).Load(&buf))
}

func TestCustomLoadError(t *testing.T) {
	m := NewManager(newRegistry(t))
	m.SetCustomState(func(w io.Writer) error { return nil }, nil)

	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))

	boom := errors.New("boom")
	dst := NewManager(newRegistry(t))
	dst.SetCustomState(nil, func(io.Reader) error { return boom })
	assert.ErrorIs(t, dst.Load(&buf), boom)
}

func TestLoadErrors(t *testing.T) {
	var valid bytes.Buffer
	require.NoError(t, NewManager(newRegistry(t)).Save(&valid))

	newer := append([]byte(Magic), 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(newer[len(Magic):], Version+1)

	negative := append([]byte(Magic), 1, 0, 0, 0, 0xff, 0xff, 0xff, 0xff)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrInvalidFormat},
		{"bad magic", []byte("VST3GO\x01\x00\x00\x00"), ErrInvalidFormat},
		{"short version", []byte(Magic + "\x01"), ErrInvalidFormat},
		{"newer version", newer, ErrUnsupportedVersion},
		{"negative count", negative, ErrInvalidFormat},
		{"truncated", valid.Bytes()[:valid.Len()-10], ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewManager(newRegistry(t)).Load(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestSaveWriteError(t *testing.T) {
	err := NewManager(newRegistry(t)).Save(failWriter{})
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}
