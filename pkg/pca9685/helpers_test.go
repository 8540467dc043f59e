package pca9685_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Seann-Moser/pwmhat/pkg/io"
	"github.com/Seann-Moser/pwmhat/pkg/pca9685"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errBus = errors.New("remote I/O error")

// recorder logs bus accesses and oscillator waits in one timeline.
type recorder struct {
	*io.Mock
	events []string
}

func newRecorder() *recorder {
	return &recorder{Mock: io.NewMock()}
}

func (r *recorder) ReadRegister(addr uint8) (uint8, error) {
	v, err := r.Mock.ReadRegister(addr)
	if err == nil {
		r.events = append(r.events, fmt.Sprintf("R 0x%02x", addr))
	}
	return v, err
}

func (r *recorder) WriteRegister(addr uint8, value uint8) error {
	err := r.Mock.WriteRegister(addr, value)
	if err == nil {
		r.events = append(r.events, fmt.Sprintf("W 0x%02x 0x%02x", addr, value))
	}
	return err
}

func (r *recorder) delay(d time.Duration) {
	r.events = append(r.events, "sleep "+d.String())
}

func (r *recorder) controller(t *testing.T) *pca9685.Controller {
	t.Helper()
	c, err := pca9685.New(r, pca9685.WithDelay(r.delay))
	require.NoError(t, err)
	r.events = nil
	return c
}

func noDelay(time.Duration) {}

// newController builds a controller on a fresh mock bus.
func newController(t *testing.T) (*pca9685.Controller, *io.Mock) {
	t.Helper()
	bus := io.NewMock()
	c, err := pca9685.New(bus, pca9685.WithDelay(noDelay))
	require.NoError(t, err)
	bus.ResetOps()
	return c, bus
}

type mockBus struct {
	mock.Mock
}

func (m *mockBus) ReadRegister(addr uint8) (uint8, error) {
	args := m.Called(addr)
	return args.Get(0).(uint8), args.Error(1)
}

func (m *mockBus) WriteRegister(addr uint8, value uint8) error {
	return m.Called(addr, value).Error(0)
}

func (m *mockBus) expectInit(mode1 uint8) {
	m.On("WriteRegister", pca9685.Mode2, pca9685.OutDrv).Return(nil).Once()
	m.On("WriteRegister", pca9685.Mode1, pca9685.AllCall).Return(nil).Once()
	m.On("ReadRegister", pca9685.Mode1).Return(mode1, nil).Once()
	m.On("WriteRegister", pca9685.Mode1, mode1&^pca9685.Sleep).Return(nil).Once()
}

// busOnly hides every optional interface of the wrapped bus.
type busOnly struct {
	pca9685.Bus
}
