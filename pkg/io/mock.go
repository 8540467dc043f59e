package io

import (
	"fmt"
	"sync"

	"github.com/Seann-Moser/pwmhat/pkg/pca9685"
)

// Op is one register access seen by a Mock.
type Op struct {
	Write bool
	Addr  uint8
	Value uint8
}

func (o Op) String() string {
	if o.Write {
		return fmt.Sprintf("W 0x%02X <- 0x%02X", o.Addr, o.Value)
	}
	return fmt.Sprintf("R 0x%02X -> 0x%02X", o.Addr, o.Value)
}

// Mock is an in-memory register map. It starts zeroed; PowerOn loads the
// datasheet reset values. Failures can be injected per register.
type Mock struct {
	mu         sync.Mutex
	regs       [256]uint8
	ops        []Op
	failRead   map[uint8]error
	failWrite  map[uint8]error
	resetCount int
}

func NewMock() *Mock {
	return &Mock{
		failRead:  map[uint8]error{},
		failWrite: map[uint8]error{},
	}
}

// PowerOn sets the registers to their power-on values.
func (m *Mock) PowerOn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.powerOn()
}

func (m *Mock) powerOn() {
	m.regs = [256]uint8{}
	m.regs[pca9685.Mode1] = pca9685.Sleep | pca9685.AllCall
	m.regs[pca9685.Mode2] = pca9685.OutDrv
	m.regs[pca9685.SubAddr1] = 0xE2
	m.regs[pca9685.SubAddr2] = 0xE4
	m.regs[pca9685.SubAddr3] = 0xE8
	m.regs[pca9685.AllCallAdr] = 0xE0
	for i := 0; i < pca9685.NumChannels; i++ {
		m.regs[pca9685.BaseLedOffHigh+uint8(4*i)] = pca9685.FullBit
	}
	m.regs[pca9685.PreScale] = 0x1E
}

func (m *Mock) ReadRegister(addr uint8) (uint8, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failRead[addr]; err != nil {
		return 0, err
	}
	v := m.regs[addr]
	m.ops = append(m.ops, Op{Addr: addr, Value: v})
	return v, nil
}

func (m *Mock) WriteRegister(addr uint8, value uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failWrite[addr]; err != nil {
		return err
	}
	m.regs[addr] = value
	m.ops = append(m.ops, Op{Write: true, Addr: addr, Value: value})
	return nil
}

// SoftwareReset behaves like SWRST: every register goes back to power-on.
func (m *Mock) SoftwareReset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCount++
	m.powerOn()
	return nil
}

func (m *Mock) Close() error { return nil }

// Set writes a register without recording an Op.
func (m *Mock) Set(addr uint8, value uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regs[addr] = value
}

// Get reads a register without recording an Op or hitting injected faults.
func (m *Mock) Get(addr uint8) uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs[addr]
}

func (m *Mock) FailRead(addr uint8, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRead[addr] = err
}

func (m *Mock) FailWrite(addr uint8, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrite[addr] = err
}

func (m *Mock) ClearFaults() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRead = map[uint8]error{}
	m.failWrite = map[uint8]error{}
}

// Ops returns a copy of the accesses recorded so far.
func (m *Mock) Ops() []Op {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Op(nil), m.ops...)
}

func (m *Mock) ResetOps() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = nil
}

func (m *Mock) Resets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetCount
}

func (m *Mock) String() string { return "mock" }
