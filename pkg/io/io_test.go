package io

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{in: "0x40", want: 0x40},
		{in: "40", want: 0x40},
		{in: " 0X7f ", want: 0x7F},
		{in: "0x00", want: 0x00},
		{in: "0x80", wantErr: true},
		{in: "zz", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAddress(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLine(t *testing.T) {
	n, err := ParseLine("17")
	require.NoError(t, err)
	assert.Equal(t, 17, n)

	n, err = ParseLine("GPIO27")
	require.NoError(t, err)
	assert.Equal(t, 27, n)

	_, err = ParseLine("-1")
	assert.Error(t, err)
	_, err = ParseLine("")
	assert.Error(t, err)
	_, err = ParseLine("bogus")
	assert.Error(t, err)
}

func TestOpenMock(t *testing.T) {
	tr, err := Open(Config{Kind: "MOCK"})
	require.NoError(t, err)
	assert.IsType(t, &Mock{}, tr)
	assert.NoError(t, tr.Close())
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open(Config{Kind: "spi"})
	assert.EqualError(t, err, `unknown transport "spi"`)
}
