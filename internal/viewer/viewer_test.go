package viewer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swogen/internal/common"
)

// swit encodes s as 8 bit stimulus packets on port.
func swit(port byte, s string) []byte {
	var out []byte
	for i := 0; i < len(s); i++ {
		out = append(out, (port<<3)|0x01, s[i])
	}
	return out
}

func capture() []byte {
	var b []byte
	b = append(b, swit(0, "boot ok\n")...)
	b = append(b, 0x70)
	b = append(b, swit(1, "dbg\n")...)
	b = append(b, swit(0, "tick\n")...)
	return b
}

func TestDecodeStimulusText(t *testing.T) {
	var out, logBuf bytes.Buffer
	logger := common.NewStdLoggerWithWriter(&logBuf, common.SeverityInfo)

	stats, err := Decode(bytes.NewReader(capture()), &out, Config{}, logger)
	require.NoError(t, err)

	assert.Equal(t, "boot ok\ntick\n", out.String())
	assert.Equal(t, 1, stats.Overflows)
	assert.Equal(t, 17, stats.Stimulus)
	assert.Equal(t, 18, stats.Packets)
	assert.Contains(t, logBuf.String(), "overflow")
}

func TestDecodeTaggedPorts(t *testing.T) {
	var out bytes.Buffer
	_, err := Decode(bytes.NewReader(capture()), &out, Config{Ports: []int{0, 1}}, common.NewNoOpLogger())
	require.NoError(t, err)

	assert.Equal(t, "[0] boot ok\n[1] dbg\n[0] tick\n", out.String())
}

func TestDecodeWaitSync(t *testing.T) {
	data := append([]byte{0x01, 'x'}, 0, 0, 0, 0, 0, 0x80)
	data = append(data, swit(0, "y")...)

	var out bytes.Buffer
	stats, err := Decode(bytes.NewReader(data), &out, Config{WaitSync: true}, common.NewNoOpLogger())
	require.NoError(t, err)

	assert.Equal(t, "y", out.String())
	assert.Equal(t, 3, stats.Packets) // NOTSYNC, ASYNC, SWIT
}

func TestDecodeListPackets(t *testing.T) {
	var out bytes.Buffer
	_, err := Decode(bytes.NewReader(swit(2, "A")), &out, Config{ListPackets: true}, common.NewNoOpLogger())
	require.NoError(t, err)

	assert.Equal(t, "Idx:0; SWIT:Software stimulus packet; 8 bit; Port 0x02; Data 0x00000041\n", out.String())
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swo.bin")
	require.NoError(t, os.WriteFile(path, capture(), 0644))

	var out bytes.Buffer
	_, err := Run(Config{InputFile: path, OutputWriter: &out})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "boot ok\n"))

	_, err = Run(Config{InputFile: filepath.Join(t.TempDir(), "missing.bin")})
	require.Error(t, err)
	assert.Equal(t, common.ErrFileError, common.CodeOf(err))
}
