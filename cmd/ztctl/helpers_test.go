package main

import (
	"bufio"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}

func TestVerbosityLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, verbosityLevel(0))
	assert.Equal(t, zapcore.InfoLevel, verbosityLevel(1))
	assert.Equal(t, zapcore.DebugLevel, verbosityLevel(2))
	assert.Equal(t, zapcore.DebugLevel, verbosityLevel(5))
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf strings.Builder
	logger := newLogger(0, &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "WARN")
}

func testPrompter(input string, terminal bool, secret string, secretErr error) (*prompter, *strings.Builder) {
	var out strings.Builder
	return &prompter{
		in:         bufio.NewReader(strings.NewReader(input)),
		out:        &out,
		isTerminal: func() bool { return terminal },
		readSecret: func() ([]byte, error) { return []byte(secret), secretErr },
	}, &out
}

func TestPrompter_Ask(t *testing.T) {
	p, out := testPrompter("  8056c2e21c000001 \n", true, "", nil)

	v, err := p.Ask("Network id", "network-id", "NSF_ZEROTIER_NETWORK_ID")
	require.NoError(t, err)
	assert.Equal(t, "8056c2e21c000001", v)
	assert.Equal(t, "Network id: ", out.String())
}

func TestPrompter_AskWithoutTrailingNewline(t *testing.T) {
	p, _ := testPrompter("abc", true, "", nil)

	v, err := p.Ask("Member id", "member-id", "NSF_ZEROTIER_MEMBER_ID")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
}

func TestPrompter_NotTerminal(t *testing.T) {
	p, out := testPrompter("ignored\n", false, "", nil)

	_, err := p.Ask("Network id", "network-id", "NSF_ZEROTIER_NETWORK_ID")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--network-id")
	assert.Contains(t, err.Error(), "NSF_ZEROTIER_NETWORK_ID")
	assert.Empty(t, out.String())
}

func TestPrompter_EmptyAnswer(t *testing.T) {
	p, _ := testPrompter("\n", true, "", nil)

	_, err := p.Ask("Network id", "network-id", "NSF_ZEROTIER_NETWORK_ID")
	assert.Error(t, err)
}

func TestPrompter_AskSecret(t *testing.T) {
	p, out := testPrompter("", true, " s3cret\n", nil)

	v, err := p.AskSecret("API token", "api-token", "NSF_ZEROTIER_API_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)
	assert.NotContains(t, out.String(), "s3cret")

	p, _ = testPrompter("", true, "", errors.New("tty gone"))
	_, err = p.AskSecret("API token", "api-token", "NSF_ZEROTIER_API_TOKEN")
	assert.Error(t, err)
}
