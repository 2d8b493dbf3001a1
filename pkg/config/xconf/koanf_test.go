package xconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
ons:
  GROUP_ID: GID_demo
  AccessKey: ak
  SecretKey: sk
  NAMESRV_ADDR:
    - 10.0.0.1:9876
    - 10.0.0.2:9876
  MaxMsgSize: 128000
  MsgTraceSwitch: false
log:
  level: debug
`

const testJSON = `{
  "ons": {
    "GROUP_ID": "GID_demo",
    "MaxMsgSize": 128000,
    "SendMsgTimeoutMillis": 3000
  }
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// =============================================================================
// 加载
// =============================================================================

func TestNew_YAML(t *testing.T) {
	path := writeTemp(t, "config.yaml", testYAML)

	cfg, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, FormatYAML, cfg.Format())
	assert.Equal(t, "debug", cfg.Client().String("log.level"))
}

func TestNew_Errors(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = New("config.toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = New(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrLoadFailed)

	_, err = New(writeTemp(t, "bad.json", "{"))
	assert.ErrorIs(t, err, ErrParseFailed)
}

func TestNewFromBytes(t *testing.T) {
	cfg, err := NewFromBytes([]byte(testJSON), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, cfg.Path())
	assert.ErrorIs(t, cfg.Reload(), ErrNotReloadable)

	empty, err := NewFromBytes(nil, FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, empty.Client().All())

	_, err = NewFromBytes(nil, Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestUnmarshal(t *testing.T) {
	cfg, err := NewFromBytes([]byte(testYAML), FormatYAML)
	require.NoError(t, err)

	var logCfg struct {
		Level string `koanf:"level"`
	}
	require.NoError(t, cfg.Unmarshal("log", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
}

func TestReload_KeepsOldOnParseError(t *testing.T) {
	path := writeTemp(t, "config.yaml", testYAML)
	cfg, err := New(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("ons: [unclosed"), 0o600))
	assert.ErrorIs(t, cfg.Reload(), ErrParseFailed)
	assert.Equal(t, "debug", cfg.Client().String("log.level"))
}

// =============================================================================
// Properties
// =============================================================================

func TestProperties_YAML(t *testing.T) {
	cfg, err := NewFromBytes([]byte(testYAML), FormatYAML)
	require.NoError(t, err)

	props, err := Properties(cfg, "ons")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"GROUP_ID":       "GID_demo",
		"AccessKey":      "ak",
		"SecretKey":      "sk",
		"NAMESRV_ADDR":   "10.0.0.1:9876;10.0.0.2:9876",
		"MaxMsgSize":     "128000",
		"MsgTraceSwitch": "false",
	}, props)
}

func TestProperties_JSONNumbers(t *testing.T) {
	cfg, err := NewFromBytes([]byte(testJSON), FormatJSON)
	require.NoError(t, err)

	props, err := Properties(cfg, "ons")
	require.NoError(t, err)
	assert.Equal(t, "128000", props["MaxMsgSize"])
	assert.Equal(t, "3000", props["SendMsgTimeoutMillis"])
}

func TestProperties_Errors(t *testing.T) {
	_, err := Properties(nil, "ons")
	assert.ErrorIs(t, err, ErrNilConfig)

	cfg, err := NewFromBytes([]byte(testJSON), FormatJSON)
	require.NoError(t, err)
	_, err = Properties(cfg, "missing")
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestMergeProperties(t *testing.T) {
	base := map[string]string{"GROUP_ID": "GID_a", "AccessKey": "ak"}
	out := MergeProperties(base, map[string]string{"GROUP_ID": "GID_b", "SecretKey": ""})

	assert.Equal(t, map[string]string{"GROUP_ID": "GID_b", "AccessKey": "ak"}, out)
	assert.Equal(t, "GID_a", base["GROUP_ID"])
}
