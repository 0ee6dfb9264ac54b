package setup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/corridormap/config"
	"gopkg.in/yaml.v3"
)

func TestWrite(t *testing.T) {
	tests := []struct {
		name    string
		answers Answers
		want    config.ConfigTmp
	}{
		{
			name: "web dashboard over api",
			answers: Answers{
				Mode: config.ModeWeb, Source: config.SourceAPI, APIURL: " https://api.example.com ",
				Period: "30d", Addr: ":9000", Refresh: "1m", PublicURL: "ignored",
			},
			want: config.ConfigTmp{
				Mode: config.ModeWeb, Source: config.SourceAPI, APIURL: "https://api.example.com",
				Period: "30d", Addr: ":9000", RefreshInterval: time.Minute,
			},
		},
		{
			name: "terminal over file",
			answers: Answers{
				Mode: config.ModeTUI, Source: config.SourceFile, CorridorsFile: "corridors.yaml",
				APIURL: "http://ignored", Period: "24h", PublicURL: "https://insights.example",
			},
			want: config.ConfigTmp{
				Mode: config.ModeTUI, Source: config.SourceFile, CorridorsFile: "corridors.yaml",
				Period: "24h", PublicURL: "https://insights.example",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.gen.yaml")
			require.NoError(t, Write(path, tt.answers))

			data, err := os.ReadFile(path)
			require.NoError(t, err)

			var got config.ConfigTmp
			require.NoError(t, yaml.Unmarshal(data, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidators(t *testing.T) {
	file := filepath.Join(t.TempDir(), "corridors.json")
	require.NoError(t, os.WriteFile(file, []byte("[]"), 0o644))

	assert.NoError(t, validateURL("https://api.example.com"))
	assert.Error(t, validateURL("api.example.com"))
	assert.Error(t, validateURL(""))

	assert.NoError(t, validateFile(file))
	assert.Error(t, validateFile(""))
	assert.Error(t, validateFile(filepath.Dir(file)))
	assert.Error(t, validateFile(filepath.Join(filepath.Dir(file), "missing.json")))

	assert.NoError(t, validateInterval("30s"))
	assert.Error(t, validateInterval("0s"))
	assert.Error(t, validateInterval("soon"))
}
