package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Envs struct {
		Dir        string `json:"dir"`
		SchemaFile string `json:"schema_file"`
		RootPath   string `json:"root_path"`
	} `json:"envs,omitempty"`

	Persistence struct {
		Enabled     bool     `json:"enabled"`
		MinInterval Duration `json:"min_interval"`
		FileKey     string   `json:"file_key"`
		Indent      bool     `json:"indent"`
	} `json:"persistence,omitempty"`

	Log struct {
		Level string `json:"level"`
	} `json:"log,omitempty"`

	Env string `json:"env"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Envs: Envs{
			Dir:        jsonCfg.Envs.Dir,
			SchemaFile: jsonCfg.Envs.SchemaFile,
			RootPath:   jsonCfg.Envs.RootPath,
		},
		Persistence: Persistence{
			Enabled:     jsonCfg.Persistence.Enabled,
			MinInterval: time.Duration(jsonCfg.Persistence.MinInterval),
			FileKey:     jsonCfg.Persistence.FileKey,
			Indent:      jsonCfg.Persistence.Indent,
		},
		Log: Log{
			Level: jsonCfg.Log.Level,
		},
		EnvID:        jsonCfg.Env,
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
