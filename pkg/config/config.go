package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Extract struct {
		OCRLanguage   string `yaml:"ocr_language"`
		OCRDPI        int    `yaml:"ocr_dpi"`
		MarkupBinary  string `yaml:"markup_binary"`
		MarkupTimeout int    `yaml:"markup_timeout"` // seconds
		MetadataURL   string `yaml:"metadata_url"`
	} `yaml:"extract"`

	Chunker struct {
		ChunkSize    int `yaml:"chunk_size"`
		ChunkOverlap int `yaml:"chunk_overlap"`
	} `yaml:"chunker"`

	Export struct {
		OutputDir string   `yaml:"output_dir"`
		Formats   []string `yaml:"formats"`
	} `yaml:"export"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/pdfcompare/config.yaml"),
			"/etc/pdfcompare/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.Extract.OCRLanguage == "" {
		config.Extract.OCRLanguage = "eng"
	}
	if config.Extract.OCRDPI == 0 {
		config.Extract.OCRDPI = 300
	}
	if config.Extract.MarkupBinary == "" {
		config.Extract.MarkupBinary = "nougat"
	}
	if config.Extract.MarkupTimeout == 0 {
		config.Extract.MarkupTimeout = 1800
	}
	if config.Extract.MetadataURL == "" {
		config.Extract.MetadataURL = "http://localhost:8070"
	}

	if config.Chunker.ChunkSize == 0 {
		config.Chunker.ChunkSize = 1000
	}
	if config.Chunker.ChunkOverlap == 0 {
		config.Chunker.ChunkOverlap = 100
	}

	if config.Export.OutputDir == "" {
		config.Export.OutputDir = "."
	}
}

func mergeWithEnv(config *Config) {
	if url := os.Getenv("METADATA_SERVER_URL"); url != "" {
		config.Extract.MetadataURL = url
	}
	if bin := os.Getenv("MARKUP_MODEL_BIN"); bin != "" {
		config.Extract.MarkupBinary = bin
	}
}
