/*
 * config.go, part of dftpif.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package config reads the settings of the dfttopif command: an optional HCL
// file, a .env file and DFTTOPIF_* environment variables, in increasing order of priority.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
)

const envPrefix = "DFTTOPIF_"

type Config struct {
	Verbose       bool    `hcl:"verbose,optional"`
	QualityReport bool    `hcl:"quality_report,optional"`
	Inline        bool    `hcl:"inline,optional"`
	LogFormat     string  `hcl:"log_format,optional"`
	ScratchRoot   string  `hcl:"scratch_root,optional"`
	Catalog       string  `hcl:"catalog,optional"`
	Report        *Report `hcl:"report,block"`
}

// Report configures the validation service, and where non-inline reports go.
type Report struct {
	Endpoint string `hcl:"endpoint,optional"`
	S3       *S3    `hcl:"s3,block"`
}

type S3 struct {
	Endpoint  string `hcl:"endpoint"`
	Bucket    string `hcl:"bucket"`
	Region    string `hcl:"region,optional"`
	Prefix    string `hcl:"prefix,optional"`
	AccessKey string `hcl:"access_key,optional"`
	SecretKey string `hcl:"secret_key,optional"`
	UseSSL    bool   `hcl:"use_ssl,optional"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{LogFormat: "text", Report: &Report{}}
}

// LoadFile decodes the HCL file at path on top of the defaults.
func LoadFile(path string) (*Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("LoadFile: parsing %s: %w", path, diags)
	}
	cfg := Default()
	if diags := gohcl.DecodeBody(f.Body, nil, cfg); diags.HasErrors() {
		return nil, fmt.Errorf("LoadFile: decoding %s: %w", path, diags)
	}
	if cfg.Report == nil {
		cfg.Report = &Report{}
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	return cfg, nil
}

// Load reads the HCL file at path, if path is not empty, then the .env file in the
// working directory, if there is one, and finally the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}
	_ = godotenv.Load()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	var err error
	boolean := func(name string, dst *bool) {
		v, ok := lookup(envPrefix + name)
		if !ok || err != nil {
			return
		}
		b, perr := strconv.ParseBool(strings.TrimSpace(v))
		if perr != nil {
			err = fmt.Errorf("%s%s: %w", envPrefix, name, perr)
			return
		}
		*dst = b
	}
	boolean("VERBOSE", &c.Verbose)
	boolean("QUALITY_REPORT", &c.QualityReport)
	boolean("INLINE", &c.Inline)
	str("LOG_FORMAT", &c.LogFormat)
	str("SCRATCH_ROOT", &c.ScratchRoot)
	str("CATALOG", &c.Catalog)
	str("REPORT_ENDPOINT", &c.Report.Endpoint)
	if _, ok := lookup(envPrefix + "S3_ENDPOINT"); ok && c.Report.S3 == nil {
		c.Report.S3 = &S3{}
	}
	if s3 := c.Report.S3; s3 != nil {
		str("S3_ENDPOINT", &s3.Endpoint)
		str("S3_BUCKET", &s3.Bucket)
		str("S3_REGION", &s3.Region)
		str("S3_PREFIX", &s3.Prefix)
		str("S3_ACCESS_KEY", &s3.AccessKey)
		str("S3_SECRET_KEY", &s3.SecretKey)
		boolean("S3_USE_SSL", &s3.UseSSL)
	}
	return err
}

// Validate checks the values that can only be wrong in one way.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("Validate: log_format must be text or json, not %q", c.LogFormat)
	}
	if c.Report != nil && c.Report.S3 != nil && c.Inline {
		return fmt.Errorf("Validate: inline reports are not stored, the s3 block cannot be used with inline")
	}
	return nil
}
