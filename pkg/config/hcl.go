// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files.
// Expressions may read the process environment as env.NAME.
type HCLParser struct {
	// Environ overrides os.Environ, for tests
	Environ func() []string
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

func (p *HCLParser) evalContext() *hcl.EvalContext {
	environ := os.Environ
	if p.Environ != nil {
		environ = p.Environ
	}

	env := map[string]cty.Value{}
	for _, kv := range environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

// 📝 Parse parses the recipe from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "recipe.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Define HCL schema
	type hclConfig struct {
		Path           *string  `hcl:"path,optional"`
		Force          *bool    `hcl:"force,optional"`
		Quiet          *bool    `hcl:"quiet,optional"`
		IdempotentFail *bool    `hcl:"idempotent_fail,optional"`
		NoColor        *bool    `hcl:"no_color,optional"`
		Protected      []string `hcl:"protected,optional"`
		Line           *string  `hcl:"line,optional"`
		Block          *struct {
			Lines []string `hcl:"lines"`
			Start string   `hcl:"start"`
			End   string   `hcl:"end"`
		} `hcl:"block,block"`
		Replace *struct {
			From string `hcl:"from"`
			To   string `hcl:"to"`
		} `hcl:"replace,block"`
		ReplaceRe *struct {
			Pattern     string `hcl:"pattern"`
			Replacement string `hcl:"replacement"`
		} `hcl:"replace_re,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, p.evalContext(), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Protected: hclCfg.Protected,
		Line:      hclCfg.Line,
	}
	if hclCfg.Path != nil {
		cfg.Path = *hclCfg.Path
	}
	if hclCfg.Force != nil {
		cfg.Force = *hclCfg.Force
	}
	if hclCfg.Quiet != nil {
		cfg.Quiet = *hclCfg.Quiet
	}
	if hclCfg.IdempotentFail != nil {
		cfg.IdempotentFail = *hclCfg.IdempotentFail
	}
	if hclCfg.NoColor != nil {
		cfg.NoColor = *hclCfg.NoColor
	}
	if hclCfg.Block != nil {
		cfg.Block = &BlockArgs{
			Lines: hclCfg.Block.Lines,
			Start: hclCfg.Block.Start,
			End:   hclCfg.Block.End,
		}
	}
	if hclCfg.Replace != nil {
		cfg.Replace = &ReplaceArgs{From: hclCfg.Replace.From, To: hclCfg.Replace.To}
	}
	if hclCfg.ReplaceRe != nil {
		cfg.ReplaceRe = &ReplaceReArgs{
			Pattern:     hclCfg.ReplaceRe.Pattern,
			Replacement: hclCfg.ReplaceRe.Replacement,
		}
	}

	return cfg, nil
}
