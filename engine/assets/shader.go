package assets

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/ember/engine/api"
	"github.com/spaghettifunk/ember/engine/resources"
)

var ErrShaderNoStages = errors.New("shader config declares no stages")

// ShaderConfig is the content of a .shadercfg file.
type ShaderConfig struct {
	/** @brief The name of the shader to be created. */
	Name string `toml:"name"`
	/** @brief The name of the renderpass used by this shader. */
	Renderpass string `toml:"renderpass"`
	/** @brief Stage name to source file, relative to the config. */
	Stages map[string]string `toml:"stages"`
}

// Shader holds the stage sources of a shader program and, when the video
// plugin compiles shaders, the compiled program.
type Shader struct {
	resources.Base
	Config  ShaderConfig
	Sources map[api.ShaderStage][]byte

	program api.DeviceShader
}

func (s *Shader) Program() api.DeviceShader {
	return s.program
}

// StageNames returns the declared stages in a stable order.
func (s *Shader) StageNames() []api.ShaderStage {
	out := make([]api.ShaderStage, 0, len(s.Sources))
	for st := range s.Sources {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *Shader) Dispose() {
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
}

func LoadShader(l *resources.Loader) (*Shader, error) {
	data, err := l.ReadFile()
	if err != nil {
		return nil, err
	}

	var cfg ShaderConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing shader config '%s': %w", l.AssetID(), err)
	}
	if len(cfg.Stages) == 0 {
		return nil, ErrShaderNoStages
	}
	if cfg.Name == "" {
		cfg.Name = path.Base(l.AssetID())
	}

	s := &Shader{
		Config:  cfg,
		Sources: make(map[api.ShaderStage][]byte, len(cfg.Stages)),
	}
	for stage, file := range cfg.Stages {
		src, err := os.ReadFile(siblingPath(l, file))
		if err != nil {
			return nil, fmt.Errorf("reading %s stage of '%s': %w", stage, cfg.Name, err)
		}
		s.Sources[api.ShaderStage(stage)] = src
	}

	if compiler, ok := api.Lookup[api.ShaderCompiler](l.Manager().Host(), api.KindVideo); ok {
		program, err := compiler.CompileShader(cfg.Name, s.Sources)
		if err != nil {
			return nil, fmt.Errorf("compiling shader '%s': %w", cfg.Name, err)
		}
		s.program = program
	}
	return s, nil
}
