// Package queryxml drives the protocol serializer generation pipeline: it
// attaches the implicit validation error contract to qualifying operations,
// then emits one deterministic serialization procedure per shape reachable
// from each operation output of the target service.
package queryxml

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/protoforge/queryxml/model"
)

// Config is the read-only configuration surface of one generation run.
type Config struct {
	// Service is the service being generated for.
	Service model.ShapeID `toml:"service"`
	// AddValidationError is the feature flag scoped to Service: when set,
	// operations whose input can fail constraint checking declare the
	// validation error contract.
	AddValidationError bool `toml:"add_validation_error"`
	// AllowList overrides the built-in set of externally-owned services that
	// receive the contract regardless of the flag.
	AllowList []model.ShapeID `toml:"allow_list"`
	// IgnoreDefaults elides boolean and number members equal to their
	// declared default from the wire payload.
	IgnoreDefaults bool `toml:"ignore_defaults"`
	// TypesImport is the import path of the generated value types package.
	TypesImport string `toml:"types_import"`
	// Package names the generated package. Defaults to "serializers".
	Package string `toml:"package"`
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// File is one generated source file.
type File struct {
	Name    string
	Content []byte
}

// Result carries the outputs of one generation run: the transformed model
// handed onward to downstream codegen, the generated sources, and the
// operations that turned out to have no body to serialize.
type Result struct {
	Model   *model.Model
	Files   []File
	Skipped []model.ShapeID
}
