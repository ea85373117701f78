package callgen

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/spf13/viper"

	callerrors "github.com/broady/callgen/errors"
	"github.com/broady/callgen/ir"
)

// Output formats.
const (
	FormatGo   = "go"
	FormatJSON = "json"
)

// typeMappingPrefix marks override keys that add a type mapping.
const typeMappingPrefix = "type_mappings."

var (
	validate      = newValidator()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(false)
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return ir.IsIdentifier(fl.Field().String())
	})
	return v
}

// Config holds the configuration for a generation run.
type Config struct {
	// Schema is the path of the metadata blob.
	Schema string `mapstructure:"schema" schema:"schema"`

	// Module is the target namespace of the generated tree.
	Module string `mapstructure:"module" schema:"module" validate:"required,identifier"`

	// OutDir is the directory generated files are written to.
	OutDir string `mapstructure:"out_dir" schema:"out_dir"`

	// Format selects the output: "go" (default) or "json".
	Format string `mapstructure:"format" schema:"format" validate:"omitempty,oneof=go json"`

	// FileName is the generated file name, relative to OutDir.
	// Default: "calls.go" or "calls.json" depending on Format.
	FileName string `mapstructure:"file_name" schema:"file_name"`

	// Package overrides the Go package clause. Default: lowercased Module.
	Package string `mapstructure:"package" schema:"package" validate:"omitempty,identifier"`

	// FallbackType names fields whose type has no identifier. Default: "u8".
	FallbackType string `mapstructure:"fallback_type" schema:"fallback_type" validate:"omitempty,identifier"`

	// OmitEmptyPallets drops pallets without calls.
	OmitEmptyPallets bool `mapstructure:"omit_empty_pallets" schema:"omit_empty_pallets"`

	// EmitComments adds doc comments to generated Go code.
	EmitComments bool `mapstructure:"emit_comments" schema:"emit_comments"`

	// TypeMappings maps schema type names to Go type expressions. Later
	// entries win.
	TypeMappings []TypeMapping `mapstructure:"type_mappings" schema:"-" validate:"dive"`

	// Imports are added to generated Go code for mapped types.
	Imports []string `mapstructure:"imports" schema:"imports" validate:"dive,required"`
}

// TypeMapping maps one schema type name to a Go type expression.
// Mappings are a list rather than a map because config keys are
// case-insensitive while type names are not.
type TypeMapping struct {
	From string `mapstructure:"from" validate:"required,identifier"`
	To   string `mapstructure:"to" validate:"required"`
}

// typeMap flattens TypeMappings into a lookup table.
func (c *Config) typeMap() map[string]string {
	if len(c.TypeMappings) == 0 {
		return nil
	}
	m := make(map[string]string, len(c.TypeMappings))
	for _, tm := range c.TypeMappings {
		m[tm.From] = tm.To
	}
	return m
}

// LoadConfig reads configuration from path, or from callgen.yaml in the
// working directory when path is empty. CALLGEN_* environment variables
// override file values. A missing callgen.yaml is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("schema", "")
	v.SetDefault("module", "")
	v.SetDefault("out_dir", "")
	v.SetDefault("format", FormatGo)
	v.SetDefault("file_name", "")
	v.SetDefault("package", "")
	v.SetDefault("fallback_type", "")
	v.SetDefault("omit_empty_pallets", false)
	v.SetDefault("emit_comments", true)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("callgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CALLGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, callerrors.Wrap(callerrors.PhaseConfig, callerrors.KindInvalidInput, err, "reading config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, callerrors.Wrap(callerrors.PhaseConfig, callerrors.KindInvalidInput, err, "decoding config")
	}
	return &cfg, nil
}

// ApplyOverrides sets fields from key=value pairs as given to --set. Keys
// are the config file keys; "type_mappings.<Name>" adds a type mapping and
// repeated "imports" keys append imports.
func (c *Config) ApplyOverrides(values url.Values) error {
	plain := url.Values{}
	for key, vals := range values {
		if name, ok := strings.CutPrefix(key, typeMappingPrefix); ok {
			c.TypeMappings = append(c.TypeMappings, TypeMapping{From: name, To: vals[len(vals)-1]})
			continue
		}
		plain[key] = vals
	}
	if imports, ok := plain["imports"]; ok {
		plain["imports"] = append(append([]string(nil), c.Imports...), imports...)
	}
	if len(plain) == 0 {
		return nil
	}
	if err := schemaDecoder.Decode(c, plain); err != nil {
		return callerrors.Wrap(callerrors.PhaseConfig, callerrors.KindInvalidInput, err, "applying overrides")
	}
	return nil
}

// ParseOverrides turns "key=value" arguments into url.Values.
func ParseOverrides(args []string) (url.Values, error) {
	values := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, callerrors.InvalidInput(callerrors.PhaseConfig, fmt.Sprintf("override %q is not key=value", arg))
		}
		values.Add(key, value)
	}
	return values, nil
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	err := validate.Struct(applyConfigDefaults(c))
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return callerrors.Wrap(callerrors.PhaseConfig, callerrors.KindInvalidInput, err, "validating config")
	}
	msgs := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		msgs = append(msgs, ve.Namespace()+": "+formatValidationError(ve))
	}
	return callerrors.New(callerrors.PhaseConfig, callerrors.KindInvalidInput).
		Cause(err).
		Detail("%s", strings.Join(msgs, "; ")).
		Build()
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "identifier":
		return fmt.Sprintf("%q is not an identifier", ve.Value())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

// applyConfigDefaults applies default values to Config.
func applyConfigDefaults(cfg *Config) *Config {
	// Make a copy to avoid mutating the input
	result := *cfg

	if result.Format == "" {
		result.Format = FormatGo
	}
	if result.FileName == "" {
		result.FileName = "calls." + result.Format
	}
	if result.FallbackType == "" {
		result.FallbackType = "u8"
	}
	return &result
}
