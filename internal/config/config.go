// Package config loads daemon options from CLI flags, AUDIOHAL_* environment
// variables and a TOML file, and watches data files for changes.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/audiohal/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every env tag.
const EnvPrefix = "AUDIOHAL_"

var durationType = reflect.TypeOf(time.Duration(0))

// LoadConfig fills the tagged fields of opts, a pointer to a struct, from
// the TOML file named by its Config field and from the environment. The
// environment wins over the file, and flags changed on cmd win over both.
//
//	LogLevel string `toml:"logging.level" env:"LOGGING_LEVEL"`
//
// A value that does not fit its field is reported; every bad value is
// collected before returning.
func LoadConfig(opts any, cmd *cobra.Command) error {
	v := reflect.ValueOf(opts)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: want pointer to struct, got %T", opts)
	}
	v = v.Elem()

	file, err := readTOML(v.FieldByName("Config"))
	if err != nil {
		return err
	}
	changed := changedFlags(cmd)

	var errs []error
	t := v.Type()
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() || changed[fieldNameToFlag(sf.Name)] {
			continue
		}
		field := v.Field(i)

		if key := sf.Tag.Get("toml"); key != "" {
			if raw, ok := lookup(file, key); ok {
				if err := assign(field, raw); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", key, err))
				}
			}
		}
		if key := sf.Tag.Get("env"); key != "" {
			if raw, ok := os.LookupEnv(EnvPrefix + key); ok && raw != "" {
				if err := assign(field, raw); err != nil {
					errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// readTOML decodes the file named by the Config field. A missing file is
// not an error.
func readTOML(path reflect.Value) (map[string]any, error) {
	if !path.IsValid() || path.Kind() != reflect.String || path.String() == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path.String())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path.String(), err)
	}
	var file map[string]any
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}
	return file, nil
}

func changedFlags(cmd *cobra.Command) map[string]bool {
	changed := map[string]bool{}
	if cmd == nil {
		return changed
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = true
	})
	return changed
}

// fieldNameToFlag derives the flag name huma's CLI generates for a field:
// "LoggingLevel" -> "logging-level".
func fieldNameToFlag(fieldName string) string {
	var b strings.Builder
	for i, r := range fieldName {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// lookup resolves a dotted key ("metrics.asound_interval") in decoded TOML.
func lookup(data map[string]any, key string) (any, bool) {
	if data == nil {
		return nil, false
	}
	head, rest, nested := strings.Cut(key, ".")
	if !nested {
		v, ok := data[head]
		return v, ok
	}
	sub, ok := data[head].(map[string]any)
	if !ok {
		return nil, false
	}
	return lookup(sub, rest)
}

// assign stores raw in field. raw is either a decoded TOML value or an
// environment string; strings are parsed into the field's type. Durations
// accept Go syntax or, from TOML, an integer number of milliseconds.
// String slices take a TOML array or a comma separated string.
func assign(field reflect.Value, raw any) error {
	if !field.CanSet() {
		return nil
	}

	if s, ok := raw.(string); ok {
		return assignString(field, s)
	}

	if field.Type() == durationType {
		ms, ok := raw.(int64)
		if !ok {
			return fmt.Errorf("want duration, got %T", raw)
		}
		field.SetInt(int64(time.Duration(ms) * time.Millisecond))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		// card = 0 is as natural as card = "0".
		switch raw.(type) {
		case int64, float64, bool:
			field.SetString(fmt.Sprint(raw))
		default:
			return fmt.Errorf("want string, got %T", raw)
		}
	case reflect.Bool:
		b, ok := raw.(bool)
		if !ok {
			return fmt.Errorf("want bool, got %T", raw)
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, ok := raw.(int64)
		if !ok {
			return fmt.Errorf("want integer, got %T", raw)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		n, ok := raw.(int64)
		if !ok || n < 0 {
			return fmt.Errorf("want non-negative integer, got %v", raw)
		}
		field.SetUint(uint64(n))
	case reflect.Float64:
		switch x := raw.(type) {
		case float64:
			field.SetFloat(x)
		case int64:
			field.SetFloat(float64(x))
		default:
			return fmt.Errorf("want number, got %T", raw)
		}
	case reflect.Slice:
		items, ok := raw.([]any)
		if !ok || field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("want string array, got %T", raw)
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			s, ok := it.(string)
			if !ok {
				return fmt.Errorf("want string array element, got %T", it)
			}
			out = append(out, s)
		}
		field.Set(reflect.ValueOf(out))
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

func assignString(field reflect.Value, s string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported field type %s", field.Type())
		}
		parts := strings.Split(s, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

// LoadLoggingConfig reads the [logging] table of a TOML file. Module
// levels come from [logging.modules] or from any other string key of
// [logging], so both of these set the ucm module to debug:
//
//	[logging]
//	ucm = "debug"
//
//	[logging.modules]
//	ucm = "debug"
//
// A missing or unreadable file yields the defaults.
func LoadLoggingConfig(configPath string) logging.Config {
	cfg := logging.Config{
		Level:   "info",
		Format:  "text",
		Modules: make(map[string]string),
	}
	if configPath == "" {
		return cfg
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg
	}

	var doc struct {
		Logging struct {
			Level      string            `toml:"level"`
			Format     string            `toml:"format"`
			Identifier string            `toml:"identifier"`
			BufferSize int               `toml:"buffer_size"`
			Modules    map[string]string `toml:"modules"`
		} `toml:"logging"`
	}
	var loose struct {
		Logging map[string]any `toml:"logging"`
	}
	if toml.Unmarshal(data, &doc) != nil || toml.Unmarshal(data, &loose) != nil {
		return cfg
	}

	l := doc.Logging
	if l.Level != "" {
		cfg.Level = l.Level
	}
	if l.Format != "" {
		cfg.Format = l.Format
	}
	cfg.Identifier = l.Identifier
	cfg.BufferSize = l.BufferSize

	known := map[string]bool{"level": true, "format": true, "identifier": true, "buffer_size": true, "modules": true}
	for key, value := range loose.Logging {
		if s, ok := value.(string); ok && !known[key] {
			cfg.Modules[key] = s
		}
	}
	maps.Copy(cfg.Modules, l.Modules)
	return cfg
}
