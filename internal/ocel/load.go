package ocel

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/ocdg/internal/ocdg"
)

//go:embed schema.cue
var schemaCUE string

// Format is a log file encoding.
type Format int

const (
	FormatYAML Format = iota + 1
	FormatJSON
	FormatCUE
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatCUE:
		return "cue"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".cue":
		return FormatCUE, nil
	}
	return 0, &LoadError{Code: ErrCodeUnsupportedFormat, Message: fmt.Sprintf("unsupported log format: %s", path)}
}

// document is the decoded shape of #Log.
type document struct {
	Objects []struct {
		ID   uint64 `json:"id"`
		Type string `json:"type"`
	} `json:"objects"`
	Events []struct {
		ID       uint64   `json:"id"`
		Activity string   `json:"activity"`
		Objects  []uint64 `json:"objects"`
	} `json:"events"`
}

// Load reads a log file, choosing the format by extension.
func Load(path string) (*Log, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("log file not found: %s", path)}
	}
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return Parse(data, format, filepath.Base(path))
}

// Parse decodes and validates a log document. name is used in error positions.
func Parse(data []byte, format Format, name string) (*Log, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile log schema: %w", err)
	}

	var value cue.Value
	switch format {
	case FormatYAML:
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parse YAML: %v", err)}
		}
		if raw == nil {
			raw = map[string]any{}
		}
		value = ctx.Encode(raw)
	case FormatJSON, FormatCUE:
		// JSON is a subset of CUE.
		value = ctx.CompileBytes(data, cue.Filename(name))
	default:
		return nil, &LoadError{Code: ErrCodeUnsupportedFormat, Message: fmt.Sprintf("unsupported log format: %v", format)}
	}
	if err := value.Err(); err != nil {
		return nil, fromCUEError(ErrCodeParseFailed, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Log")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fromCUEError(ErrCodeSchema, err)
	}

	var doc document
	if err := unified.Decode(&doc); err != nil {
		return nil, fromCUEError(ErrCodeSchema, err)
	}
	return fromDocument(doc)
}

func fromDocument(doc document) (*Log, error) {
	log := NewLog()
	for _, o := range doc.Objects {
		if err := log.AddObject(ocdg.ObjectID(o.ID), o.Type); err != nil {
			return nil, err
		}
	}
	for _, e := range doc.Events {
		objs := make([]ocdg.ObjectID, len(e.Objects))
		for i, oid := range e.Objects {
			objs[i] = ocdg.ObjectID(oid)
		}
		ev := Event{ID: ocdg.EventID(e.ID), Activity: e.Activity, Objects: objs}
		if err := log.AddEvent(ev); err != nil {
			return nil, err
		}
	}
	return log, nil
}
