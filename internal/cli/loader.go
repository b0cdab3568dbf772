package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"github.com/go-playground/validator/v10"

	"github.com/etsangsplk/riak-ql/internal/ddl"
)

// LoaderOptions configures DDL loading.
type LoaderOptions struct {
	// HashFuncs resolves hash function names used in key specs to their
	// callables. A definition naming an unresolved function fails to
	// load.
	HashFuncs map[string]ddl.HashFunc
}

// LoadResult holds the schemas loaded from a DDL directory.
type LoadResult struct {
	Schemas   []*ddl.Schema
	FileCount int
}

// LoadError is a diagnostic produced while loading DDL definitions.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants, unified across all commands.
const (
	ErrCodeGeneric     = "E001" // generic/unknown error
	ErrCodeScanError   = "E002" // directory scan error
	ErrCodeNoFiles     = "E003" // no CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // file write error

	// Table definition errors
	ErrCodeInvalidTable   = "E101" // structurally invalid table definition
	ErrCodeInvalidType    = "E102" // unknown field type
	ErrCodeUnknownKeyRef  = "E103" // key spec references an unknown field
	ErrCodeUnknownHashFn  = "E104" // unresolved hash function name
	ErrCodeDuplicateField = "E105" // duplicate field name
)

// tableDoc mirrors the CUE shape of one table definition. CUE decodes
// through the json tags; the validate tags run afterwards.
type tableDoc struct {
	Version      int        `json:"version" validate:"required,min=1"`
	Fields       []fieldDoc `json:"fields" validate:"required,min=1,dive"`
	PartitionKey []keyDoc   `json:"partition_key" validate:"required,min=1,dive"`
	LocalKey     []keyDoc   `json:"local_key" validate:"required,min=1,dive"`
}

type fieldDoc struct {
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type" validate:"required"`
	Optional bool   `json:"optional"`
}

// keyDoc is one key spec component: a field reference or a hash
// function application.
type keyDoc struct {
	Param      string   `json:"param,omitempty"`
	Order      string   `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
	Fn         string   `json:"fn,omitempty"`
	Args       []argDoc `json:"args,omitempty"`
	ResultType string   `json:"result_type,omitempty"`
}

type argDoc struct {
	Param string `json:"param,omitempty"`
	Const any    `json:"const,omitempty"`
}

var docValidator = validator.New()

// LoadDefinitions loads every table definition from the CUE files in
// dir. Errors are collected per table so one bad definition does not
// hide the others.
func LoadDefinitions(dir string, opts LoaderOptions) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("DDL directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing DDL directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{FileCount: len(cueFiles)}
	var errs []error

	tables := value.LookupPath(cue.ParsePath("table"))
	if !tables.Exists() {
		return result, []error{&LoadError{Code: ErrCodeGeneric, Message: "no table definitions found"}}
	}
	iter, iterErr := tables.Fields()
	if iterErr != nil {
		return result, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating tables: %v", iterErr)}}
	}
	for iter.Next() {
		name := iter.Label()
		schema, tableErrs := decodeTable(name, iter.Value(), opts)
		if len(tableErrs) > 0 {
			errs = append(errs, tableErrs...)
			continue
		}
		result.Schemas = append(result.Schemas, schema)
	}

	if len(result.Schemas) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no table definitions found"})
	}
	return result, errs
}

// decodeTable converts one CUE table definition into a schema. It
// performs the structural checks that ddl.Compile treats as defects, so
// a bad definition surfaces as a diagnostic instead of a panic.
func decodeTable(name string, v cue.Value, opts LoaderOptions) (*ddl.Schema, []error) {
	var doc tableDoc
	if err := v.Decode(&doc); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeInvalidTable, Message: fmt.Sprintf("table %q: %v", name, err)}}
	}
	if err := docValidator.Struct(doc); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeInvalidTable, Message: fmt.Sprintf("table %q: %v", name, err)}}
	}

	var errs []error
	schema := &ddl.Schema{Table: name, Version: doc.Version}

	seen := make(map[string]bool, len(doc.Fields))
	for i, f := range doc.Fields {
		ft, err := ddl.ParseFieldType(f.Type)
		if err != nil {
			errs = append(errs, &LoadError{Code: ErrCodeInvalidType, Message: fmt.Sprintf("table %q field %q: %v", name, f.Name, err)})
			continue
		}
		if seen[f.Name] {
			errs = append(errs, &LoadError{Code: ErrCodeDuplicateField, Message: fmt.Sprintf("table %q: duplicate field %q", name, f.Name)})
			continue
		}
		seen[f.Name] = true
		schema.Fields = append(schema.Fields, ddl.Field{
			Name:     f.Name,
			Position: i + 1,
			Type:     ft,
			Optional: f.Optional,
		})
	}

	partition, keyErrs := decodeKeySpec(name, "partition_key", doc.PartitionKey, seen, opts)
	errs = append(errs, keyErrs...)
	local, keyErrs := decodeKeySpec(name, "local_key", doc.LocalKey, seen, opts)
	errs = append(errs, keyErrs...)
	if len(errs) > 0 {
		return nil, errs
	}

	schema.PartitionKey = partition
	schema.LocalKey = local
	return schema, nil
}

func decodeKeySpec(table, which string, docs []keyDoc, fields map[string]bool, opts LoaderOptions) (ddl.KeySpec, []error) {
	var errs []error
	spec := make(ddl.KeySpec, 0, len(docs))
	for i, kd := range docs {
		switch {
		case kd.Param != "" && kd.Fn == "":
			ref, err := decodeParamRef(table, which, kd.Param, kd.Order, fields)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			spec = append(spec, ref)
		case kd.Fn != "" && kd.Param == "":
			fn, fnErrs := decodeHashFn(table, which, kd, fields, opts)
			if len(fnErrs) > 0 {
				errs = append(errs, fnErrs...)
				continue
			}
			spec = append(spec, fn)
		default:
			errs = append(errs, &LoadError{
				Code:    ErrCodeInvalidTable,
				Message: fmt.Sprintf("table %q %s[%d]: exactly one of param and fn is required", table, which, i),
			})
		}
	}
	return spec, errs
}

func decodeParamRef(table, which, param, order string, fields map[string]bool) (ddl.ParamRef, error) {
	if !fields[param] {
		return ddl.ParamRef{}, &LoadError{
			Code:    ErrCodeUnknownKeyRef,
			Message: fmt.Sprintf("table %q %s: unknown field %q", table, which, param),
		}
	}
	ref := ddl.Param(param)
	if order == "desc" {
		ref.Order = ddl.Descending
	}
	return ref, nil
}

func decodeHashFn(table, which string, kd keyDoc, fields map[string]bool, opts LoaderOptions) (ddl.HashFn, []error) {
	var errs []error

	fn, ok := opts.HashFuncs[kd.Fn]
	if !ok {
		errs = append(errs, &LoadError{
			Code:    ErrCodeUnknownHashFn,
			Message: fmt.Sprintf("table %q %s: unresolved hash function %q", table, which, kd.Fn),
		})
	}
	resultType, err := ddl.ParseFieldType(kd.ResultType)
	if err != nil {
		errs = append(errs, &LoadError{
			Code:    ErrCodeInvalidType,
			Message: fmt.Sprintf("table %q %s: hash function %q result type: %v", table, which, kd.Fn, err),
		})
	}

	args := make([]ddl.HashArg, 0, len(kd.Args))
	for i, arg := range kd.Args {
		switch {
		case arg.Param != "" && arg.Const == nil:
			ref, refErr := decodeParamRef(table, which, arg.Param, "", fields)
			if refErr != nil {
				errs = append(errs, refErr)
				continue
			}
			args = append(args, ref)
		case arg.Const != nil && arg.Param == "":
			args = append(args, ddl.Constant{Value: normalizeConst(arg.Const)})
		default:
			errs = append(errs, &LoadError{
				Code:    ErrCodeInvalidTable,
				Message: fmt.Sprintf("table %q %s: hash function %q args[%d]: exactly one of param and const is required", table, which, kd.Fn, i),
			})
		}
	}

	if len(errs) > 0 {
		return ddl.HashFn{}, errs
	}
	return ddl.HashFn{Name: kd.Fn, Fn: fn, Args: args, ResultType: resultType}, nil
}

// normalizeConst settles the numeric types CUE decoding may produce.
// Integral values always become int64.
func normalizeConst(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case float64:
		if n == float64(int64(n)) {
			return int64(n)
		}
		return n
	default:
		return v
	}
}

func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
