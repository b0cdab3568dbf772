package ddl

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// CanonicalJSON serializes the schema to a canonical JSON document:
// object keys are emitted in a fixed order, strings are NFC normalized,
// and no HTML escaping is applied. The same schema always produces the
// same bytes across processes, which is what the fingerprint relies on.
//
// HashFn components serialize by Name only; the callable itself has no
// canonical form. Float constants are rejected - they have no canonical
// decimal rendering.
func (s *Schema) CanonicalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"fields":[`)
	for i, f := range s.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := canonicalString(f.Name)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, `{"name":%s,"optional":%t,"position":%d,"type":%q}`,
			name, f.Optional, f.Position, f.Type.String())
	}
	buf.WriteString(`],"local_key":`)
	if err := writeKeySpec(&buf, s.LocalKey); err != nil {
		return nil, err
	}
	buf.WriteString(`,"partition_key":`)
	if err := writeKeySpec(&buf, s.PartitionKey); err != nil {
		return nil, err
	}
	table, err := canonicalString(s.Table)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, `,"table":%s,"version":%d}`, table, s.Version)
	return buf.Bytes(), nil
}

// Fingerprint returns the hex SHA-256 of the canonical JSON document.
// The catalog stores it alongside each registered schema to detect a
// conflicting re-registration of the same (table, version).
func (s *Schema) Fingerprint() (string, error) {
	doc, err := s.CanonicalJSON()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(doc)
	return hex.EncodeToString(sum[:]), nil
}

func writeKeySpec(buf *bytes.Buffer, spec KeySpec) error {
	buf.WriteByte('[')
	for i, comp := range spec {
		if i > 0 {
			buf.WriteByte(',')
		}
		switch c := comp.(type) {
		case ParamRef:
			if err := writeParamRef(buf, c); err != nil {
				return err
			}
		case HashFn:
			buf.WriteString(`{"args":[`)
			for j, arg := range c.Args {
				if j > 0 {
					buf.WriteByte(',')
				}
				switch a := arg.(type) {
				case ParamRef:
					if err := writeParamRef(buf, a); err != nil {
						return err
					}
				case Constant:
					if err := writeConstant(buf, a.Value); err != nil {
						return err
					}
				default:
					return fmt.Errorf("ddl: unknown hash arg type %T", arg)
				}
			}
			name, err := canonicalString(c.Name)
			if err != nil {
				return err
			}
			fmt.Fprintf(buf, `],"fn":%s,"result_type":%q}`, name, c.ResultType.String())
		default:
			return fmt.Errorf("ddl: unknown key component type %T", comp)
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeParamRef(buf *bytes.Buffer, ref ParamRef) error {
	fmt.Fprintf(buf, `{"order":%q,"path":[`, ref.Order.String())
	for i, seg := range ref.Path {
		if i > 0 {
			buf.WriteByte(',')
		}
		s, err := canonicalString(seg)
		if err != nil {
			return err
		}
		buf.Write(s)
	}
	buf.WriteString(`]}`)
	return nil
}

func writeConstant(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case string:
		s, err := canonicalString(val)
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, `{"const":%s}`, s)
	case []byte:
		s, err := canonicalString(string(val))
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, `{"const":%s}`, s)
	case int:
		fmt.Fprintf(buf, `{"const":%d}`, val)
	case int64:
		fmt.Fprintf(buf, `{"const":%d}`, val)
	case bool:
		fmt.Fprintf(buf, `{"const":%t}`, val)
	case float32, float64:
		return fmt.Errorf("ddl: float constant %v has no canonical form", val)
	default:
		return fmt.Errorf("ddl: unsupported constant type %T", v)
	}
	return nil
}

// canonicalString encodes a JSON string with NFC normalization and HTML
// escaping disabled. Normalizing at the serialization boundary keeps
// visually identical field names from producing distinct fingerprints.
func canonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder appends a trailing newline.
	out := buf.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	return out, nil
}
