package ron

import (
	"bytes"
	"strings"
)

const indentUnit = "    "

// Format serializes the value in the pretty style asusd writes its config files in:
// one field or element per line, 4 space indentation, trailing commas. Tuples stay on one line.
func (v *Value) Format() []byte {
	var buf bytes.Buffer
	writeValue(&buf, v, 0)
	return buf.Bytes()
}

// Patch parses data, applies mutate to the root value and returns the formatted result.
// A trailing newline of the input is preserved.
func Patch(data []byte, mutate func(root *Value) error) ([]byte, error) {
	root, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err = mutate(root); err != nil {
		return nil, err
	}
	result := root.Format()
	if bytes.HasSuffix(data, []byte("\n")) {
		result = append(result, '\n')
	}
	return result, nil
}

func writeValue(buf *bytes.Buffer, v *Value, depth int) {
	if v == nil {
		buf.WriteString("()")
		return
	}
	switch v.Kind {
	case KindStruct:
		buf.WriteString(v.Name)
		if len(v.Fields) <= 0 {
			buf.WriteString("()")
			return
		}
		buf.WriteString("(\n")
		for _, field := range v.Fields {
			writeIndent(buf, depth+1)
			buf.WriteString(field.Name)
			buf.WriteString(": ")
			writeValue(buf, field.Value, depth+1)
			buf.WriteString(",\n")
		}
		writeIndent(buf, depth)
		buf.WriteString(")")
	case KindTuple:
		buf.WriteString(v.Name)
		buf.WriteString("(")
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteString(", ")
			}
			writeValue(buf, item, depth)
		}
		buf.WriteString(")")
	case KindMap:
		if len(v.Entries) <= 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteString("{\n")
		for _, entry := range v.Entries {
			writeIndent(buf, depth+1)
			writeValue(buf, entry.Key, depth+1)
			buf.WriteString(": ")
			writeValue(buf, entry.Value, depth+1)
			buf.WriteString(",\n")
		}
		writeIndent(buf, depth)
		buf.WriteString("}")
	case KindList:
		if len(v.Items) <= 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteString("[\n")
		for _, item := range v.Items {
			writeIndent(buf, depth+1)
			writeValue(buf, item, depth+1)
			buf.WriteString(",\n")
		}
		writeIndent(buf, depth)
		buf.WriteString("]")
	default:
		buf.WriteString(v.Raw)
	}
}

func writeIndent(buf *bytes.Buffer, depth int) {
	buf.WriteString(strings.Repeat(indentUnit, depth))
}
