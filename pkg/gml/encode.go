package gml

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"
)

// Encode writes l with two-space indentation per level.
func Encode(w io.Writer, l List) error {
	bw := bufio.NewWriter(w)
	if err := encodeList(bw, l, 0); err != nil {
		return err
	}
	return bw.Flush()
}

func encodeList(w *bufio.Writer, l List, depth int) error {
	indent := strings.Repeat("  ", depth)
	for _, p := range l {
		switch v := p.Value.(type) {
		case List:
			if _, err := fmt.Fprintf(w, "%s%s [\n", indent, p.Key); err != nil {
				return err
			}
			if err := encodeList(w, v, depth+1); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "%s]\n", indent); err != nil {
				return err
			}
		default:
			text, err := scalar(v)
			if err != nil {
				return fmt.Errorf("key %s: %w", p.Key, err)
			}
			if _, err := fmt.Fprintf(w, "%s%s %s\n", indent, p.Key, text); err != nil {
				return err
			}
		}
	}
	return nil
}

func scalar(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return `"` + html.EscapeString(t) + `"`, nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case int:
		return strconv.Itoa(t), nil
	case float64:
		return formatFloat(t), nil
	case bool:
		if t {
			return "1", nil
		}
		return "0", nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// formatFloat keeps a decimal point so the value decodes as a float.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
