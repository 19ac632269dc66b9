package tree

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"
)

var (
	styleLicense    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	stylePackage    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	styleMetadata   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleEnumerator = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginRight(1)
)

// Render draws the tree below root for a terminal.
func Render(root *Node) string {
	t := ltree.New().
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(styleEnumerator)
	for _, group := range root.Children {
		t.Child(renderNode(group, 0))
	}
	return t.String()
}

func renderNode(n *Node, depth int) any {
	label := fmt.Sprint(n.Value)
	switch depth {
	case 0:
		label = styleLicense.Render(label)
	case 1:
		label = stylePackage.Render(label)
	default:
		label = styleMetadata.Render(label)
	}
	if len(n.Children) == 0 {
		return label
	}
	sub := ltree.Root(label).
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(styleEnumerator)
	for _, c := range n.Children {
		sub.Child(renderNode(c, depth+1))
	}
	return sub
}

// WriteJSON writes one line per license node:
//
//	{"value":"MIT","children":{"a@npm:1.0.0":{"value":{"locator":...,"descriptor":...},"children":{"url":"..."}}}}
//
// Leaves are written as their bare value.
func WriteJSON(w io.Writer, root *Node) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, group := range root.Children {
		if err := enc.Encode(jsonValue(group)); err != nil {
			return fmt.Errorf("encode %s: %w", group.Key, err)
		}
	}
	return bw.Flush()
}

// orderedMap is a JSON object that keeps insertion order.
type orderedMap struct {
	keys   []string
	values []any
}

func (m orderedMap) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range m.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := marshal(m.values[i])
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	return append(buf, '}'), nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func jsonValue(n *Node) any {
	if n.Children == nil {
		return n.Value
	}
	children := orderedMap{}
	for _, c := range n.Children {
		children.keys = append(children.keys, c.Key)
		children.values = append(children.values, jsonValue(c))
	}
	return struct {
		Value    any        `json:"value"`
		Children orderedMap `json:"children"`
	}{n.Value, children}
}
