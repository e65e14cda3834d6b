package dwh

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DroppedColumns are crawler bookkeeping fields removed from the restaurant table.
var DroppedColumns = []string{"_id", "task_id", "url", "phone", "image_url"}

const menuItemsField = "menu_items"

// Document is one decoded restaurant document.
type Document map[string]any

// Table is a flattened table with columns in first-seen order.
type Table struct {
	Columns []string
	Rows    []map[string]string

	seen map[string]struct{}
}

func newTable(leading ...string) *Table {
	t := &Table{seen: make(map[string]struct{})}
	for _, col := range leading {
		t.addColumn(col)
	}
	return t
}

func (t *Table) addColumn(col string) {
	if _, ok := t.seen[col]; ok {
		return
	}
	t.seen[col] = struct{}{}
	t.Columns = append(t.Columns, col)
}

func (t *Table) append(row map[string]string, order []string) {
	for _, col := range order {
		t.addColumn(col)
	}
	t.Rows = append(t.Rows, row)
}

// BuildTables sorts documents by _id, assigns surrogate ids, and explodes
// menu_items into the menu table.
func BuildTables(docs []Document) (restaurants, menus *Table) {
	restaurants = newTable("id")
	menus = newTable("restaurant_id")

	ordered := make([]Document, len(docs))
	copy(ordered, docs)
	sort.SliceStable(ordered, func(i, j int) bool {
		ki, iok := documentKey(ordered[i])
		kj, jok := documentKey(ordered[j])
		if iok != jok {
			return iok
		}
		return ki < kj
	})

	drop := make(map[string]struct{}, len(DroppedColumns)+1)
	for _, col := range DroppedColumns {
		drop[col] = struct{}{}
	}
	drop[menuItemsField] = struct{}{}

	ids := make(map[string]int)
	next := 0
	for i, doc := range ordered {
		key, ok := documentKey(doc)
		if !ok {
			key = fmt.Sprintf("\x00row-%d", i)
		}
		id, seen := ids[key]
		if !seen {
			next++
			id = next
			ids[key] = id
		}
		idText := strconv.Itoa(id)

		row := map[string]string{"id": idText}
		var order []string
		flatten("", map[string]any(doc), func(col string, value any) {
			if _, skip := drop[rootField(col)]; skip {
				return
			}
			row[col] = formatValue(value)
			order = append(order, col)
		})
		restaurants.append(row, order)

		items, _ := doc[menuItemsField].([]any)
		for _, raw := range items {
			item, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			menuRow := map[string]string{"restaurant_id": idText}
			var menuOrder []string
			flatten("", item, func(col string, value any) {
				menuRow[col] = formatValue(value)
				menuOrder = append(menuOrder, col)
			})
			menus.append(menuRow, menuOrder)
		}
	}
	return restaurants, menus
}

// documentKey returns the sortable _id of a document. Extended JSON object
// ids ({"$oid": "..."}) are unwrapped.
func documentKey(doc Document) (string, bool) {
	raw, ok := doc["_id"]
	if !ok || raw == nil {
		return "", false
	}
	if m, isMap := raw.(map[string]any); isMap {
		if oid, ok := m["$oid"].(string); ok {
			return oid, true
		}
	}
	return formatValue(raw), true
}

// flatten walks nested objects depth-first in sorted key order and emits
// dotted column names. Arrays are leaves.
func flatten(prefix string, obj map[string]any, emit func(string, any)) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		col := k
		if prefix != "" {
			col = prefix + "." + k
		}
		if nested, ok := obj[k].(map[string]any); ok && len(nested) > 0 {
			flatten(col, nested, emit)
			continue
		}
		emit(col, obj[k])
	}
}

func rootField(col string) string {
	if i := strings.IndexByte(col, '.'); i >= 0 {
		return col[:i]
	}
	return col
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}
