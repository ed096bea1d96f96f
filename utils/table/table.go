/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package table

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerStyle = cellStyle.Bold(true)
)

// Columns returns the column names of data. Names listed in fieldOrder come
// first, in that order; the rest follow alphabetically.
func Columns(data []map[string]interface{}, fieldOrder []string) []string {
	columnSet := make(map[string]bool)
	for _, row := range data {
		for col := range row {
			columnSet[col] = true
		}
	}

	columns := make([]string, 0, len(columnSet))
	for _, field := range fieldOrder {
		if columnSet[field] {
			columns = append(columns, field)
			delete(columnSet, field)
		}
	}
	rest := make([]string, 0, len(columnSet))
	for col := range columnSet {
		rest = append(rest, col)
	}
	sort.Strings(rest)
	return append(columns, rest...)
}

// Render renders result rows as a bordered table.
// Missing cells are left blank and nil values print as NULL.
func Render(data []map[string]interface{}, fieldOrder []string) string {
	columns := Columns(data, fieldOrder)
	rows := make([][]string, 0, len(data))
	for _, row := range data {
		cells := make([]string, len(columns))
		for i, col := range columns {
			v, exists := row[col]
			switch {
			case !exists:
			case v == nil:
				cells[i] = "NULL"
			default:
				cells[i] = fmt.Sprintf("%v", v)
			}
		}
		rows = append(rows, cells)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// PrintTableFromSlice writes data as a table followed by a row count
func PrintTableFromSlice(w io.Writer, data []map[string]interface{}, fieldOrder []string) error {
	if len(data) == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n(%d rows)\n", Render(data, fieldOrder), len(data))
	return err
}
