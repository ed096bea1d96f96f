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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestColumns 测试列顺序
func TestColumns(t *testing.T) {
	data := []map[string]interface{}{
		{"peak": int64(3), "host": "a"},
		{"host": "b", "zone": "eu"},
	}
	assert.Equal(t, []string{"host", "peak", "zone"}, Columns(data, nil))
	// 字段顺序包含不存在的字段
	assert.Equal(t, []string{"zone", "host", "peak"}, Columns(data, []string{"nonexistent", "zone", "host"}))
	assert.Empty(t, Columns(nil, []string{"a"}))
}

// TestRender 测试表格渲染
func TestRender(t *testing.T) {
	data := []map[string]interface{}{
		{"host": "web-1", "peak": int64(3)},
		{"host": "web-2", "peak": nil},
		{"peak": int64(1)},
	}
	out := Render(data, []string{"host", "peak"})
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 4)

	header := lines[1]
	assert.Less(t, strings.Index(header, "host"), strings.Index(header, "peak"))
	assert.Contains(t, out, "web-1")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "3")
}

// TestPrintTableFromSlice 测试表格输出
func TestPrintTableFromSlice(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintTableFromSlice(&buf, nil, nil))
	assert.Equal(t, "(0 rows)\n", buf.String())

	buf.Reset()
	data := []map[string]interface{}{
		{"name": "Alice", "age": 30},
		{"name": "Bob", "city": "NYC"}, // 缺少age字段
	}
	require.NoError(t, PrintTableFromSlice(&buf, data, nil))
	assert.True(t, strings.HasSuffix(buf.String(), "(2 rows)\n"))
	assert.Contains(t, buf.String(), "Alice")
	assert.Contains(t, buf.String(), "NYC")
}
