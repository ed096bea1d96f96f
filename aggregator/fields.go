package aggregator

import (
	"reflect"
	"strings"
)

// isNestedField reports whether name is a dotted path such as "span.start"
func isNestedField(name string) bool {
	return strings.Contains(name, ".")
}

// getField reads a top-level or dotted field from a map or struct row.
// The second result is false when any path segment is missing.
func getField(data interface{}, path string) (interface{}, bool) {
	if !isNestedField(path) {
		return getFieldValue(data, path)
	}
	current := data
	for _, part := range strings.Split(path, ".") {
		v, ok := getFieldValue(current, part)
		if !ok {
			return nil, false
		}
		current = v
	}
	return current, true
}

func getFieldValue(data interface{}, name string) (interface{}, bool) {
	if m, ok := data.(map[string]interface{}); ok {
		v, found := m[name]
		if !found || v == nil {
			return nil, found
		}
		return interfaceOf(reflect.ValueOf(v)), true
	}

	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		f := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if !f.IsValid() {
			return nil, false
		}
		return interfaceOf(f), true
	case reflect.Struct:
		f := v.FieldByName(name)
		if !f.IsValid() || !f.CanInterface() {
			return nil, false
		}
		return interfaceOf(f), true
	}
	return nil, false
}

// interfaceOf unwraps v, turning nil pointers and interfaces into a plain nil
// so that optional struct fields read as SQL NULL.
func interfaceOf(v reflect.Value) interface{} {
	if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil() {
		return nil
	}
	return v.Interface()
}

// checkRow validates that data can be read by getField
func checkRow(data interface{}) error {
	if data == nil {
		return ErrNilData
	}
	if _, ok := data.(map[string]interface{}); ok {
		return nil
	}
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ErrNilData
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct && v.Kind() != reflect.Map {
		return ErrUnsupportedData
	}
	return nil
}
