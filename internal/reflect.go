// Package internal holds reflection helpers shared by the store and its schema registry.
package internal

import (
	"reflect"
	"strings"
)

// StructFields returns the exported fields of a struct type, flattening embedded
// structs so that fields promoted from inkwell.Model and shared bodies such as
// models.Article appear at the top level, matching their inline BSON layout.
func StructFields(t reflect.Type) []reflect.StructField {
	t = Deref(t)
	if t.Kind() != reflect.Struct {
		return nil
	}

	var fields []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && Deref(f.Type).Kind() == reflect.Struct {
			fields = append(fields, StructFields(f.Type)...)
			continue
		}
		if !f.IsExported() {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// Deref strips pointer indirections from t.
func Deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// ElemType returns the struct type behind a model argument: T, *T, []T, *[]T
// and *[]*T all resolve to T.
func ElemType(t reflect.Type) reflect.Type {
	t = Deref(t)
	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = Deref(t.Elem())
	}
	return t
}

// Indirect returns the value a model argument points to.
func Indirect(x interface{}) reflect.Value {
	v := reflect.ValueOf(x)
	for v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

// TypeName renders a field type the way `inkwell inspect` prints it:
// package-qualified by its last path element, e.g. *time.Time or []bson.ObjectID.
func TypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + TypeName(t.Elem())
	case reflect.Slice:
		return "[]" + TypeName(t.Elem())
	case reflect.Map:
		return "map[" + TypeName(t.Key()) + "]" + TypeName(t.Elem())
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	pkg := t.PkgPath()
	if i := strings.LastIndex(pkg, "/"); i >= 0 {
		pkg = pkg[i+1:]
	}
	return pkg + "." + t.Name()
}
