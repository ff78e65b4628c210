package inkwell

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/dwoolworth/inkwell/internal"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]*Schema{}
)

// Register parses a model struct and registers its schema under the struct name.
// The model should be a pointer to a struct that embeds inkwell.Model.
// The collection parameter is the MongoDB collection name.
func Register(model interface{}, collection string) error {
	t := internal.Deref(reflect.TypeOf(model))
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("inkwell: Register expects a struct, got %s", t.Kind())
	}

	schema := &Schema{
		ModelName:  t.Name(),
		Collection: collection,
	}

	for _, f := range internal.StructFields(t) {
		bsonName, _ := ParseBSONTag(f.Tag.Get("bson"))
		if bsonName == "" {
			bsonName = strings.ToLower(f.Name)
		}
		if bsonName == "-" {
			continue
		}

		fs := ParseStoreTag(f.Tag.Get("store"))
		fs.Name = f.Name
		fs.BSONName = bsonName
		fs.Type = internal.TypeName(f.Type)

		schema.Fields = append(schema.Fields, fs)
	}

	if indexable, ok := model.(Indexable); ok {
		schema.CompoundIndexes = indexable.Indexes()
	}

	schema.Hooks = detectHooks(model)

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[schema.ModelName]; exists {
		return fmt.Errorf("inkwell: model %q is already registered", schema.ModelName)
	}
	registry[schema.ModelName] = schema

	return nil
}

// MustRegister is Register for package init blocks; it panics on error.
func MustRegister(model interface{}, collection string) {
	if err := Register(model, collection); err != nil {
		panic(err)
	}
}

// GetAll returns all registered schemas.
func GetAll() map[string]*Schema {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make(map[string]*Schema, len(registry))
	for k, v := range registry {
		result[k] = v
	}
	return result
}

// Sorted returns all registered schemas ordered by collection name.
func Sorted() []*Schema {
	all := GetAll()
	out := make([]*Schema, 0, len(all))
	for _, s := range all {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Collection < out[j].Collection })
	return out
}

// Get returns the schema for a given model name, or false if not found.
func Get(name string) (*Schema, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[name]
	return s, ok
}

func detectHooks(model interface{}) []string {
	var hooks []string
	if _, ok := model.(BeforeCreate); ok {
		hooks = append(hooks, "BeforeCreate")
	}
	return hooks
}
