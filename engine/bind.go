package engine

import (
	"reflect"
	"unicode"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/voidproc/siv-as-coro/errors"
)

// typeBinding maps a registered Go struct type to its Lua metatable.
type typeBinding struct {
	name   string
	goType reflect.Type
	fields map[string]fieldBinding
}

// fieldBinding addresses one exposed struct field.
type fieldBinding struct {
	index []int
}

// RegisterType exposes a plain-data struct to script code under the given
// type name. Script reads and writes go through a userdata wrapping a
// pointer to the host's value, mutating it in place.
//
// sample may be a struct value or a pointer to one. Exported scalar fields
// (bool, integers, floats, string) and nested struct fields are exposed;
// nested struct types must be registered first. Field names default to the
// Go name with the first rune lowercased, overridable with a `lua:"name"`
// struct tag; `lua:"-"` hides a field. Reference-typed fields are rejected:
// the script holds the state's raw address across suspensions, so every
// field must be value-copyable plain data.
//
// Must be called before any module is compiled.
func (e *LuaEngine) RegisterType(name string, sample any) error {
	if e.sealed {
		return errors.New(errors.PhaseRegister, errors.KindRegistration,
			"cannot register type %q after a module was compiled", name)
	}
	if name == "" {
		return errors.InvalidInput(errors.PhaseRegister, "type name cannot be empty")
	}

	rt := reflect.TypeOf(sample)
	if rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return errors.InvalidInput(errors.PhaseRegister, "sample must be a struct or pointer to struct")
	}
	if _, dup := e.types[rt]; dup {
		return errors.New(errors.PhaseRegister, errors.KindRegistration,
			"type %s already registered", rt)
	}

	tb := &typeBinding{
		name:   name,
		goType: rt,
		fields: make(map[string]fieldBinding),
	}
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		fname := luaFieldName(f)
		if fname == "" {
			continue
		}
		switch f.Type.Kind() {
		case reflect.Bool, reflect.String,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			// plain scalar
		case reflect.Struct:
			if _, ok := e.types[f.Type]; !ok {
				return errors.New(errors.PhaseRegister, errors.KindRegistration,
					"nested type %s of field %s.%s not registered", f.Type, rt, f.Name)
			}
		default:
			return errors.Unsupported(errors.PhaseRegister,
				"field "+rt.String()+"."+f.Name+" has non-POD kind "+f.Type.Kind().String())
		}
		tb.fields[fname] = fieldBinding{index: f.Index}
	}

	mt := e.ls.NewTypeMetatable(name)
	e.ls.SetField(mt, "__index", e.ls.NewFunction(e.typeIndex(tb)))
	e.ls.SetField(mt, "__newindex", e.ls.NewFunction(e.typeNewIndex(tb)))
	e.types[rt] = tb
	return nil
}

// wrapState wraps a pointer to a registered struct into a userdata carrying
// the type's metatable. Script-side field access dereferences the pointer,
// so the pointed-to value must stay at its address for as long as any
// context can still resume.
func (e *LuaEngine) wrapState(ptr any) (*lua.LUserData, error) {
	rt := reflect.TypeOf(ptr)
	if rt == nil || rt.Kind() != reflect.Pointer || rt.Elem().Kind() != reflect.Struct {
		return nil, errors.InvalidInput(errors.PhaseBind, "state must be a pointer to struct")
	}
	tb, ok := e.types[rt.Elem()]
	if !ok {
		return nil, errors.New(errors.PhaseBind, errors.KindRegistration,
			"state type %s not registered", rt.Elem())
	}
	ud := e.ls.NewUserData()
	ud.Value = ptr
	e.ls.SetMetatable(ud, e.ls.GetTypeMetatable(tb.name))
	return ud, nil
}

func (e *LuaEngine) typeIndex(tb *typeBinding) lua.LGFunction {
	return func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		key := L.CheckString(2)
		fv, ok := tb.field(ud, key)
		if !ok {
			L.RaiseError("no field %q in %s", key, tb.name)
			return 0
		}

		switch fv.Kind() {
		case reflect.Bool:
			L.Push(lua.LBool(fv.Bool()))
		case reflect.String:
			L.Push(lua.LString(fv.String()))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			L.Push(lua.LNumber(fv.Int()))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			L.Push(lua.LNumber(fv.Uint()))
		case reflect.Float32, reflect.Float64:
			L.Push(lua.LNumber(fv.Float()))
		case reflect.Struct:
			nested := e.types[fv.Type()]
			sub := L.NewUserData()
			sub.Value = fv.Addr().Interface()
			L.SetMetatable(sub, L.GetTypeMetatable(nested.name))
			L.Push(sub)
		}
		return 1
	}
}

func (e *LuaEngine) typeNewIndex(tb *typeBinding) lua.LGFunction {
	return func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		key := L.CheckString(2)
		val := L.Get(3)
		fv, ok := tb.field(ud, key)
		if !ok {
			L.RaiseError("no field %q in %s", key, tb.name)
			return 0
		}

		switch fv.Kind() {
		case reflect.Bool:
			b, ok := val.(lua.LBool)
			if !ok {
				L.RaiseError("field %s.%s expects a boolean", tb.name, key)
			}
			fv.SetBool(bool(b))
		case reflect.String:
			s, ok := val.(lua.LString)
			if !ok {
				L.RaiseError("field %s.%s expects a string", tb.name, key)
			}
			fv.SetString(string(s))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			fv.SetInt(int64(checkNumber(L, tb, key, val)))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			fv.SetUint(uint64(checkNumber(L, tb, key, val)))
		case reflect.Float32, reflect.Float64:
			fv.SetFloat(float64(checkNumber(L, tb, key, val)))
		case reflect.Struct:
			src, ok := val.(*lua.LUserData)
			if !ok {
				L.RaiseError("field %s.%s expects a %s", tb.name, key, e.types[fv.Type()].name)
			}
			sv := reflect.ValueOf(src.Value)
			if sv.Kind() != reflect.Pointer || sv.Elem().Type() != fv.Type() {
				L.RaiseError("field %s.%s expects a %s", tb.name, key, e.types[fv.Type()].name)
			}
			fv.Set(sv.Elem())
		}
		return 0
	}
}

// field resolves key to an addressable reflect.Value inside the struct the
// userdata points at.
func (tb *typeBinding) field(ud *lua.LUserData, key string) (reflect.Value, bool) {
	fb, ok := tb.fields[key]
	if !ok {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(ud.Value)
	if rv.Kind() != reflect.Pointer || rv.Elem().Type() != tb.goType {
		return reflect.Value{}, false
	}
	return rv.Elem().FieldByIndex(fb.index), true
}

func checkNumber(L *lua.LState, tb *typeBinding, key string, val lua.LValue) lua.LNumber {
	n, ok := val.(lua.LNumber)
	if !ok {
		L.RaiseError("field %s.%s expects a number", tb.name, key)
	}
	return n
}

func luaFieldName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("lua"); ok {
		if tag == "-" {
			return ""
		}
		return tag
	}
	r, size := utf8.DecodeRuneInString(f.Name)
	return string(unicode.ToLower(r)) + f.Name[size:]
}
