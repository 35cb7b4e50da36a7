package hostmod

import (
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
)

// ModuleName is the import module guests link the host functions from.
const ModuleName = "resonite"

// Param is a named, WIT-typed function parameter.
type Param struct {
	Type wit.Type
	Name string
}

// Signature describes one exported host function.
type Signature struct {
	Name    string
	Params  []Param
	Results []wit.Type
}

var (
	handleT = wit.U64{}
	ptrT    = wit.U32{}
	boolT   = wit.Bool{}
	s32T    = wit.S32{}
)

func p(name string, t wit.Type) Param { return Param{Name: name, Type: t} }

var signatures = []Signature{
	{Name: "slot__root_slot", Results: []wit.Type{handleT}},
	{Name: "slot__get_parent", Params: []Param{p("slot", handleT)}, Results: []wit.Type{handleT}},
	{Name: "slot__get_active_user", Params: []Param{p("slot", handleT)}, Results: []wit.Type{handleT}},
	{Name: "slot__get_active_user_root", Params: []Param{p("slot", handleT)}, Results: []wit.Type{handleT}},
	{Name: "slot__get_object_root", Params: []Param{p("slot", handleT), p("only_explicit", boolT)}, Results: []wit.Type{handleT}},
	{Name: "slot__get_name", Params: []Param{p("slot", handleT)}, Results: []wit.Type{ptrT}},
	{Name: "slot__set_name", Params: []Param{p("slot", handleT), p("name", ptrT)}, Results: []wit.Type{s32T}},
	{Name: "slot__get_num_children", Params: []Param{p("slot", handleT)}, Results: []wit.Type{s32T}},
	{Name: "slot__get_child", Params: []Param{p("slot", handleT), p("index", s32T)}, Results: []wit.Type{handleT}},
	{Name: "slot__find_child_by_name", Params: []Param{
		p("slot", handleT), p("name", ptrT), p("match_substring", boolT), p("ignore_case", boolT), p("max_depth", s32T),
	}, Results: []wit.Type{handleT}},
	{Name: "slot__find_child_by_tag", Params: []Param{p("slot", handleT), p("tag", ptrT), p("max_depth", s32T)}, Results: []wit.Type{handleT}},
	{Name: "slot__get_component", Params: []Param{p("slot", handleT), p("type_name", ptrT)}, Results: []wit.Type{handleT}},
	{Name: "slot__get_children", Params: []Param{p("slot", handleT), p("out_len", ptrT)}, Results: []wit.Type{ptrT}},
	{Name: "slot__get_components", Params: []Param{p("slot", handleT), p("out_len", ptrT)}, Results: []wit.Type{ptrT}},
	{Name: "component__get_type_name", Params: []Param{p("component", handleT)}, Results: []wit.Type{ptrT}},
	{Name: "component__get_field_value", Params: []Param{p("component", handleT), p("name", ptrT), p("out_len", ptrT)}, Results: []wit.Type{ptrT}},
	{Name: "component__set_field_value", Params: []Param{p("component", handleT), p("name", ptrT), p("envelope", ptrT)}, Results: []wit.Type{s32T}},
	{Name: "resonite__error_string", Params: []Param{p("code", s32T)}, Results: []wit.Type{ptrT}},
}

// Signatures returns the host function table in export order.
func Signatures() []Signature {
	out := make([]Signature, len(signatures))
	copy(out, signatures)
	return out
}

// ParamTypes returns the flattened core parameter types.
func (s Signature) ParamTypes() []api.ValueType {
	out := make([]api.ValueType, len(s.Params))
	for i, p := range s.Params {
		out[i] = coreType(p.Type)
	}
	return out
}

// ResultTypes returns the flattened core result types.
func (s Signature) ResultTypes() []api.ValueType {
	out := make([]api.ValueType, len(s.Results))
	for i, t := range s.Results {
		out[i] = coreType(t)
	}
	return out
}

// ParamNames returns the parameter names in order.
func (s Signature) ParamNames() []string {
	out := make([]string, len(s.Params))
	for i, p := range s.Params {
		out[i] = p.Name
	}
	return out
}

// String renders the signature in WIT syntax, e.g.
// "slot--get-child: func(slot: u64, index: s32) -> u64".
func (s Signature) String() string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s.Name, "__", "--"), "_", "-"))
	b.WriteString(": func(")
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strings.ReplaceAll(p.Name, "_", "-"))
		b.WriteString(": ")
		b.WriteString(witName(p.Type))
	}
	b.WriteByte(')')
	if len(s.Results) == 1 {
		b.WriteString(" -> ")
		b.WriteString(witName(s.Results[0]))
	}
	return b.String()
}

// coreType flattens a primitive WIT type to its core WASM value type.
func coreType(t wit.Type) api.ValueType {
	switch t.(type) {
	case wit.U64, wit.S64:
		return api.ValueTypeI64
	case wit.F32:
		return api.ValueTypeF32
	case wit.F64:
		return api.ValueTypeF64
	default:
		return api.ValueTypeI32
	}
}

func witName(t wit.Type) string {
	switch t.(type) {
	case wit.Bool:
		return "bool"
	case wit.S32:
		return "s32"
	case wit.U32:
		return "u32"
	case wit.S64:
		return "s64"
	case wit.U64:
		return "u64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	default:
		return "unknown"
	}
}
