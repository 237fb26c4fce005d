// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package kmp

import (
	"strconv"
	"strings"
)

// genericParams is the base register map, derived from the Multical 402.
// Ordered: Names() and all-parameter polls follow this sequence.
var genericParams = []struct {
	name string
	addr uint16
}{
	{"energy", 0x3C},
	{"power", 0x50},
	{"temp1", 0x56},
	{"temp2", 0x57},
	{"tempdiff", 0x59},
	{"flow", 0x4A},
	{"volume", 0x44},
	{"minflow_m", 0x8D},
	{"maxflow_m", 0x8B},
	{"minflowDate_m", 0x8C},
	{"maxflowDate_m", 0x8A},
	{"minpower_m", 0x91},
	{"maxpower_m", 0x8F},
	{"avgtemp1_m", 0x95},
	{"avgtemp2_m", 0x96},
	{"minpowerdate_m", 0x90},
	{"maxpowerdate_m", 0x8E},
	{"minflow_y", 0x7E},
	{"maxflow_y", 0x7C},
	{"minflowdate_y", 0x7D},
	{"maxflowdate_y", 0x7B},
	{"minpower_y", 0x82},
	{"maxpower_y", 0x80},
	{"avgtemp1_y", 0x92},
	{"avgtemp2_y", 0x93},
	{"minpowerdate_y", 0x81},
	{"maxpowerdate_y", 0x7F},
	{"temp1xm3", 0x61},
	{"temp2xm3", 0x6E},
	{"infoevent", 0x71},
	{"hourcounter", 0x3EC},
}

// modelOverrides holds per-model register deltas on top of the generic
// table. Supporting a new meter model means listing only the registers
// that moved.
var modelOverrides = map[string]map[string]uint16{
	"402": {}, // Multical 402 is the generic mapping
	"403": {}, // compatible by default; add overrides when needed
	"603": {}, // compatible by default; add overrides when needed
}

// ParamSpec identifies a meter parameter either by symbolic name or by
// raw register address. Resolution against a Registry happens once, at
// the transaction boundary.
type ParamSpec struct {
	name   string
	addr   uint16
	isAddr bool
}

// Name returns a ParamSpec for a symbolic parameter name.
func Name(name string) ParamSpec {
	return ParamSpec{name: name}
}

// Address returns a ParamSpec for a raw register address.
func Address(addr uint16) ParamSpec {
	return ParamSpec{addr: addr, isAddr: true}
}

// ParseSpec interprets a string as a ParamSpec. All-digit and
// 0x-prefixed strings are register addresses; anything else is a name.
func ParseSpec(s string) ParamSpec {
	s = strings.TrimSpace(s)
	if isNumeric(s) {
		if v, err := strconv.ParseUint(s, 0, 16); err == nil {
			return Address(uint16(v))
		}
	}
	return Name(s)
}

func (p ParamSpec) String() string {
	if p.isAddr {
		return "0x" + strconv.FormatUint(uint64(p.addr), 16)
	}
	return p.name
}

func isNumeric(s string) bool {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return len(s) > 2
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Registry maps symbolic parameter names to register addresses for one
// meter model. The generic table and the model's overrides are merged
// once at construction; lookups never recompute the merge.
type Registry struct {
	model  string
	names  []string
	byName map[string]uint16
	byAddr map[uint16]string
}

// NewRegistry builds the merged register map for the given meter model.
// An empty or "generic" model selects the default family. Unknown
// models fall back to the generic table.
func NewRegistry(model string) *Registry {
	if model == "" || strings.EqualFold(model, "generic") {
		model = DefaultModel
	}

	overrides := modelOverrides[model]
	if overrides == nil {
		logger.Warn().Str("model", model).Msg("unknown meter model, using generic register map")
		overrides = modelOverrides[DefaultModel]
	}

	r := &Registry{
		model:  model,
		names:  make([]string, 0, len(genericParams)),
		byName: make(map[string]uint16, len(genericParams)),
		byAddr: make(map[uint16]string, len(genericParams)),
	}
	for _, p := range genericParams {
		addr := p.addr
		if o, ok := overrides[p.name]; ok {
			addr = o
		}
		r.names = append(r.names, p.name)
		r.byName[p.name] = addr
		r.byAddr[addr] = p.name
	}
	return r
}

// Model returns the meter model this registry was built for.
func (r *Registry) Model() string {
	return r.model
}

// Names returns the available parameter names in table order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Resolve maps a ParamSpec to a register address. Address specs bypass
// the table entirely; name specs consult the merged map.
func (r *Registry) Resolve(spec ParamSpec) (uint16, error) {
	if spec.isAddr {
		return spec.addr, nil
	}
	if addr, ok := r.byName[spec.name]; ok {
		return addr, nil
	}
	return 0, &UnknownParamError{Name: spec.name, Model: r.model}
}

// KeyFor chooses the result-map key for a resolved parameter: the
// spec's own name, a reverse-mapped table name for raw addresses, or
// the address as hex text when nothing matches.
func (r *Registry) KeyFor(spec ParamSpec, addr uint16) string {
	if !spec.isAddr {
		return spec.name
	}
	if name, ok := r.byAddr[addr]; ok {
		return name
	}
	return "0x" + strconv.FormatUint(uint64(addr), 16)
}
