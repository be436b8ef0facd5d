package nn

import (
	"github.com/born-ml/mobilenet/internal/tensor"
)

// NamedParameter pairs a parameter with its dotted path from the root module.
type NamedParameter[B tensor.Backend] struct {
	Name      string
	Parameter *Parameter[B]
}

// Walk visits m and every nested module in pre-order, passing the dotted
// path of each module relative to m ("" for m itself).
func Walk[B tensor.Backend](m Module[B], fn func(path string, m Module[B])) {
	walk("", m, fn)
}

func walk[B tensor.Backend](path string, m Module[B], fn func(string, Module[B])) {
	fn(path, m)
	c, ok := m.(Container[B])
	if !ok {
		return
	}
	for _, child := range c.Children() {
		walk(join(path, child.Name), child.Module, fn)
	}
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// NamedParameters returns every parameter under m with its full path,
// e.g. "features.1.conv.0.0.weight". Order matches m.Parameters().
func NamedParameters[B tensor.Backend](m Module[B]) []NamedParameter[B] {
	var named []NamedParameter[B]
	Walk(m, func(path string, mod Module[B]) {
		if _, ok := mod.(Container[B]); ok {
			return
		}
		for _, p := range mod.Parameters() {
			named = append(named, NamedParameter[B]{Name: join(path, p.Name()), Parameter: p})
		}
	})
	return named
}

// Initializables returns the kind-tagged leaf units under m in forward order.
func Initializables[B tensor.Backend](m Module[B]) []Initializable[B] {
	var units []Initializable[B]
	Walk(m, func(_ string, mod Module[B]) {
		if u, ok := mod.(Initializable[B]); ok {
			units = append(units, u)
		}
	})
	return units
}

// SetTraining switches every Trainable module under m.
func SetTraining[B tensor.Backend](m Module[B], training bool) {
	Walk(m, func(_ string, mod Module[B]) {
		if t, ok := mod.(Trainable); ok {
			t.SetTraining(training)
		}
	})
}

// CountParameters returns the total number of scalar parameter values under m.
func CountParameters[B tensor.Backend](m Module[B]) int {
	total := 0
	for _, p := range m.Parameters() {
		total += p.NumElements()
	}
	return total
}
