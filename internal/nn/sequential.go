package nn

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/born-ml/mobilenet/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input. Children are named
// by their position: "0", "1", ...
//
// Example:
//
//	block := nn.NewSequential[B](
//	    nn.NewConv2D(32, 32, 3, 1, 1, 32, false, backend),
//	    nn.NewBatchNorm2D(32, backend),
//	    nn.NewReLU6(backend),
//	)
//
//	output := block.Forward(input)
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{
		modules: modules,
	}
}

// Forward applies all modules in sequence.
func (s *Sequential[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	output := input
	for _, module := range s.modules {
		output = module.Forward(output)
	}
	return output
}

// Parameters returns the parameters of all modules in order.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Children returns the modules named by index.
func (s *Sequential[B]) Children() []Child[B] {
	children := make([]Child[B], len(s.modules))
	for i, m := range s.modules {
		children[i] = Child[B]{Name: strconv.Itoa(i), Module: m}
	}
	return children
}

// Add appends a module.
func (s *Sequential[B]) Add(module Module[B]) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules.
func (s *Sequential[B]) Len() int {
	return len(s.modules)
}

// Module returns the module at index i.
func (s *Sequential[B]) Module(i int) Module[B] {
	return s.modules[i]
}

// Modules returns a copy of the contained modules in order.
func (s *Sequential[B]) Modules() []Module[B] {
	return slices.Clone(s.modules)
}

// String lists the contained modules, one per line.
func (s *Sequential[B]) String() string {
	var sb strings.Builder
	sb.WriteString("Sequential(\n")
	for i, m := range s.modules {
		fmt.Fprintf(&sb, "  (%d): %v\n", i, m)
	}
	sb.WriteString(")")
	return sb.String()
}
