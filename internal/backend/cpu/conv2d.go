package cpu

import (
	"fmt"

	"github.com/born-ml/mobilenet/internal/parallel"
	"github.com/born-ml/mobilenet/internal/tensor"
)

// Conv2D performs a grouped 2D convolution.
//
// Input shape:  [N, C_in, H, W]
// Kernel shape: [C_out, C_in/groups, K_h, K_w]
// Output shape: [N, C_out, H_out, W_out]
//
//	H_out = (H + 2*padding - K_h) / stride + 1
//	W_out = (W + 2*padding - K_w) / stride + 1
//
// Input channel block g is convolved only with output channel block g.
// groups == 1 is a dense convolution; groups == C_in == C_out is depthwise
// and takes a direct per-channel path. Otherwise each (image, group) pair is
// lowered with im2col and multiplied with one GEMM.
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding, groups int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,C,H,W], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [C_out,C_in/groups,K_h,K_w], got %dD", len(kernelShape)))
	}
	if stride <= 0 || padding < 0 || groups <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride=%d padding=%d groups=%d", stride, padding, groups))
	}

	g := convGeometry{
		N:       inputShape[0],
		CIn:     inputShape[1],
		H:       inputShape[2],
		W:       inputShape[3],
		COut:    kernelShape[0],
		KH:      kernelShape[2],
		KW:      kernelShape[3],
		stride:  stride,
		padding: padding,
		groups:  groups,
	}

	if g.CIn%groups != 0 || g.COut%groups != 0 {
		panic(fmt.Sprintf("conv2d: channels in=%d out=%d not divisible by groups=%d", g.CIn, g.COut, groups))
	}
	if kernelShape[1] != g.CIn/groups {
		panic(fmt.Sprintf("conv2d: kernel expects %d channels per group, input provides %d",
			kernelShape[1], g.CIn/groups))
	}

	g.HOut = (g.H+2*padding-g.KH)/stride + 1
	g.WOut = (g.W+2*padding-g.KW)/stride + 1
	if g.HOut <= 0 || g.WOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", g.HOut, g.WOut))
	}

	output, err := tensor.NewRaw(tensor.Shape{g.N, g.COut, g.HOut, g.WOut}, input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("conv2d: failed to create output tensor: %v", err))
	}

	if input.DType() != tensor.Float32 || kernel.DType() != tensor.Float32 {
		panic(fmt.Sprintf("conv2d: unsupported dtype %s (float32 only)", input.DType()))
	}

	if g.isDepthwise() {
		cpu.depthwiseFloat32(output.AsFloat32(), input.AsFloat32(), kernel.AsFloat32(), g)
	} else {
		cpu.groupedFloat32(output.AsFloat32(), input.AsFloat32(), kernel.AsFloat32(), g)
	}

	return output
}

// convGeometry carries the dimensions shared by the convolution kernels.
type convGeometry struct {
	N, CIn, H, W    int
	COut, KH, KW    int
	HOut, WOut      int
	stride, padding int
	groups          int
}

func (g convGeometry) isDepthwise() bool {
	return g.groups == g.CIn && g.groups == g.COut
}

// isPointwise reports whether im2col would reproduce the input plane as-is.
func (g convGeometry) isPointwise() bool {
	return g.KH == 1 && g.KW == 1 && g.stride == 1 && g.padding == 0
}

// groupedFloat32 runs one GEMM per (image, group):
//
//	out[C_out/g, H_out*W_out] = kernel[C_out/g, C_in/g*K_h*K_w] @ col[C_in/g*K_h*K_w, H_out*W_out]
func (cpu *CPUBackend) groupedFloat32(out, in, kernel []float32, g convGeometry) {
	cinG := g.CIn / g.groups
	coutG := g.COut / g.groups
	k := cinG * g.KH * g.KW
	inPlane := cinG * g.H * g.W
	outPlane := coutG * g.HOut * g.WOut
	positions := g.HOut * g.WOut

	parallel.ForBatch(g.N, g.groups, func(n, grp int) {
		src := in[n*g.CIn*g.H*g.W+grp*inPlane:][:inPlane]
		dst := out[n*g.COut*positions+grp*outPlane:][:outPlane]
		weights := kernel[grp*coutG*k:][:coutG*k]

		col := src
		if !g.isPointwise() {
			col = make([]float32, k*positions)
			im2colFloat32(col, src, cinG, g)
		}

		sgemm(dst, weights, col, coutG, k, positions)
	}, cpu.parallel)
}

// im2colFloat32 lowers one group of one image into a column matrix.
//
// Input:  src [C, H, W]
// Output: col [C*K_h*K_w, H_out*W_out]
//
// Row (c, kh, kw) holds, for every output position, the input value under
// kernel tap (kh, kw) of channel c, or zero where the tap falls in padding.
func im2colFloat32(col, src []float32, channels int, g convGeometry) {
	positions := g.HOut * g.WOut
	row := 0

	for c := 0; c < channels; c++ {
		plane := src[c*g.H*g.W:][:g.H*g.W]
		for kh := 0; kh < g.KH; kh++ {
			for kw := 0; kw < g.KW; kw++ {
				dst := col[row*positions:][:positions]
				idx := 0
				for oh := 0; oh < g.HOut; oh++ {
					h := oh*g.stride - g.padding + kh
					for ow := 0; ow < g.WOut; ow++ {
						w := ow*g.stride - g.padding + kw
						if h >= 0 && h < g.H && w >= 0 && w < g.W {
							dst[idx] = plane[h*g.W+w]
						} else {
							dst[idx] = 0
						}
						idx++
					}
				}
				row++
			}
		}
	}
}

// depthwiseFloat32 convolves every channel with its own single filter.
func (cpu *CPUBackend) depthwiseFloat32(out, in, kernel []float32, g convGeometry) {
	taps := g.KH * g.KW
	inPlane := g.H * g.W
	outPlane := g.HOut * g.WOut

	parallel.ForBatch(g.N, g.CIn, func(n, c int) {
		src := in[(n*g.CIn+c)*inPlane:][:inPlane]
		dst := out[(n*g.COut+c)*outPlane:][:outPlane]
		weights := kernel[c*taps:][:taps]

		for oh := 0; oh < g.HOut; oh++ {
			hStart := oh*g.stride - g.padding
			for ow := 0; ow < g.WOut; ow++ {
				wStart := ow*g.stride - g.padding
				var sum float32
				for kh := 0; kh < g.KH; kh++ {
					h := hStart + kh
					if h < 0 || h >= g.H {
						continue
					}
					for kw := 0; kw < g.KW; kw++ {
						w := wStart + kw
						if w < 0 || w >= g.W {
							continue
						}
						sum += weights[kh*g.KW+kw] * src[h*g.W+w]
					}
				}
				dst[oh*g.WOut+ow] = sum
			}
		}
	}, cpu.parallel)
}
