package tensor

// Backend defines the primitives a compute backend provides to the layers.
//
// All operations allocate a fresh result and never modify their inputs.
// Shape or dtype violations are caller bugs and panic.
type Backend interface {
	// Element-wise binary operations with NumPy broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// MatMul multiplies two 2D tensors: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Conv2D convolves input [N, C_in, H, W] with kernel
	// [C_out, C_in/groups, K_h, K_w]. groups == 1 is a dense convolution,
	// groups == C_in == C_out is depthwise.
	Conv2D(input, kernel *RawTensor, stride, padding, groups int) *RawTensor

	// BatchNorm2D normalizes input [N, C, H, W] per channel:
	// y = (x - mean) / sqrt(variance + eps) * scale + shift.
	// scale, shift, mean and variance all have shape [C].
	BatchNorm2D(input, scale, shift, mean, variance *RawTensor, eps float64) *RawTensor

	// ChannelMoments returns the per-channel mean and biased variance of
	// input [N, C, H, W], each with shape [C].
	ChannelMoments(input *RawTensor) (mean, variance *RawTensor)

	// AdaptiveAvgPool2D averages input [N, C, H, W] into [N, C, outH, outW].
	AdaptiveAvgPool2D(input *RawTensor, outH, outW int) *RawTensor

	// Metadata
	Name() string
	Device() Device
}

// ReLU6Backend is implemented by backends that provide the clipped
// rectifier min(max(x, 0), 6).
type ReLU6Backend interface {
	ReLU6(x *RawTensor) *RawTensor
}
