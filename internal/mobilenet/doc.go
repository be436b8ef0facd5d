// Package mobilenet assembles the inverted-residual classifier from a stage
// table: channel rounding, the conv-norm-activation unit, the inverted
// residual block, the network builder and its initialization policy.
package mobilenet
