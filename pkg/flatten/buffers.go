package flatten

// zeroBuffer returns n zero-valued elements.
func zeroBuffer[T any](n int) []T {
	return make([]T, n)
}

// copyBuffer returns exactly n elements copied from src, zero-padded when src
// is short. The result never shares memory with src.
func copyBuffer[T any](src []T, n int) []T {
	dst := make([]T, n)
	copy(dst, src)
	return dst
}

// channel copies src when present and zero-fills otherwise.
func channel[T any](src []T, n int) []T {
	if src == nil {
		return zeroBuffer[T](n)
	}
	return copyBuffer(src, n)
}
