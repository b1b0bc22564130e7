// SPDX-License-Identifier: EPL-2.0

package utils

// pcmScale is the float magnitude of full scale for a signed integer depth.
func pcmScale(bits int) float32 {
	switch bits {
	case 8:
		return 128.0
	case 16:
		return 32768.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
}

// PCMToFloat32 normalizes a signed integer sample of the given bit depth to
// [-1, 1). Unknown depths are treated as 16 bit.
func PCMToFloat32(v int, bits int) float32 {
	return float32(v) / pcmScale(bits)
}

// FloatToPCM clamps x to [-1, 1] and scales it to a signed integer sample of
// the given bit depth. Positive full scale maps to the largest value the depth
// can hold.
func FloatToPCM(x float32, bits int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	scale := pcmScale(bits)
	return int(float64(x) * float64(scale-1))
}

func Float32ToInt16(x float32) int16 {
	return int16(FloatToPCM(x, 16))
}
