package alg

// 值不小于t的像元置1，valid拒绝（nil全收）的像元保持0
func Threshold(g Grid, t float64, valid func(i int) bool) Mask {
	m := NewMask(g.Width, g.Height)
	for i, v := range g.Data {
		if valid != nil && !valid(i) {
			continue
		}
		if v >= t {
			m.Data[i] = 1
		}
	}
	return m
}
