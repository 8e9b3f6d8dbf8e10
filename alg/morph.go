package alg

// 二值形态学运算对边界外像元的取值方式
type Border int

const (
	// 边界外视为背景
	BorderZero Border = iota
	// 复制最近的边缘像元
	BorderReplicate
)

// size×size方形结构元的偏移范围，原点位于size/2，偶数边长时向后多一格
func squareSpan(size int) (lo, hi int) {
	lo = -(size / 2)
	hi = size - 1 - size/2
	return
}

// 腐蚀：周围size×size方形内全为1时保留
func Erode(m Mask, size int, b Border) Mask {
	if size <= 1 {
		return m.Clone()
	}
	lo, hi := squareSpan(size)
	return morphPass(morphPass(m, lo, hi, b, true, false), lo, hi, b, true, true)
}

// 膨胀：镜像方形内任一像元为1时置位
func Dilate(m Mask, size int, b Border) Mask {
	if size <= 1 {
		return m.Clone()
	}
	lo, hi := squareSpan(size)
	return morphPass(morphPass(m, -hi, -lo, b, false, false), -hi, -lo, b, false, true)
}

// 开运算：先腐蚀后膨胀，去除小于结构元的斑块
func Open(m Mask, size int, b Border) Mask {
	return Dilate(Erode(m, size, b), size, b)
}

// 闭运算：先膨胀后腐蚀，填补小于结构元的空隙
func Close(m Mask, size int, b Border) Mask {
	return Erode(Dilate(m, size, b), size, b)
}

// 沿行（vertical时沿列）在[i+lo, i+hi]上做一维腐蚀或膨胀；方形结构元可分离，两遍即得二维结果
func morphPass(m Mask, lo, hi int, b Border, erode, vertical bool) Mask {
	out := NewMask(m.Width, m.Height)
	lines, n := m.Height, m.Width
	if vertical {
		lines, n = m.Width, m.Height
	}
	at := func(line, i int) uint8 {
		if vertical {
			return m.Data[i*m.Width+line]
		}
		return m.Data[line*m.Width+i]
	}
	for line := 0; line < lines; line++ {
		for i := 0; i < n; i++ {
			hit := erode
			for k := lo; k <= hi; k++ {
				j := i + k
				var v uint8
				if j < 0 || j >= n {
					if b == BorderZero {
						v = 0
					} else {
						v = at(line, clamp(j, n))
					}
				} else {
					v = at(line, j)
				}
				if erode && v != 1 {
					hit = false
					break
				}
				if !erode && v == 1 {
					hit = true
					break
				}
			}
			if hit {
				if vertical {
					out.Data[i*m.Width+line] = 1
				} else {
					out.Data[line*m.Width+i] = 1
				}
			}
		}
	}
	return out
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
