package alg

import (
	"fmt"
	"math"
)

const (
	// 取对数前替换非正强度值
	Epsilon = 1e-10
	// 无可用变化值的像元
	ChangeNoData = 0.0
)

// 逐像元计算10·log10(post) − 10·log10(pre)（dB）；valid拒绝（nil全收）或结果非有限的像元
// 置为ChangeNoData，不修改输入
func LogRatio(pre, post Grid, valid func(i int) bool) (out Grid, err error) {
	if !pre.sameShape(post) {
		err = fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, pre.Width, pre.Height, post.Width, post.Height)
		return
	}
	out = NewGrid(pre.Width, pre.Height)
	for i := range out.Data {
		if valid != nil && !valid(i) {
			out.Data[i] = ChangeNoData
			continue
		}
		v := 10*math.Log10(positive(post.Data[i])) - 10*math.Log10(positive(pre.Data[i]))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = ChangeNoData
		}
		out.Data[i] = v
	}
	return
}

func positive(v float64) float64 {
	if v <= 0 {
		return Epsilon
	}
	return v
}
