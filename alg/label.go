package alg

// 逐行扫描，为值为1的连通块从1开始编号；背景labels[i]为0，sizes[k]为第k块像元数（sizes[0]不用）
func Label(m Mask, conn Connectivity) (labels []int32, sizes []int) {
	w, h := m.Width, m.Height
	labels = make([]int32, w*h)
	sizes = []int{0}
	offs := conn.offsets()
	stack := make([]int, 0, 64)
	for start, v := range m.Data {
		if v != 1 || labels[start] != 0 {
			continue
		}
		id := int32(len(sizes))
		labels[start] = id
		stack = append(stack[:0], start)
		count := 0
		for len(stack) > 0 {
			ci := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			count++
			cx, cy := ci%w, ci/w
			for _, o := range offs {
				nx, ny := cx+o[0], cy+o[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				ni := ny*w + nx
				if m.Data[ni] == 1 && labels[ni] == 0 {
					labels[ni] = id
					stack = append(stack, ni)
				}
			}
		}
		sizes = append(sizes, count)
	}
	return
}

// 清除像元数少于minPixels的连通块
func RemoveSmallComponents(m Mask, minPixels int, conn Connectivity) Mask {
	out := m.Clone()
	if minPixels <= 1 {
		return out
	}
	labels, sizes := Label(m, conn)
	for i, l := range labels {
		if l != 0 && sizes[l] < minPixels {
			out.Data[i] = 0
		}
	}
	return out
}
