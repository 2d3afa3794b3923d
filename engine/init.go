package engine

// LMR[depth][moveCount] is the late move reduction, precomputed at
// startup.
var LMR [MaxDepth + 1][100]int8

func init() {
	initLMRTable()
}

func initLMRTable() {
	for d := 1; d <= MaxDepth; d++ {
		for m := 1; m < 100; m++ {
			r := 1 + d/8 + m/16
			if r > d-2 {
				r = d - 2
			}
			if r < 0 {
				r = 0
			}
			LMR[d][m] = int8(r)
		}
	}
}
