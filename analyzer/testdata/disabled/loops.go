package disabled

func g() {}

func loops(a, b bool, xs []int) {
	if a { if b { g() } }

	for _, x := range xs { if x > 0 { g() } else { continue }; g() } // want "this else block is redundant"
}
