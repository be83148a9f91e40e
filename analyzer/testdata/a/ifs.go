package a

func g() {}

func nested(a, b bool) {
	if a { if b { g() } } // want "this if statement can be collapsed"

	if a { g() } else { if b { g() } } // want "block can be collapsed"

	if x := a; x { if b { g() } }

	if a { if b { g() } } //nolint:collapsible-if
}

func loops(xs []int) {
	for _, x := range xs { if x > 0 { g() } else { continue }; g() } // want "this else block is redundant"

	for _, x := range xs { if x > 0 { continue } else { g() }; g() } // want "no need for an explicit .else. block"
}
