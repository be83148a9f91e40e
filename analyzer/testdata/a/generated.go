// Code generated by hand for tests. DO NOT EDIT.

package a

func generated(a, b bool) {
	if a { if b { g() } }
}
