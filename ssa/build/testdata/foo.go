package main

func foo(x int) int {
	if x > 0 {
		return x + 1
	}
	return 0
}
