package main

func bar(n int) {
	for i := 0; i < n; i++ {
	}
}
