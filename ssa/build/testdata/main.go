package main

func main() {
	n := foo(1)
	bar(n)
}
