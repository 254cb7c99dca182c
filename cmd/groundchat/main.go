package main

// main is the entry point for groundchat.
func main() {
	Execute()
}
