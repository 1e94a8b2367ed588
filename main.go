package main

import "github.com/iksnae/chat-rotator/cmd"

func main() {
	cmd.Execute()
}
