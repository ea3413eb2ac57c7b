package main

import "github.com/iksnae/studio-session/cmd"

func main() {
	cmd.Execute()
}
