package main

import "oscontrol/cmd"

func main() {
	cmd.Execute()
}
