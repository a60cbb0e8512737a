package main

import "time-tracker/cmd"

func main() {
	cmd.Execute()
}
