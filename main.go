package main

import "github.com/topspot/topspot/cmd"

func main() {
	cmd.Execute()
}
