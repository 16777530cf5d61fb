package main

import "github.com/sergev/max2870/cmd"

func main() {
	cmd.Execute()
}
