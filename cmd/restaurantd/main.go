package main

import "github.com/example/restaurant-api/cmd"

func main() {
	cmd.Execute()
}
