package main

import "github.com/ahl/skytransit/cmd"

func main() {
	cmd.Execute()
}
