package main

import "github.com/awillows/win365-lab-builder/cmd"

func main() {
	cmd.Execute()
}
