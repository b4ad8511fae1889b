package main

import "github.com/frahmantamala/docportal-access/cmd"

func main() {
	cmd.Execute()
}
