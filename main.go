package main

import "github.com/frahmantamala/clinic-management/cmd"

func main() {
	cmd.Execute()
}
