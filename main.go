package main

import "github.com/jklynch/suitcase-sas/cmd"

func main() {
	cmd.Execute()
}
