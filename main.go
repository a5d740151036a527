package main

import "github.com/YONSEI-TPLAB/map-api/cmd"

func main() {
	cmd.Execute()
}
