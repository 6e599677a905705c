package main

import "github.com/nekruzvatanshoev/carvalue/pkg/cmd"

func main() {
	cmd.Execute()
}
