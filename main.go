package main

import "github.com/Real-Life-IaC/ch-pubsub/cmd"

func main() {
	cmd.Execute()
}
