package main

import "github.com/wundergraph/graphql-cacheid/cmd"

func main() {
	cmd.Execute()
}
