package main

import "rag-corpus-dedup/cmd"

func main() {
	cmd.Execute()
}
