// Command yamdb runs the YaMDb review API and its maintenance tasks.
package main

import "yamdb/cmd/yamdb/commands"

func main() {
	commands.Execute()
}
